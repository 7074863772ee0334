// Package single 注册单仓库模式：整条路径拼接到 SOURCE_REPO 的 raw 基址之后。
// 只有一个仓库，因此不做 allowlist 检查，也不附加 Cache-Control。
package single

import (
	"strings"

	"github.com/ghraw-proxy/ghraw-proxy/internal/githubpath"
	"github.com/ghraw-proxy/ghraw-proxy/internal/mode"
)

func init() {
	mode.MustRegister(mode.Metadata{
		Key:          "single",
		Description:  "One configured repository, whole path appended to its raw-content base",
		MinSegments:  1,
		FormatHint:   githubpath.SingleFormatHint,
		ConfigSource: "SOURCE_REPO",
		Configured: func(s mode.Settings) bool {
			return strings.TrimSpace(s.SourceRepo) != ""
		},
		Resolve: func(s mode.Settings, segments []string) (githubpath.Target, error) {
			base := githubpath.RawBaseForRepo(s.SourceRepo, s.Bases)
			return githubpath.TranslateSingle(base, segments)
		},
	})
}
