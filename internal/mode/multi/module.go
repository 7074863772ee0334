// Package multi 注册默认的多格式模式：refs/heads、release、releases/download 与分支兜底。
package multi

import (
	"github.com/ghraw-proxy/ghraw-proxy/internal/githubpath"
	"github.com/ghraw-proxy/ghraw-proxy/internal/mode"
)

func init() {
	mode.MustRegister(mode.Metadata{
		Key:                 "multi",
		Description:         "Allowlisted repositories with branch, refs/heads, latest release and tagged release paths",
		MinSegments:         3,
		RequiresAllowlist:   true,
		DistinguishNotFound: true,
		SetCacheControl:     true,
		FormatHint:          githubpath.FormatHint,
		ConfigSource:        "SOURCE_REPOS",
		Configured:          mode.HasAllowlist,
		Resolve: func(s mode.Settings, segments []string) (githubpath.Target, error) {
			return githubpath.Translate(segments, s.Bases)
		},
	})
}
