// Package strict 注册只接受 /owner/repo/refs/heads/branch/file 的严格模式。
package strict

import (
	"github.com/ghraw-proxy/ghraw-proxy/internal/githubpath"
	"github.com/ghraw-proxy/ghraw-proxy/internal/mode"
)

func init() {
	mode.MustRegister(mode.Metadata{
		Key:               "strict",
		Description:       "Allowlisted repositories, refs/heads paths only",
		MinSegments:       5,
		RequiresAllowlist: true,
		SetCacheControl:   true,
		FormatHint:        githubpath.StrictFormatHint,
		ConfigSource:      "SOURCE_REPOS",
		Configured:        mode.HasAllowlist,
		Resolve: func(s mode.Settings, segments []string) (githubpath.Target, error) {
			return githubpath.TranslateStrict(segments, s.Bases)
		},
	})
}
