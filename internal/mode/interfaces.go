package mode

import "github.com/ghraw-proxy/ghraw-proxy/internal/githubpath"

const defaultModeKey = "multi"

// Settings 是模式运行所需的只读配置快照，由 config 包在启动时生成。
type Settings struct {
	SourceRepos []string
	SourceRepo  string
	Bases       githubpath.Bases
}

// Resolver 根据路径段计算上游目标。
type Resolver func(settings Settings, segments []string) (githubpath.Target, error)

// Metadata 记录一个模式的静态信息，供代理处理器与诊断接口使用。
type Metadata struct {
	Key         string
	Description string
	// MinSegments 是去掉空段后路径至少需要的段数，不足时直接返回 400。
	MinSegments int
	// RequiresAllowlist 为 true 时 owner/repo 必须出现在 SourceRepos 中。
	RequiresAllowlist bool
	// DistinguishNotFound 为 true 时上游 404 原样返回 404，否则统一为 500。
	DistinguishNotFound bool
	SetCacheControl     bool
	FormatHint          string
	ConfigSource        string
	Configured          func(Settings) bool
	Resolve             Resolver
}

// DefaultModeKey 返回未显式配置时使用的模式。
func DefaultModeKey() string {
	return defaultModeKey
}

// HasAllowlist 判断 SourceRepos 是否至少包含一个仓库。
func HasAllowlist(s Settings) bool {
	return len(s.SourceRepos) > 0
}

// Allowed 以精确字符串比较检查规范仓库 URL 是否在 allowlist 中。
func (s Settings) Allowed(repoURL string) bool {
	for _, candidate := range s.SourceRepos {
		if candidate == repoURL {
			return true
		}
	}
	return false
}
