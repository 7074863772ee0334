package githubpath

import (
	"errors"
	"net/url"
	"strings"
)

const (
	// DefaultRawBase 是 raw 内容的上游主机。
	DefaultRawBase = "https://raw.githubusercontent.com"
	// DefaultGitHubBase 是 release 资产与仓库规范 URL 所使用的主机。
	DefaultGitHubBase = "https://github.com"
)

// Shape 标识入站路径命中的结构。
type Shape string

const (
	ShapeRefsHeads     Shape = "refs_heads"
	ShapeLatestRelease Shape = "latest_release"
	ShapeTaggedRelease Shape = "tagged_release"
	ShapeBranch        Shape = "branch"
	ShapeSingleRepo    Shape = "single_repo"
)

// FormatHint 列出多格式模式支持的全部路径结构，用于 400 响应。
const FormatHint = "Invalid path format. Expected one of: " +
	"/username/repo/refs/heads/branch/file-path, " +
	"/username/repo/release/file-path, " +
	"/username/repo/releases/download/tag/file-path, " +
	"/username/repo/branch/file-path"

// StrictFormatHint 对应只接受 refs/heads 结构的严格模式。
const StrictFormatHint = "Invalid path format. Expected: /username/repo/refs/heads/branch/file-path"

// SingleFormatHint 对应单仓库模式。
const SingleFormatHint = "Invalid path format. Expected: /refs/heads/branch/file-path"

// ErrMalformedPath 表示路径段数不足或不符合任何已知结构。
var ErrMalformedPath = errors.New("malformed path")

// Bases 描述上游主机，测试或镜像场景可以覆盖。
type Bases struct {
	Raw    string
	GitHub string
}

// DefaultBases 返回 GitHub 官方主机。
func DefaultBases() Bases {
	return Bases{Raw: DefaultRawBase, GitHub: DefaultGitHubBase}
}

func (b Bases) raw() string {
	if b.Raw == "" {
		return DefaultRawBase
	}
	return strings.TrimSuffix(b.Raw, "/")
}

func (b Bases) github() string {
	if b.GitHub == "" {
		return DefaultGitHubBase
	}
	return strings.TrimSuffix(b.GitHub, "/")
}

// Target 是一次请求解析出的上游描述，只在单个请求内有效。
type Target struct {
	Owner    string
	Repo     string
	Shape    Shape
	Ref      string
	FilePath string
	URL      string
}

// SplitEscaped 切分尚未解码的原始路径并丢弃空段：先按 / 切分再逐段解码，
// 因此 %2F 留在段内，不会产生新的段边界。
// "." 与 ".." 按 URL 规范化规则处理。每段以 url.PathEscape 的形式返回，
// 可以直接拼接进上游 URL。普通的 owner、repo 和文件名保持原样。
func SplitEscaped(rawPath string) []string {
	parts := strings.Split(rawPath, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		decoded, err := url.PathUnescape(part)
		if err != nil {
			// 非法转义按字面值处理
			decoded = part
		}
		switch decoded {
		case ".":
			continue
		case "..":
			if len(result) > 0 {
				result = result[:len(result)-1]
			}
			continue
		}
		result = append(result, url.PathEscape(decoded))
	}
	return result
}

// CanonicalRepoURL 返回 allowlist 比对使用的 https://github.com/<owner>/<repo>。
// 不做大小写、结尾斜杠或 .git 归一化。
func CanonicalRepoURL(owner, repo string) string {
	return DefaultGitHubBase + "/" + owner + "/" + repo
}
