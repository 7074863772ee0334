package githubpath

import (
	"fmt"
	"strings"
)

// Translate 按固定优先级识别多格式路径：
// refs/heads → release → releases/download → 分支兜底。
// refs/heads 必须先于兜底判断，否则会被当成名为 refs 的分支。
func Translate(segments []string, bases Bases) (Target, error) {
	if len(segments) < 3 {
		return Target{}, fmt.Errorf("%w: %s", ErrMalformedPath, FormatHint)
	}
	owner, repo := segments[0], segments[1]
	target := Target{Owner: owner, Repo: repo}

	switch {
	case len(segments) >= 6 && segments[2] == "refs" && segments[3] == "heads":
		target.Shape = ShapeRefsHeads
		target.Ref = segments[4]
		target.FilePath = strings.Join(segments[5:], "/")
		target.URL = rawURL(bases, owner, repo, target.Ref, target.FilePath)
	case len(segments) >= 4 && segments[2] == "release":
		target.Shape = ShapeLatestRelease
		target.FilePath = strings.Join(segments[3:], "/")
		target.URL = fmt.Sprintf("%s/%s/%s/releases/latest/download/%s", bases.github(), owner, repo, target.FilePath)
	case len(segments) >= 6 && segments[2] == "releases" && segments[3] == "download":
		target.Shape = ShapeTaggedRelease
		target.Ref = segments[4]
		target.FilePath = strings.Join(segments[5:], "/")
		target.URL = fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", bases.github(), owner, repo, target.Ref, target.FilePath)
	case len(segments) >= 4:
		target.Shape = ShapeBranch
		target.Ref = segments[2]
		target.FilePath = strings.Join(segments[3:], "/")
		target.URL = rawURL(bases, owner, repo, target.Ref, target.FilePath)
	default:
		return Target{}, fmt.Errorf("%w: %s", ErrMalformedPath, FormatHint)
	}
	return target, nil
}

// TranslateStrict 只接受 /owner/repo/refs/heads/branch/file 形式，
// 第 3、4 段不做校验，分支固定取第 5 段。
func TranslateStrict(segments []string, bases Bases) (Target, error) {
	if len(segments) < 5 {
		return Target{}, fmt.Errorf("%w: %s", ErrMalformedPath, StrictFormatHint)
	}
	owner, repo := segments[0], segments[1]
	target := Target{
		Owner:    owner,
		Repo:     repo,
		Shape:    ShapeRefsHeads,
		Ref:      segments[4],
		FilePath: strings.Join(segments[5:], "/"),
	}
	target.URL = rawURL(bases, owner, repo, target.Ref, target.FilePath)
	return target, nil
}

// TranslateSingle 把整个入站路径直接拼到单仓库的 raw 基址之后，不校验结构。
func TranslateSingle(repoBase string, segments []string) (Target, error) {
	if len(segments) == 0 {
		return Target{}, fmt.Errorf("%w: %s", ErrMalformedPath, SingleFormatHint)
	}
	suffix := strings.Join(segments, "/")
	target := Target{
		Shape:    ShapeSingleRepo,
		FilePath: suffix,
		URL:      strings.TrimSuffix(repoBase, "/") + "/" + suffix,
	}
	if len(segments) >= 3 && segments[0] == "refs" && segments[1] == "heads" {
		target.Ref = segments[2]
	}
	return target, nil
}

// RawBaseForRepo 将 https://github.com/<owner>/<repo> 转换为 raw 内容基址。
// 已经指向 raw 主机或其他主机的地址原样返回（去掉结尾斜杠）。
func RawBaseForRepo(repoURL string, bases Bases) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(repoURL), "/")
	prefix := DefaultGitHubBase + "/"
	if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
		return bases.raw() + "/" + strings.TrimSuffix(rest, ".git")
	}
	return trimmed
}

func rawURL(bases Bases, owner, repo, ref, file string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", bases.raw(), owner, repo, ref, file)
}
