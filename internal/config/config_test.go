package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(testConfigPath(t, "valid.toml"))
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if cfg.Global.UpstreamTimeout.DurationValue() != 15*time.Second {
		t.Fatalf("UpstreamTimeout 应为 15s，得到 %s", cfg.Global.UpstreamTimeout.DurationValue())
	}
	if len(cfg.Source.SourceRepos) != 2 {
		t.Fatalf("应解析出 2 个仓库，得到 %v", cfg.Source.SourceRepos)
	}
	if cfg.Source.CacheControl != "public, max-age=300" {
		t.Fatalf("CacheControl 应填充默认值，得到 %q", cfg.Source.CacheControl)
	}
	if cfg.ModeKey() != "multi" {
		t.Fatalf("模式应为 multi，得到 %s", cfg.ModeKey())
	}
	if !cfg.Configured() {
		t.Fatalf("配置了 SourceRepos 时应视为已配置")
	}
}

func TestLoadYAMLSingleMode(t *testing.T) {
	cfg, err := Load(testConfigPath(t, "single.yaml"))
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if cfg.ModeKey() != "single" {
		t.Fatalf("模式应为 single，得到 %s", cfg.ModeKey())
	}
	if cfg.Global.ListenPort != 9000 {
		t.Fatalf("ListenPort 应为 9000，得到 %d", cfg.Global.ListenPort)
	}
	if !cfg.Configured() {
		t.Fatalf("single 模式配置了 SourceRepo 时应视为已配置")
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	_, err := Load(testConfigPath(t, "invalid_mode.toml"))
	if err == nil {
		t.Fatalf("未注册的模式应返回错误")
	}
	var fieldErr FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "Mode" {
		t.Fatalf("应返回 Mode 字段错误，得到 %v", err)
	}
}

func TestLoadFromEnvironmentOnly(t *testing.T) {
	t.Setenv("SOURCE_REPOS", "https://github.com/alice/repo,https://github.com/bob/tools,")
	t.Setenv("GHRAW_LISTENPORT", "9100")
	t.Setenv("GHRAW_MODE", "strict")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	want := []string{"https://github.com/alice/repo", "https://github.com/bob/tools"}
	if len(cfg.Source.SourceRepos) != len(want) {
		t.Fatalf("SourceRepos 解析错误: %v", cfg.Source.SourceRepos)
	}
	for i := range want {
		if cfg.Source.SourceRepos[i] != want[i] {
			t.Fatalf("SourceRepos[%d] 应为 %s，得到 %s", i, want[i], cfg.Source.SourceRepos[i])
		}
	}
	if cfg.Global.ListenPort != 9100 {
		t.Fatalf("GHRAW_LISTENPORT 应生效，得到 %d", cfg.Global.ListenPort)
	}
	if cfg.ModeKey() != "strict" {
		t.Fatalf("GHRAW_MODE 应生效，得到 %s", cfg.ModeKey())
	}
}

func TestLoadKeepsMalformedSourceReposVerbatim(t *testing.T) {
	t.Setenv("SOURCE_REPOS", "https://github.com/a/b, https://github.com/c/d")
	t.Setenv("SOURCE_REPO", "")
	t.Setenv("GHRAW_MODE", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("含空格的 allowlist 不应导致加载失败: %v", err)
	}
	want := []string{"https://github.com/a/b", " https://github.com/c/d"}
	if len(cfg.Source.SourceRepos) != len(want) {
		t.Fatalf("SourceRepos 解析错误: %q", cfg.Source.SourceRepos)
	}
	for i := range want {
		if cfg.Source.SourceRepos[i] != want[i] {
			t.Fatalf("SourceRepos[%d] 应原样保留为 %q，得到 %q", i, want[i], cfg.Source.SourceRepos[i])
		}
	}
	bad := cfg.MalformedSourceRepos()
	if len(bad) != 1 || bad[0] != " https://github.com/c/d" {
		t.Fatalf("应报告带前导空格的条目，得到 %q", bad)
	}
	if !cfg.Configured() {
		t.Fatalf("存在条目时应视为已配置")
	}
}

func TestLoadWithoutSourcesIsNotAnError(t *testing.T) {
	t.Setenv("SOURCE_REPOS", "")
	t.Setenv("SOURCE_REPO", "")
	t.Setenv("GHRAW_MODE", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("缺少仓库配置不应导致加载失败: %v", err)
	}
	if cfg.Configured() {
		t.Fatalf("没有 SourceRepos 时不应视为已配置")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(testConfigPath(t, "absent.toml")); err == nil {
		t.Fatalf("配置文件不存在时应返回错误")
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	path := writeTempConfig(t, `
UpstreamTimeout = "boom"
SourceRepos = ["https://github.com/alice/repo"]
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 Duration 应失败")
	}
}

func TestValidateEnforcesListenPortRange(t *testing.T) {
	cfg := validConfig()
	cfg.Global.ListenPort = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatalf("ListenPort 超出范围应当报错")
	}
}

func TestValidateSourceRepo(t *testing.T) {
	testCases := []struct {
		name      string
		repo      string
		shouldErr bool
	}{
		{"github ok", "https://github.com/alice/repo", false},
		{"raw ok", "https://raw.githubusercontent.com/alice/repo", false},
		{"ftp scheme", "ftp://github.com/alice/repo", true},
		{"not a url", "alice/repo with spaces", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Source.SourceRepo = tc.repo
			err := cfg.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected error for repo %q", tc.repo)
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("unexpected error for repo %q: %v", tc.repo, err)
			}
		})
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Global.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("无法识别的日志级别应报错")
	}
}

func TestModeSettingsCopiesAllowlist(t *testing.T) {
	cfg := validConfig()
	settings := cfg.ModeSettings()
	settings.SourceRepos[0] = "mutated"
	if cfg.Source.SourceRepos[0] == "mutated" {
		t.Fatalf("ModeSettings 应返回 allowlist 副本")
	}
	if settings.Bases.Raw != cfg.Source.RawBaseURL {
		t.Fatalf("Bases.Raw 应取自 RawBaseURL")
	}
}

func validConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			ListenPort:      8787,
			LogLevel:        "info",
			UpstreamTimeout: Duration(time.Second),
		},
		Source: SourceConfig{
			SourceRepos:   []string{"https://github.com/alice/repo"},
			RawBaseURL:    "https://raw.githubusercontent.com",
			GitHubBaseURL: "https://github.com",
			CacheControl:  "public, max-age=300",
		},
	}
}
