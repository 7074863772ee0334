package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ghraw-proxy/ghraw-proxy/internal/githubpath"
	"github.com/ghraw-proxy/ghraw-proxy/internal/mode"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// GlobalConfig 描述进程级运行参数：监听端口、日志与上游超时。
type GlobalConfig struct {
	ListenPort      int      `mapstructure:"ListenPort"`
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
	UpstreamTimeout Duration `mapstructure:"UpstreamTimeout"`
}

// SourceConfig 描述代理允许访问的仓库以及路径翻译模式。
type SourceConfig struct {
	Mode          string   `mapstructure:"Mode"`
	SourceRepos   []string `mapstructure:"SourceRepos"`
	SourceRepo    string   `mapstructure:"SourceRepo"`
	RawBaseURL    string   `mapstructure:"RawBaseURL"`
	GitHubBaseURL string   `mapstructure:"GitHubBaseURL"`
	CacheControl  string   `mapstructure:"CacheControl"`
}

// Config 是配置文件与环境变量合并后的整体结构，启动后只读。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Source SourceConfig `mapstructure:",squash"`
}

// ModeSettings 生成模式运行所需的只读快照。
func (c *Config) ModeSettings() mode.Settings {
	if c == nil {
		return mode.Settings{Bases: githubpath.DefaultBases()}
	}
	return mode.Settings{
		SourceRepos: append([]string(nil), c.Source.SourceRepos...),
		SourceRepo:  c.Source.SourceRepo,
		Bases: githubpath.Bases{
			Raw:    c.Source.RawBaseURL,
			GitHub: c.Source.GitHubBaseURL,
		},
	}
}

// ModeKey 返回生效的模式键，未配置时回退默认模式。
func (c *Config) ModeKey() string {
	if c == nil {
		return mode.DefaultModeKey()
	}
	if key := mode.NormalizeKey(c.Source.Mode); key != "" {
		return key
	}
	return mode.DefaultModeKey()
}

// Configured 表示当前模式所需的仓库来源是否已经提供。
func (c *Config) Configured() bool {
	meta, ok := mode.Resolve(c.ModeKey())
	if !ok {
		return false
	}
	return meta.Configured(c.ModeSettings())
}
