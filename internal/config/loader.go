package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/ghraw-proxy/ghraw-proxy/internal/githubpath"
)

const (
	envPrefix           = "GHRAW"
	defaultListenPort   = 8787
	defaultCacheControl = "public, max-age=300"
)

// Load 合并配置文件（可选）与环境变量，注入默认值并校验。
// path 为空时只读取环境变量，SOURCE_REPOS/SOURCE_REPO 沿用无前缀的名字。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	applySourceDefaults(&cfg.Source)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", defaultListenPort)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("UpstreamTimeout", "30s")
	v.SetDefault("Mode", "")
	v.SetDefault("SourceRepos", "")
	v.SetDefault("SourceRepo", "")
	v.SetDefault("RawBaseURL", githubpath.DefaultRawBase)
	v.SetDefault("GitHubBaseURL", githubpath.DefaultGitHubBase)
	v.SetDefault("CacheControl", defaultCacheControl)
}

// bindEnv 让 GHRAW_* 覆盖所有键，同时保留 SOURCE_REPOS/SOURCE_REPO 这两个既有变量名。
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv("SourceRepos", "SOURCE_REPOS", envPrefix+"_SOURCEREPOS"); err != nil {
		return fmt.Errorf("绑定环境变量失败: %w", err)
	}
	if err := v.BindEnv("SourceRepo", "SOURCE_REPO", envPrefix+"_SOURCEREPO"); err != nil {
		return fmt.Errorf("绑定环境变量失败: %w", err)
	}
	return nil
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = defaultListenPort
	}
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.UpstreamTimeout.DurationValue() == 0 {
		g.UpstreamTimeout = Duration(30 * time.Second)
	}
}

// applySourceDefaults 只丢弃空元素；allowlist 按原样逐字比较，不做 trim 或大小写归一化。
func applySourceDefaults(s *SourceConfig) {
	repos := make([]string, 0, len(s.SourceRepos))
	for _, repo := range s.SourceRepos {
		if repo != "" {
			repos = append(repos, repo)
		}
	}
	s.SourceRepos = repos
	s.SourceRepo = strings.TrimSpace(s.SourceRepo)
	s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
	if s.RawBaseURL == "" {
		s.RawBaseURL = githubpath.DefaultRawBase
	}
	if s.GitHubBaseURL == "" {
		s.GitHubBaseURL = githubpath.DefaultGitHubBase
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
