package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/sirupsen/logrus"

	"github.com/ghraw-proxy/ghraw-proxy/internal/mode"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
// 未配置任何仓库不是校验错误：请求阶段会以 500 "not configured" 响应。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError("LogLevel", fmt.Sprintf("无法识别的日志级别: %s", g.LogLevel))
	}
	if g.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError("UpstreamTimeout", "必须大于 0")
	}
	if g.LogMaxSize < 0 || g.LogMaxBackups < 0 {
		return newFieldError("LogMaxSize/LogMaxBackups", "不能为负数")
	}

	s := c.Source
	if _, ok := mode.Resolve(c.ModeKey()); !ok {
		return newFieldError("Mode", "仅支持 "+strings.Join(mode.Keys(), "|"))
	}
	if s.SourceRepo != "" {
		if err := validateUpstream(s.SourceRepo); err != nil {
			return fmt.Errorf("SourceRepo: %w", err)
		}
	}
	if err := validateUpstream(s.RawBaseURL); err != nil {
		return fmt.Errorf("RawBaseURL: %w", err)
	}
	if err := validateUpstream(s.GitHubBaseURL); err != nil {
		return fmt.Errorf("GitHubBaseURL: %w", err)
	}
	return nil
}

// MalformedSourceRepos 返回 allowlist 中不是合法 URL 的条目。
// 这些条目不会阻止启动：allowlist 按原样精确匹配，非法条目只是永远不会命中。
func (c *Config) MalformedSourceRepos() []string {
	if c == nil {
		return nil
	}
	var bad []string
	for _, repo := range c.Source.SourceRepos {
		if !govalidator.IsURL(repo) {
			bad = append(bad, repo)
		}
	}
	return bad
}

func validateUpstream(raw string) error {
	if raw == "" {
		return errors.New("缺少上游地址")
	}
	if !govalidator.IsURL(raw) {
		return fmt.Errorf("不是合法的 URL: %s", raw)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https，上游: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("上游缺少 Host: %s", raw)
	}
	return nil
}
