package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/ghraw-proxy/ghraw-proxy/internal/config"
	"github.com/ghraw-proxy/ghraw-proxy/internal/githubpath"
	"github.com/ghraw-proxy/ghraw-proxy/internal/logging"
	"github.com/ghraw-proxy/ghraw-proxy/internal/mode"
	"github.com/ghraw-proxy/ghraw-proxy/internal/server"
)

const (
	defaultContentType = "text/plain"
	headerUpstream     = "X-Ghraw-Upstream"
)

// Handler 负责 “解析 → allowlist → 翻译 → 单次回源 → 响应” 的全流程。
// 配置快照在构造时注入，之后只读，请求之间不共享可变状态。
type Handler struct {
	client       *http.Client
	logger       *logrus.Logger
	mode         mode.Metadata
	settings     mode.Settings
	cacheControl string
}

// NewHandler constructs a proxy handler bound to the configured mode.
func NewHandler(client *http.Client, logger *logrus.Logger, cfg *config.Config) (*Handler, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	key := cfg.ModeKey()
	meta, ok := mode.Resolve(key)
	if !ok {
		return nil, fmt.Errorf("mode %s is not registered", key)
	}
	return &Handler{
		client:       client,
		logger:       logger,
		mode:         meta,
		settings:     cfg.ModeSettings(),
		cacheControl: cfg.Source.CacheControl,
	}, nil
}

// ModeKey 返回处理器绑定的模式键，供诊断接口使用。
func (h *Handler) ModeKey() string {
	return h.mode.Key
}

// requestLog 汇总一次请求的日志字段，处理结束时统一输出。
type requestLog struct {
	requestID string
	method    string
	path      string
	target    githubpath.Target
	started   time.Time
}

// Handle 实现 server.ProxyHandler。所有失败都在这里转换成 JSON 响应，不会抛给 Fiber。
func (h *Handler) Handle(c fiber.Ctx) error {
	rec := requestLog{
		requestID: server.RequestID(c),
		method:    c.Method(),
		path:      string(c.Request().URI().PathOriginal()),
		started:   time.Now(),
	}

	target, perr := h.resolve(githubpath.SplitEscaped(rec.path))
	rec.target = target
	if perr != nil {
		return h.fail(c, &rec, perr)
	}

	body, contentType, perr := h.fetch(requestContext(c), target.URL)
	if perr != nil {
		return h.fail(c, &rec, perr)
	}

	c.Set(fiber.HeaderContentType, contentType)
	if h.mode.SetCacheControl && h.cacheControl != "" {
		c.Set(fiber.HeaderCacheControl, h.cacheControl)
	}
	c.Set(headerUpstream, target.URL)
	h.logResult(&rec, fiber.StatusOK, nil)
	return c.Status(fiber.StatusOK).Send(body)
}

// resolve 依次检查：配置是否存在、段数、allowlist，最后才识别路径结构。
// allowlist 始终基于原始 owner/repo 计算，而不是翻译后的上游 URL。
func (h *Handler) resolve(segments []string) (githubpath.Target, *ProxyError) {
	if !h.mode.Configured(h.settings) {
		return githubpath.Target{}, errConfigurationMissing(h.mode.ConfigSource)
	}
	if len(segments) < h.mode.MinSegments {
		return githubpath.Target{}, errMalformedPath(h.mode.FormatHint, nil)
	}
	if h.mode.RequiresAllowlist {
		if len(segments) < 2 {
			return githubpath.Target{}, errMalformedPath(h.mode.FormatHint, nil)
		}
		repoURL := githubpath.CanonicalRepoURL(segments[0], segments[1])
		if !h.settings.Allowed(repoURL) {
			return githubpath.Target{Owner: segments[0], Repo: segments[1]}, errRepositoryForbidden(repoURL)
		}
	}

	target, err := h.mode.Resolve(h.settings, segments)
	if err != nil {
		return githubpath.Target{}, errMalformedPath(h.mode.FormatHint, err)
	}
	return target, nil
}

// fetch 发起唯一一次 GET，不附加自定义头，也不重试；成功时完整读取响应体。
func (h *Handler) fetch(ctx context.Context, upstreamURL string) ([]byte, string, *ProxyError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstreamURL, http.NoBody)
	if err != nil {
		return nil, "", errTransport(err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", errTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", errUpstreamStatus(resp.StatusCode, upstreamURL, h.mode.DistinguishNotFound)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errTransport(err)
	}

	contentType := resp.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = defaultContentType
	}
	return body, contentType, nil
}

func (h *Handler) fail(c fiber.Ctx, rec *requestLog, perr *ProxyError) error {
	h.logResult(rec, perr.Status, perr)
	return c.Status(perr.Status).JSON(perr.Body())
}

func (h *Handler) logResult(rec *requestLog, status int, perr *ProxyError) {
	fields := logging.RequestFields(
		h.mode.Key,
		rec.method,
		rec.path,
		rec.target.Owner,
		rec.target.Repo,
		string(rec.target.Shape),
	)
	fields["action"] = "proxy"
	fields["status"] = status
	fields["elapsed_ms"] = time.Since(rec.started).Milliseconds()
	if rec.target.URL != "" {
		fields["upstream"] = rec.target.URL
	}
	if rec.requestID != "" {
		fields["request_id"] = rec.requestID
	}
	if perr == nil {
		h.logger.WithFields(fields).Info("proxy_complete")
		return
	}

	fields["error_kind"] = string(perr.Kind)
	if perr.UpstreamStatus != 0 {
		fields["upstream_status"] = perr.UpstreamStatus
	}
	entry := h.logger.WithFields(fields)
	if perr.Err != nil {
		entry = entry.WithError(perr.Err)
	}
	switch perr.Kind {
	case KindMalformedPath, KindRepositoryForbidden:
		entry.Warn("proxy_rejected")
	default:
		entry.Error("proxy_failed")
	}
}

func requestContext(c fiber.Ctx) context.Context {
	ctx := c.Context()
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
