package proxy

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
)

// Kind 对代理请求可能出现的失败进行分类。
type Kind string

const (
	KindConfigurationMissing Kind = "configuration_missing"
	KindMalformedPath        Kind = "malformed_path"
	KindRepositoryForbidden  Kind = "repository_forbidden"
	KindUpstreamFailure      Kind = "upstream_failure"
	KindTransportError       Kind = "transport_error"
	// KindUnknownTransport 表示传输失败但拿不到任何错误描述。
	KindUnknownTransport Kind = "unknown_transport_error"
)

const unknownErrorDetails = "Unknown error"

// ProxyError 是处理器边界上唯一的错误类型，渲染为 JSON 响应体。
type ProxyError struct {
	Kind           Kind
	Status         int
	Message        string
	UpstreamStatus int
	URL            string
	Details        string
	Err            error
}

func (e *ProxyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ProxyError) Unwrap() error {
	return e.Err
}

// Body 输出 {"error": ...} 以及可选的 status/url/details 诊断字段。
func (e *ProxyError) Body() fiber.Map {
	body := fiber.Map{"error": e.Message}
	if e.UpstreamStatus != 0 {
		body["status"] = e.UpstreamStatus
	}
	if e.URL != "" {
		body["url"] = e.URL
	}
	if e.Details != "" {
		body["details"] = e.Details
	}
	return body
}

func errConfigurationMissing(source string) *ProxyError {
	msg := "No source repositories configured"
	if source == "SOURCE_REPO" {
		msg = "No source repository configured"
	}
	return &ProxyError{
		Kind:    KindConfigurationMissing,
		Status:  fiber.StatusInternalServerError,
		Message: msg,
	}
}

func errMalformedPath(hint string, cause error) *ProxyError {
	return &ProxyError{
		Kind:    KindMalformedPath,
		Status:  fiber.StatusBadRequest,
		Message: hint,
		Err:     cause,
	}
}

func errRepositoryForbidden(repoURL string) *ProxyError {
	return &ProxyError{
		Kind:    KindRepositoryForbidden,
		Status:  fiber.StatusForbidden,
		Message: "Repository not allowed",
		Err:     fmt.Errorf("%s is not in the allowlist", repoURL),
	}
}

// errUpstreamStatus 处理上游非 2xx：distinguishNotFound 时 404 原样透传并附带 URL，
// 其余情况统一为 500。
func errUpstreamStatus(status int, upstreamURL string, distinguishNotFound bool) *ProxyError {
	if !distinguishNotFound {
		return &ProxyError{
			Kind:           KindUpstreamFailure,
			Status:         fiber.StatusInternalServerError,
			Message:        "Failed to fetch file from repository",
			UpstreamStatus: status,
		}
	}
	if status == fiber.StatusNotFound {
		return &ProxyError{
			Kind:           KindUpstreamFailure,
			Status:         fiber.StatusNotFound,
			Message:        "File not found",
			UpstreamStatus: status,
			URL:            upstreamURL,
		}
	}
	return &ProxyError{
		Kind:           KindUpstreamFailure,
		Status:         fiber.StatusInternalServerError,
		Message:        "Failed to fetch file from repository",
		UpstreamStatus: status,
		URL:            upstreamURL,
	}
}

func errTransport(cause error) *ProxyError {
	if cause == nil || cause.Error() == "" {
		return &ProxyError{
			Kind:    KindUnknownTransport,
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch repository data",
			Details: unknownErrorDetails,
			Err:     cause,
		}
	}
	return &ProxyError{
		Kind:    KindTransportError,
		Status:  fiber.StatusInternalServerError,
		Message: "Failed to fetch repository data",
		Details: cause.Error(),
		Err:     cause,
	}
}
