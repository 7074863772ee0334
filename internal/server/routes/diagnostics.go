package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ghraw-proxy/ghraw-proxy/internal/mode"
	"github.com/ghraw-proxy/ghraw-proxy/internal/version"
)

// Status 描述当前进程的生效模式，由 main 在启动时根据配置构造。
type Status struct {
	ActiveMode    string
	Configured    bool
	AllowlistSize int
}

// RegisterDiagnosticRoutes 暴露 /-/healthz 与 /-/modes，供 SRE 确认实例状态与模式绑定。
func RegisterDiagnosticRoutes(app *fiber.App, status Status) {
	if app == nil {
		return
	}

	app.Get("/-/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": version.Full(),
		})
	})

	app.Get("/-/modes", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"active":         status.ActiveMode,
			"configured":     status.Configured,
			"allowlist_size": status.AllowlistSize,
			"modes":          encodeModes(mode.List()),
		})
	})
}

type modePayload struct {
	Key                 string `json:"key"`
	Description         string `json:"description"`
	MinSegments         int    `json:"min_segments"`
	RequiresAllowlist   bool   `json:"requires_allowlist"`
	DistinguishNotFound bool   `json:"distinguish_not_found"`
	SetCacheControl     bool   `json:"set_cache_control"`
	ConfigSource        string `json:"config_source"`
}

func encodeModes(modes []mode.Metadata) []modePayload {
	result := make([]modePayload, 0, len(modes))
	for _, meta := range modes {
		result = append(result, modePayload{
			Key:                 meta.Key,
			Description:         meta.Description,
			MinSegments:         meta.MinSegments,
			RequiresAllowlist:   meta.RequiresAllowlist,
			DistinguishNotFound: meta.DistinguishNotFound,
			SetCacheControl:     meta.SetCacheControl,
			ConfigSource:        meta.ConfigSource,
		})
	}
	return result
}
