package http

import "github.com/gofiber/fiber/v2"

// NewRouter assembles the API surface. The subdomain proxy registers first
// so deployed apps are reachable before the management routes match.
func NewRouter(h *Handler, proxy *ProxyHandler) *fiber.App {
	app := fiber.New()

	if proxy != nil {
		app.Use(proxy.ProxyRequest)
	}

	app.Get("/health", h.Health)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	builds := v1.Group("/builds")
	builds.Post("/", h.TriggerBuild)
	builds.Get("/", h.ListBuilds)
	builds.Get("/:id", h.GetBuild)

	containers := v1.Group("/containers")
	containers.Get("/", h.ListContainers)
	containers.Post("/", h.StartContainer)
	containers.Delete("/:id", h.StopContainer)
	containers.Get("/:id/logs", h.GetContainerLogs)

	return app
}
