package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/melih/slipway/internal/core/domain"
	"github.com/melih/slipway/internal/core/ports"
)

type Handler struct {
	containers ports.ContainerService
	builder    ports.BuilderService
	builds     ports.BuildStore
}

func NewHandler(containers ports.ContainerService, builder ports.BuilderService, builds ports.BuildStore) *Handler {
	return &Handler{containers: containers, builder: builder, builds: builds}
}

type BuildRequest struct {
	SourcePath string           `json:"source_path"`
	RepoURL    string           `json:"repo_url"`
	Image      string           `json:"image"`
	Blueprint  domain.Blueprint `json:"blueprint"`
}

// TriggerBuild runs a bootstrap build from a local source path or a git
// repository. The build is blocking; clients that need progress can poll
// GET /builds/:id from another connection.
func (h *Handler) TriggerBuild(c *fiber.Ctx) error {
	var req BuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image name is required",
		})
	}
	if (req.SourcePath == "") == (req.RepoURL == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Exactly one of source_path or repo_url is required",
		})
	}

	// Blueprint fields here are explicit overrides. The builder resolves
	// them against the staged source's slipway.yaml and the defaults, so
	// git-cloned and local sources behave identically.
	build, err := h.builder.BuildImage(c.Context(), ports.BuildRequest{
		SourcePath: req.SourcePath,
		RepoURL:    req.RepoURL,
		Image:      req.Image,
		Blueprint:  req.Blueprint,
	})
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Build failed: " + err.Error(),
			"build": build,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(build)
}

func (h *Handler) ListBuilds(c *fiber.Ctx) error {
	return c.JSON(h.builds.List())
}

func (h *Handler) GetBuild(c *fiber.Ctx) error {
	build, ok := h.builds.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Build not found",
		})
	}
	return c.JSON(build)
}

func (h *Handler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.containers.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(containers)
}

type StartContainerRequest struct {
	Image string `json:"image"`
	Name  string `json:"name"`
	Port  int    `json:"port"`
}

// StartContainer launches a previously built image with its declared port
// published. The container's process is the image's fixed entrypoint.
func (h *Handler) StartContainer(c *fiber.Ctx) error {
	var req StartContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image name is required",
		})
	}
	if req.Port == 0 {
		req.Port = domain.DefaultBlueprint().Port
	}

	containerID, err := h.containers.StartContainer(c.Context(), req.Image, req.Name, req.Port)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    containerID,
		"image": req.Image,
		"port":  req.Port,
	})
}

func (h *Handler) StopContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	if err := h.containers.StopContainer(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	logs, err := h.containers.GetContainerLogs(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
