package ports

import (
	"context"
	"io"

	"github.com/melih/slipway/internal/core/domain"
)

// ContainerService defines the core operations for running built images.
// This interface allows us to switch between Docker, Podman, or Kubernetes
// without changing the business logic.
type ContainerService interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
	// StartContainer creates and starts a container from a built image,
	// publishing the declared application port. Returns the container ID.
	StartContainer(ctx context.Context, image string, name string, port int) (string, error)
	StopContainer(ctx context.Context, id string) error
	GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
}
