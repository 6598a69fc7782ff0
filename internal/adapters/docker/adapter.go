package docker

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/sirupsen/logrus"

	"github.com/melih/slipway/internal/core/domain"
)

// Adapter implements ports.ContainerService using the Docker SDK.
type Adapter struct {
	cli *client.Client
	log *logrus.Logger
}

// NewAdapter creates a new Docker adapter instance.
func NewAdapter(log *logrus.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, log: log}, nil
}

// ListContainers returns the containers known to the engine with details.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var result []domain.Container
	for _, c := range containers {
		// Use the first name if available, remove slash
		name := ""
		if len(c.Names) > 0 {
			name = c.Names[0][1:]
		}

		ip := ""
		if c.NetworkSettings != nil {
			for _, net := range c.NetworkSettings.Networks {
				if net.IPAddress != "" {
					ip = net.IPAddress
					break
				}
			}
		}

		port := 0
		for _, p := range c.Ports {
			if p.PrivatePort > 0 {
				port = int(p.PrivatePort)
				break
			}
		}

		result = append(result, domain.Container{
			ID:        c.ID[:12], // Short ID
			Name:      name,
			Image:     c.Image,
			Status:    c.Status,
			State:     c.State,
			IPAddress: ip,
			Port:      port,
		})
	}
	return result, nil
}

// StartContainer creates and starts a container from a built image with the
// declared application port published on all interfaces. The process inside
// is the image's fixed entrypoint; its exit code passes through untouched.
func (a *Adapter) StartContainer(ctx context.Context, image string, name string, port int) (string, error) {
	if port < 1 || port > 65535 {
		return "", domain.ErrInvalidPort
	}

	exposed, err := nat.NewPort("tcp", strconv.Itoa(port))
	if err != nil {
		return "", fmt.Errorf("invalid port: %w", err)
	}

	resp, err := a.cli.ContainerCreate(ctx, &container.Config{
		Image:        image,
		ExposedPorts: nat.PortSet{exposed: struct{}{}},
	}, &container.HostConfig{
		PortBindings: nat.PortMap{
			exposed: []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: strconv.Itoa(port)}},
		},
	}, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := a.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"container": resp.ID[:12],
		"image":     image,
		"port":      port,
	}).Info("container started")

	return resp.ID, nil
}

// StopContainer stops a running container.
func (a *Adapter) StopContainer(ctx context.Context, id string) error {
	// Timeout can be configurable, but keeping it simple for now
	timeout := 10 * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return a.cli.ContainerStop(ctx, id, container.StopOptions{})
}

// GetContainerLogs returns a stream of container logs.
func (a *Adapter) GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	options := types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     false, // Can be true for streaming
		Timestamps: true,
	}
	return a.cli.ContainerLogs(ctx, id, options)
}
