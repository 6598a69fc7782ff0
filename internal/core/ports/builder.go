package ports

import (
	"context"

	"github.com/melih/slipway/internal/core/domain"
)

// BuildRequest describes one bootstrap attempt. Exactly one of SourcePath
// or RepoURL must be set. Blueprint carries explicit overrides only: zero
// fields fall back to the source's own slipway.yaml, then to the defaults.
// Resolution happens after the source is staged, so a cloned repository's
// slipway.yaml participates the same way a local one does.
type BuildRequest struct {
	SourcePath string
	RepoURL    string
	Image      string
	Blueprint  domain.Blueprint
}

// BuilderService defines operations for building container images from
// application source. Implementations stage the source, render the build
// recipe and drive the container engine; a failure at any stage aborts the
// whole attempt.
type BuilderService interface {
	// BuildImage runs the full bootstrap pipeline and returns the final
	// build record. The record is also persisted stage by stage, so callers
	// polling the build store can observe progress.
	BuildImage(ctx context.Context, req BuildRequest) (domain.Build, error)
}
