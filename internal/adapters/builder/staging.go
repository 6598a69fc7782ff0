package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docker/docker/pkg/archive"
	"github.com/go-git/go-git/v5"

	"github.com/melih/slipway/internal/config"
	"github.com/melih/slipway/internal/core/domain"
	"github.com/melih/slipway/internal/core/ports"
)

// fetchSource materializes the application source tree into the staging
// directory: a shallow git clone when the request names a repository, a
// tar-pipe copy when it names a local directory.
func fetchSource(ctx context.Context, req ports.BuildRequest, stagingDir string) error {
	if req.RepoURL != "" {
		_, err := git.PlainCloneContext(ctx, stagingDir, false, &git.CloneOptions{
			URL:   req.RepoURL,
			Depth: 1, // Shallow clone for speed
		})
		if err != nil {
			return fmt.Errorf("failed to clone repo: %w", err)
		}
		return nil
	}

	info, err := os.Stat(req.SourcePath)
	if err != nil {
		return fmt.Errorf("application source not found: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("application source %s is not a directory", req.SourcePath)
	}
	if err := archive.NewDefaultArchiver().CopyWithTar(req.SourcePath, stagingDir); err != nil {
		return fmt.Errorf("failed to stage application source: %w", err)
	}
	return nil
}

// resolveBlueprint produces the final bootstrap contract for a staged
// source tree. Precedence: explicit request overrides, then the source's
// slipway.yaml, then the defaults. This runs after staging so a cloned
// repository's slipway.yaml counts the same as a local one.
func resolveBlueprint(stagingDir string, overrides domain.Blueprint) (domain.Blueprint, error) {
	loaded, err := config.LoadBlueprint(stagingDir)
	if err != nil {
		return domain.Blueprint{}, err
	}
	bp := config.Merge(loaded, overrides)
	if err := bp.Validate(); err != nil {
		return domain.Blueprint{}, err
	}
	return bp, nil
}

// verifyManifest checks that the dependency manifest exists in the staged
// source. This runs before the recipe is rendered, so a missing manifest
// fails the build before any install step can execute.
func verifyManifest(stagingDir string, bp domain.Blueprint) (string, error) {
	manifestPath := filepath.Join(stagingDir, bp.Manifest)
	if _, err := os.Stat(manifestPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrManifestMissing, bp.Manifest)
		}
		return "", fmt.Errorf("failed to stat manifest: %w", err)
	}
	return manifestPath, nil
}
