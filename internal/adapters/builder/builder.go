package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/melih/slipway/internal/core/domain"
	"github.com/melih/slipway/internal/core/pipeline"
	"github.com/melih/slipway/internal/core/ports"
	"github.com/melih/slipway/internal/core/recipe"
)

// recipeFileName is the name the rendered recipe is written under inside
// the build context.
const recipeFileName = "Dockerfile"

// Adapter implements ports.BuilderService against the Docker engine.
type Adapter struct {
	cli   *client.Client
	store ports.BuildStore
	log   *logrus.Logger
}

func NewBuilderAdapter(store ports.BuildStore, log *logrus.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, store: store, log: log}, nil
}

// BuildImage runs one bootstrap attempt through the six ordered stages and
// produces a runnable image. The attempt is fail-fast: the first stage error
// aborts everything, and no partial image is reported as usable. Rebuild
// economy comes from the engine's layer cache, which the rendered recipe is
// shaped for (manifest before source).
func (a *Adapter) BuildImage(ctx context.Context, req ports.BuildRequest) (domain.Build, error) {
	source := req.RepoURL
	if source == "" {
		source = req.SourcePath
	}

	build := domain.Build{
		ID:        uuid.NewString()[:8],
		Image:     req.Image,
		Source:    source,
		Status:    domain.BuildRunning,
		StartedAt: time.Now().UTC(),
	}
	a.store.Save(build)

	log := a.log.WithFields(logrus.Fields{"build": build.ID, "image": req.Image})

	var (
		stagingDir string
		blueprint  domain.Blueprint
		buildCtx   io.ReadCloser
	)
	defer func() {
		if buildCtx != nil {
			buildCtx.Close()
		}
		if stagingDir != "" {
			os.RemoveAll(stagingDir)
		}
	}()

	runner := pipeline.NewRunner(func(s domain.Stage) {
		build.Stage = s.String()
		a.store.Save(build)
		log.WithField("stage", s.String()).Info("entering build stage")
	})

	steps := []struct {
		stage domain.Stage
		run   pipeline.StepFunc
	}{
		{domain.StageRuntimeSelected, func(context.Context) error {
			// Rejects floating tags, relative workdirs and bad ports among
			// the explicit overrides before anything touches the filesystem.
			// The resolved blueprint is validated in full once the source's
			// slipway.yaml has been merged in.
			return req.Blueprint.ValidateOverrides()
		}},
		{domain.StageDirectorySet, func(context.Context) error {
			dir, err := os.MkdirTemp("", "slipway-build-*")
			if err != nil {
				return fmt.Errorf("failed to create staging dir: %w", err)
			}
			stagingDir = dir
			return nil
		}},
		{domain.StageManifestStaged, func(ctx context.Context) error {
			if err := fetchSource(ctx, req, stagingDir); err != nil {
				return err
			}
			bp, err := resolveBlueprint(stagingDir, req.Blueprint)
			if err != nil {
				return err
			}
			blueprint = bp
			build.Port = bp.Port
			build.Entrypoint = bp.Entrypoint.Target()
			a.store.Save(build)

			manifestPath, err := verifyManifest(stagingDir, bp)
			if err != nil {
				return err
			}
			specifiers, err := ParseManifestFile(manifestPath)
			if err != nil {
				return err
			}
			log.WithField("dependencies", len(specifiers)).Info("manifest staged")
			return nil
		}},
		{domain.StageDependenciesInstalled, func(context.Context) error {
			// The install layer of the recipe is fully determined here; its
			// cache key is a function solely of the manifest content.
			rendered, err := recipe.Render(blueprint)
			if err != nil {
				return err
			}
			path := filepath.Join(stagingDir, recipeFileName)
			if err := os.WriteFile(path, rendered, 0644); err != nil {
				return fmt.Errorf("failed to write recipe: %w", err)
			}
			return nil
		}},
		{domain.StageApplicationStaged, func(context.Context) error {
			tar, err := archive.TarWithOptions(stagingDir, &archive.TarOptions{})
			if err != nil {
				return fmt.Errorf("failed to create build context: %w", err)
			}
			buildCtx = tar
			return nil
		}},
		{domain.StageEntrypointFixed, func(ctx context.Context) error {
			// The engine executes the recipe's layers and bakes the CMD
			// metadata into the image.
			resp, err := a.cli.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
				Tags:       []string{req.Image},
				Dockerfile: recipeFileName,
				Remove:     true, // Remove intermediate containers
			})
			if err != nil {
				return fmt.Errorf("failed to build image: %w", err)
			}
			defer resp.Body.Close()
			return drainBuildOutput(resp.Body, log)
		}},
	}

	for _, s := range steps {
		if err := runner.Add(s.stage, s.run); err != nil {
			return a.fail(build, err), err
		}
	}

	if err := runner.Run(ctx); err != nil {
		log.WithError(err).Error("build failed")
		return a.fail(build, err), err
	}

	build.Status = domain.BuildSucceeded
	now := time.Now().UTC()
	build.EndedAt = &now
	a.store.Save(build)
	log.Info("build succeeded")
	return build, nil
}

func (a *Adapter) fail(build domain.Build, err error) domain.Build {
	build.Status = domain.BuildFailed
	build.Error = err.Error()
	now := time.Now().UTC()
	build.EndedAt = &now
	a.store.Save(build)
	return build
}

// drainBuildOutput consumes the engine's JSON message stream. An error
// message anywhere in the stream (an unresolvable dependency, a failing
// install step) is fatal for the build; the engine retains no usable image
// for a failed recipe.
func drainBuildOutput(r io.Reader, log *logrus.Entry) error {
	dec := json.NewDecoder(r)
	for {
		var msg jsonmessage.JSONMessage
		if err := dec.Decode(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read build output: %w", err)
		}
		if msg.Error != nil {
			return fmt.Errorf("engine build error: %s", msg.Error.Message)
		}
		if msg.Stream != "" {
			if line := strings.TrimSpace(msg.Stream); line != "" {
				log.Debug(line)
			}
		}
	}
}
