package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/slipway/internal/adapters/store"
	"github.com/melih/slipway/internal/core/domain"
	"github.com/melih/slipway/internal/core/pipeline"
	"github.com/melih/slipway/internal/core/ports"
)

func writeSourceTree(t *testing.T, withManifest bool) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.py"), []byte("app = object()\n"), 0644))
	if withManifest {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("fastapi\nuvicorn\n"), 0644))
	}
	return dir
}

func TestVerifyManifestPresent(t *testing.T) {
	dir := writeSourceTree(t, true)

	path, err := verifyManifest(dir, domain.DefaultBlueprint())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "requirements.txt"), path)
}

func TestVerifyManifestMissing(t *testing.T) {
	dir := writeSourceTree(t, false)

	_, err := verifyManifest(dir, domain.DefaultBlueprint())
	assert.ErrorIs(t, err, domain.ErrManifestMissing)
}

func TestFetchSourceCopiesLocalTree(t *testing.T) {
	src := writeSourceTree(t, true)
	dst := t.TempDir()

	err := fetchSource(context.Background(), ports.BuildRequest{SourcePath: src}, dst)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dst, "server.py"))
	assert.FileExists(t, filepath.Join(dst, "requirements.txt"))
}

func TestFetchSourceMissingDir(t *testing.T) {
	dst := t.TempDir()

	err := fetchSource(context.Background(), ports.BuildRequest{SourcePath: filepath.Join(dst, "nope")}, dst)
	assert.Error(t, err)
}

// A cloned or copied source carrying its own slipway.yaml must shape the
// recipe the same way a local one does: its settings win over the defaults
// and lose only to explicit request overrides.
func TestResolveBlueprintHonorsStagedManifest(t *testing.T) {
	src := writeSourceTree(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(src, "slipway.yaml"), []byte("port: 5000\nentrypoint:\n  module: main\n"), 0644))

	staging := t.TempDir()
	require.NoError(t, fetchSource(context.Background(), ports.BuildRequest{SourcePath: src}, staging))

	bp, err := resolveBlueprint(staging, domain.Blueprint{})
	require.NoError(t, err)
	assert.Equal(t, 5000, bp.Port)
	assert.Equal(t, "main:app", bp.Entrypoint.Target())
	assert.Equal(t, "python:3.11-slim", bp.Runtime.Ref(), "unset fields keep defaults")
}

func TestResolveBlueprintOverridesBeatStagedManifest(t *testing.T) {
	staging := writeSourceTree(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "slipway.yaml"), []byte("port: 5000\n"), 0644))

	bp, err := resolveBlueprint(staging, domain.Blueprint{Port: 9000})
	require.NoError(t, err)
	assert.Equal(t, 9000, bp.Port)
}

func TestResolveBlueprintRejectsInvalidStagedManifest(t *testing.T) {
	staging := writeSourceTree(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "slipway.yaml"), []byte("runtime:\n  tag: latest\n"), 0644))

	_, err := resolveBlueprint(staging, domain.Blueprint{})
	assert.ErrorIs(t, err, domain.ErrFloatingTag)
}

// A missing manifest must abort the attempt before anything reaches the
// engine: the adapter's client is nil here, so touching it would panic.
func TestBuildImageFailsBeforeEngineWhenManifestMissing(t *testing.T) {
	builds := store.NewMemory()
	a := &Adapter{store: builds, log: logrus.New()}

	src := writeSourceTree(t, false)
	build, err := a.BuildImage(context.Background(), ports.BuildRequest{
		SourcePath: src,
		Image:      "demo:dev",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrManifestMissing)

	var stageErr *pipeline.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, domain.StageManifestStaged, stageErr.Stage)

	assert.Equal(t, domain.BuildFailed, build.Status)
	saved, ok := builds.Get(build.ID)
	require.True(t, ok)
	assert.Equal(t, domain.BuildFailed, saved.Status)
	assert.Equal(t, domain.StageManifestStaged.String(), saved.Stage)
}

func TestBuildImageRejectsFloatingTagBeforeStaging(t *testing.T) {
	builds := store.NewMemory()
	a := &Adapter{store: builds, log: logrus.New()}

	bp := domain.DefaultBlueprint()
	bp.Runtime.Tag = "latest"

	_, err := a.BuildImage(context.Background(), ports.BuildRequest{
		SourcePath: writeSourceTree(t, true),
		Image:      "demo:dev",
		Blueprint:  bp,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFloatingTag)

	var stageErr *pipeline.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, domain.StageRuntimeSelected, stageErr.Stage)
}
