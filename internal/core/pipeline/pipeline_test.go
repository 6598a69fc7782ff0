package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/slipway/internal/core/domain"
)

func noop(context.Context) error { return nil }

func fullRunner(t *testing.T, advance func(domain.Stage)) *Runner {
	t.Helper()
	r := NewRunner(advance)
	for _, stage := range Sequence {
		require.NoError(t, r.Add(stage, noop))
	}
	return r
}

func TestTransitionOnlyAdvancesInOrder(t *testing.T) {
	for i := 0; i < len(Sequence)-1; i++ {
		assert.NoError(t, transition(Sequence[i], Sequence[i+1]))
	}

	assert.Error(t, transition(domain.StageRuntimeSelected, domain.StageManifestStaged), "skipping a stage")
	assert.Error(t, transition(domain.StageManifestStaged, domain.StageDirectorySet), "moving backward")
	assert.Error(t, transition(domain.StageEntrypointFixed, domain.StageEntrypointFixed+1), "past the final stage")
}

func TestRunnerRejectsSkippedStage(t *testing.T) {
	r := NewRunner(nil)
	require.NoError(t, r.Add(domain.StageRuntimeSelected, noop))

	// The runner's ordering enforcement is the transition check itself.
	assert.Error(t, r.Add(domain.StageManifestStaged, noop))
	assert.Error(t, r.Add(domain.StageRuntimeSelected, noop))
	assert.NoError(t, r.Add(domain.StageDirectorySet, noop))
}

func TestRunnerExecutesStagesInOrder(t *testing.T) {
	var seen []domain.Stage
	r := fullRunner(t, func(s domain.Stage) { seen = append(seen, s) })

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, Sequence, seen)
}

func TestRunnerRejectsOutOfOrderRegistration(t *testing.T) {
	r := NewRunner(nil)
	assert.Error(t, r.Add(domain.StageManifestStaged, noop))
}

func TestRunnerRejectsPartialPipeline(t *testing.T) {
	r := NewRunner(nil)
	require.NoError(t, r.Add(domain.StageRuntimeSelected, noop))

	err := r.Run(context.Background())
	assert.Error(t, err)
}

func TestRunnerAbortsOnFirstFailure(t *testing.T) {
	boom := errors.New("manifest missing")
	var seen []domain.Stage

	r := NewRunner(func(s domain.Stage) { seen = append(seen, s) })
	for _, stage := range Sequence {
		fn := noop
		if stage == domain.StageManifestStaged {
			fn = func(context.Context) error { return boom }
		}
		require.NoError(t, r.Add(stage, fn))
	}

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, domain.StageManifestStaged, stageErr.Stage)

	// Nothing after the failed stage runs.
	assert.Equal(t, Sequence[:3], seen)
}

func TestRunnerHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner(nil)
	for i, stage := range Sequence {
		fn := noop
		if i == 0 {
			fn = func(context.Context) error {
				cancel()
				return nil
			}
		}
		require.NoError(t, r.Add(stage, fn))
	}

	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStageErrorMessageNamesStage(t *testing.T) {
	err := &StageError{Stage: domain.StageDependenciesInstalled, Err: fmt.Errorf("pip exploded")}
	assert.Contains(t, err.Error(), "dependencies_installed")
}
