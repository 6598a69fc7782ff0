package domain

import "time"

// Stage is one of the six strictly ordered states a build moves through.
// Transitions are one-directional and non-retryable within a build attempt.
type Stage int

const (
	StageRuntimeSelected Stage = iota
	StageDirectorySet
	StageManifestStaged
	StageDependenciesInstalled
	StageApplicationStaged
	StageEntrypointFixed
)

var stageNames = map[Stage]string{
	StageRuntimeSelected:       "runtime_selected",
	StageDirectorySet:          "directory_set",
	StageManifestStaged:        "manifest_staged",
	StageDependenciesInstalled: "dependencies_installed",
	StageApplicationStaged:     "application_staged",
	StageEntrypointFixed:       "entrypoint_fixed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Build status values. A failed build is terminal; a fresh attempt starts
// over from the first stage and relies on the daemon's layer cache to skip
// unchanged steps.
const (
	BuildPending   = "pending"
	BuildRunning   = "running"
	BuildSucceeded = "succeeded"
	BuildFailed    = "failed"
)

// Build records one bootstrap attempt and its progress through the stages.
// Port and Entrypoint are filled once the source's blueprint is resolved.
// EndedAt is a pointer so in-flight builds serialize without a zero
// timestamp.
type Build struct {
	ID         string     `json:"id"`
	Image      string     `json:"image"`
	Source     string     `json:"source"`
	Status     string     `json:"status"`
	Stage      string     `json:"stage"`
	Port       int        `json:"port,omitempty"`
	Entrypoint string     `json:"entrypoint,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}
