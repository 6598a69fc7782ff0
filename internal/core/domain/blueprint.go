package domain

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Validation errors surfaced before any build work starts.
var (
	ErrFloatingTag      = errors.New("base runtime tag must be pinned (floating tags like 'latest' are not reproducible)")
	ErrRelativeWorkDir  = errors.New("working directory must be an absolute path")
	ErrInvalidPort      = errors.New("declared port must be between 1 and 65535")
	ErrInvalidEntry     = errors.New("entrypoint must name both a module and an application attribute")
	ErrManifestMissing  = errors.New("dependency manifest not found in application source")
	ErrEmptyManifestRef = errors.New("manifest filename must not be empty or contain path separators")
)

// Runtime identifies the immutable base environment a build starts from.
// The tag is required and must be explicit so rebuilds are reproducible.
type Runtime struct {
	Image string `json:"image" yaml:"image"`
	Tag   string `json:"tag" yaml:"tag"`
}

// Ref returns the full image reference, e.g. "python:3.11-slim".
func (r Runtime) Ref() string {
	return r.Image + ":" + r.Tag
}

// Entrypoint is the statically named binding to the application object,
// resolved once at container start (module "server", attribute "app").
type Entrypoint struct {
	Module    string `json:"module" yaml:"module"`
	Attribute string `json:"attribute" yaml:"attribute"`
}

// Target returns the "<module>:<attribute>" form the ASGI server loads.
func (e Entrypoint) Target() string {
	return e.Module + ":" + e.Attribute
}

// Blueprint describes everything needed to bootstrap one application image:
// base runtime, working directory, dependency manifest, declared port and
// the process entry binding. It is the build-time data model; nothing in it
// is consulted again once the image exists.
type Blueprint struct {
	Name       string     `json:"name" yaml:"name"`
	Runtime    Runtime    `json:"runtime" yaml:"runtime"`
	WorkDir    string     `json:"workdir" yaml:"workdir"`
	Manifest   string     `json:"manifest" yaml:"manifest"`
	Port       int        `json:"port" yaml:"port"`
	Entrypoint Entrypoint `json:"entrypoint" yaml:"entrypoint"`
}

// DefaultBlueprint returns the conventions for a Python ASGI service:
// pinned slim runtime, /app workdir, requirements.txt manifest and a
// uvicorn-loadable server:app entry on port 8000.
func DefaultBlueprint() Blueprint {
	return Blueprint{
		Runtime:    Runtime{Image: "python", Tag: "3.11-slim"},
		WorkDir:    "/app",
		Manifest:   "requirements.txt",
		Port:       8000,
		Entrypoint: Entrypoint{Module: "server", Attribute: "app"},
	}
}

// ValidateOverrides checks only the fields a sparse override blueprint
// actually sets. The resolved blueprint is validated in full once the
// source's own slipway.yaml has been merged in.
func (b Blueprint) ValidateOverrides() error {
	if b.Runtime.Tag != "" {
		tag := strings.TrimSpace(b.Runtime.Tag)
		if tag == "" || tag == "latest" {
			return ErrFloatingTag
		}
	}
	if b.WorkDir != "" && !path.IsAbs(b.WorkDir) {
		return ErrRelativeWorkDir
	}
	if b.Manifest != "" && strings.ContainsAny(b.Manifest, "/\\") {
		return ErrEmptyManifestRef
	}
	if b.Port != 0 && (b.Port < 1 || b.Port > 65535) {
		return ErrInvalidPort
	}
	return nil
}

// Validate checks the blueprint before any staging or daemon work happens.
// A blueprint that fails validation aborts the whole build attempt.
func (b Blueprint) Validate() error {
	if b.Runtime.Image == "" {
		return fmt.Errorf("base runtime image is required")
	}
	tag := strings.TrimSpace(b.Runtime.Tag)
	if tag == "" || tag == "latest" {
		return ErrFloatingTag
	}
	if !path.IsAbs(b.WorkDir) {
		return ErrRelativeWorkDir
	}
	if b.Manifest == "" || strings.ContainsAny(b.Manifest, "/\\") {
		return ErrEmptyManifestRef
	}
	if b.Port < 1 || b.Port > 65535 {
		return ErrInvalidPort
	}
	if b.Entrypoint.Module == "" || b.Entrypoint.Attribute == "" {
		return ErrInvalidEntry
	}
	return nil
}
