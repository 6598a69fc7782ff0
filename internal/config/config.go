// Package config loads the per-application manifest (slipway.yaml) that
// overrides the default bootstrap blueprint. Absent file or absent fields
// fall back to the Python ASGI conventions.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/melih/slipway/internal/core/domain"
)

// BlueprintFileName is looked up in the root of the application source.
const BlueprintFileName = "slipway.yaml"

// LoadBlueprint reads slipway.yaml from the application source directory.
// A missing file is not an error; the defaults describe a conventional
// ASGI service completely.
func LoadBlueprint(sourceDir string) (domain.Blueprint, error) {
	path := filepath.Join(sourceDir, BlueprintFileName)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultBlueprint(), nil
		}
		return domain.Blueprint{}, fmt.Errorf("failed to read %s: %w", BlueprintFileName, err)
	}

	var bp domain.Blueprint
	if err := yaml.Unmarshal(content, &bp); err != nil {
		return domain.Blueprint{}, fmt.Errorf("failed to parse %s: %w", BlueprintFileName, err)
	}

	return Merge(domain.DefaultBlueprint(), bp), nil
}

// Merge overlays the set fields of override onto base. Zero values in the
// override leave the base value in place.
func Merge(base, override domain.Blueprint) domain.Blueprint {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Runtime.Image != "" {
		out.Runtime.Image = override.Runtime.Image
	}
	if override.Runtime.Tag != "" {
		out.Runtime.Tag = override.Runtime.Tag
	}
	if override.WorkDir != "" {
		out.WorkDir = override.WorkDir
	}
	if override.Manifest != "" {
		out.Manifest = override.Manifest
	}
	if override.Port != 0 {
		out.Port = override.Port
	}
	if override.Entrypoint.Module != "" {
		out.Entrypoint.Module = override.Entrypoint.Module
	}
	if override.Entrypoint.Attribute != "" {
		out.Entrypoint.Attribute = override.Entrypoint.Attribute
	}
	return out
}
