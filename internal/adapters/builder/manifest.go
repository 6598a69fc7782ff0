package builder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseManifest reads a plain-text dependency manifest (pip requirements
// format) and returns the requirement specifiers it declares. Blank lines
// and comments are skipped; specifiers are returned verbatim, version
// constraints included, since resolution is the installer's job.
func ParseManifest(r io.Reader) ([]string, error) {
	var specifiers []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// pip allows trailing comments on a specifier line.
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		specifiers = append(specifiers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return specifiers, nil
}

// ParseManifestFile is ParseManifest over a file on disk.
func ParseManifestFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return ParseManifest(f)
}
