package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/melih/slipway/internal/adapters/builder"
	"github.com/melih/slipway/internal/adapters/store"
	"github.com/melih/slipway/internal/core/ports"
)

var (
	buildTag  string
	buildPort int
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build SOURCE",
	Short: "Build a bootstrap image from a source tree or git repository",
	Long: `Build runs the full bootstrap pipeline against the given source: a local
directory, or a git URL (http://, https:// or git@) cloned shallowly first.

The source must contain the dependency manifest; a slipway.yaml in the
source root (local or cloned) can override the default blueprint, and flags
override both. A failure at any stage aborts the build with a non-zero
exit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		log := newLogger()

		req := ports.BuildRequest{Image: buildTag}

		if isRepoURL(source) {
			req.RepoURL = source
		} else {
			abs, err := filepath.Abs(source)
			if err != nil {
				return fmt.Errorf("failed to resolve source path: %w", err)
			}
			req.SourcePath = abs
		}

		if cmd.Flags().Changed("port") {
			req.Blueprint.Port = buildPort
		}

		builds := store.NewMemory()
		adapter, err := builder.NewBuilderAdapter(builds, log)
		if err != nil {
			return err
		}

		build, err := adapter.BuildImage(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Printf("Built %s (build %s, port %d, entry %s)\n",
			build.Image, build.ID, build.Port, build.Entrypoint)
		return nil
	},
}

func isRepoURL(source string) bool {
	return strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "git@")
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildTag, "tag", "t", "", "image tag for the built image")
	buildCmd.Flags().IntVarP(&buildPort, "port", "p", 0, "override the declared application port")
	buildCmd.MarkFlagRequired("tag")
}
