package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/melih/slipway/internal/adapters/docker"
	"github.com/melih/slipway/internal/core/domain"
)

var (
	runName string
	runPort int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run IMAGE",
	Short: "Start a container from a built image",
	Long: `Run launches a container from a previously built image. The image's fixed
entrypoint starts the ASGI server; the declared port is published on all
interfaces. The container's exit code is the server's own.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		adapter, err := docker.NewAdapter(log)
		if err != nil {
			return err
		}

		id, err := adapter.StartContainer(cmd.Context(), args[0], runName, runPort)
		if err != nil {
			return err
		}

		fmt.Println(id[:12])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runName, "name", "", "container name (also the proxy subdomain)")
	runCmd.Flags().IntVarP(&runPort, "port", "p", domain.DefaultBlueprint().Port, "application port to publish")
}
