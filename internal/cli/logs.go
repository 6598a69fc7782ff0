package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/melih/slipway/internal/adapters/docker"
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs CONTAINER",
	Short: "Fetch logs of an application container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := docker.NewAdapter(newLogger())
		if err != nil {
			return err
		}

		logs, err := adapter.GetContainerLogs(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer logs.Close()

		_, err = io.Copy(os.Stdout, logs)
		return err
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}
