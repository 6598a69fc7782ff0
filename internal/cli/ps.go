package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/melih/slipway/internal/adapters/docker"
)

// psCmd represents the ps command
var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List application containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := docker.NewAdapter(newLogger())
		if err != nil {
			return err
		}

		containers, err := adapter.ListContainers(cmd.Context())
		if err != nil {
			return err
		}

		output := []string{strings.Join([]string{"ID", "NAME", "IMAGE", "STATE", "PORT"}, "|")}
		for _, c := range containers {
			port := ""
			if c.Port > 0 {
				port = strconv.Itoa(c.Port)
			}
			output = append(output, strings.Join([]string{c.ID, c.Name, c.Image, c.State, port}, "|"))
		}

		fmt.Println(columnize.SimpleFormat(output))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(psCmd)
}
