package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/melih/slipway/internal/adapters/builder"
	"github.com/melih/slipway/internal/adapters/docker"
	httpadapter "github.com/melih/slipway/internal/adapters/http"
	"github.com/melih/slipway/internal/adapters/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the slipway API server",
	Long: `Serve starts the HTTP API: build and container management under /api/v1,
a health probe under /health, and a subdomain reverse proxy that routes
app-name.<host> to the matching running container.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		// 1. Initialize Adapters (Infrastructure)
		builds := store.NewMemory()
		dockerAdapter, err := docker.NewAdapter(log)
		if err != nil {
			return err
		}
		builderAdapter, err := builder.NewBuilderAdapter(builds, log)
		if err != nil {
			return err
		}

		// 2. Initialize HTTP Handlers (Interface Adapters)
		handler := httpadapter.NewHandler(dockerAdapter, builderAdapter, builds)
		proxy := httpadapter.NewProxyHandler(dockerAdapter)

		// 3. Setup Framework (Fiber) and Routes
		app := httpadapter.NewRouter(handler, proxy)

		addr := viper.GetString("listen")
		log.WithField("addr", addr).Info("server starting")
		return app.Listen(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", ":3000", "address the API server listens on")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}
