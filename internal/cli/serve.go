package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/logger"
	"github.com/pageza/recipe-finder/internal/server"
)

func newServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front end and the JSON API",
		Long: `Start the HTTP server. Configuration comes from the environment, an
optional .env file and Docker secrets; see SERVER_PORT, API_KEY, REDIS_URL,
RATE_LIMIT_REQUESTS and LOG_LEVEL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				if err := os.Setenv("SERVER_PORT", port); err != nil {
					return err
				}
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.New(cfg.LogLevel, cfg.Environment.ConsoleLogging(), cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, cfg, &log)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides SERVER_PORT)")
	return cmd
}
