package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytehatacademy/academy/internal/app"
	"github.com/bytehatacademy/academy/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the web server",
	Long: `Start the academy web server. The server stops gracefully on
SIGINT or SIGTERM, closing live connections first.

Examples:
  academy serve                     # Serve on localhost:8080
  academy serve --port 9000         # Serve on another port
  academy serve --env production    # Production security policy`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	AddStandardFlags(serveCmd, "server")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.environment", serveCmd.Flags().Lookup("env"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := app.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize site: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting ByteHat Academy at http://%s\n", cfg.Addr())

	if err := a.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
