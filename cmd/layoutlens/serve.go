package main

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/layoutlens/internal/config"
	"github.com/tsawler/layoutlens/internal/server"
)

var (
	serveHost  string
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the layoutlens HTTP server.

The server provides:
  - GET  /health             - Basic server health check
  - GET  /models             - Available extraction strategies
  - POST /extract/{model}    - Extract an uploaded PDF (multipart field "file")
  - POST /annotate/{model}   - Draw posted elements onto a PNG canvas

Examples:
  layoutlens serve                   # Start on the configured address
  layoutlens serve --port 9000       # Start on a custom port
  layoutlens serve --watch           # Reload limits when the config file changes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cfgMgr.Get()
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		logger := newLogger(cfg)

		registry, err := newRegistry(cfg, logger)
		if err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			Addr:     cfg.Addr(),
			Registry: registry,
			Limits:   server.LimitsFromConfig(cfg),
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		if serveWatch && cfgMgr.File() != "" {
			cfgMgr.OnChange(func(c *config.Config) {
				srv.SetLimits(server.LimitsFromConfig(c))
				logger.Info("server limits reloaded", "max_upload_mb", c.Server.MaxUploadMB)
			})
			cfgMgr.WatchConfig()
		}

		return srv.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload limits when the config file changes")

	rootCmd.AddCommand(serveCmd)
}
