package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/internal/config"
	lslog "github.com/tsawler/layoutlens/slog"
)

var (
	cfgFile  string
	logLevel string

	cfgMgr *config.Manager
)

var rootCmd = &cobra.Command{
	Use:   "layoutlens",
	Short: "Extract layout elements and Markdown from PDF documents",
	Long: `layoutlens turns PDF documents into typed layout elements (titles,
headers, paragraphs, figures, tables) with normalized bounding boxes and a
Markdown rendering.

Documents with a text layer are read directly. Scanned documents are
rasterized and passed through Tesseract OCR when the binary is built with
the ocr tag.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.config/layoutlens/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			mgr.Get().LogLevel = logLevel
		}
		cfgMgr = mgr
		return nil
	}
}

// newLogger writes text logs to stderr so stdout stays clean for results.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
}

// newRegistry builds the strategy registry from the current configuration.
func newRegistry(cfg *config.Config, logger *slog.Logger) (*layoutlens.Registry, error) {
	opts, err := cfg.Options(logger)
	if err != nil {
		return nil, fmt.Errorf("extraction options: %w", err)
	}
	ext := layoutlens.NewWithOptions(opts)
	return lslog.WrapRegistry(layoutlens.DefaultRegistry(ext), logger), nil
}
