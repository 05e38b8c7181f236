package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/layoutlens/annotate"
)

var (
	annotatePage   int
	annotateWidth  int
	annotateHeight int
	annotateOut    string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <elements.json>",
	Short: "Draw element boxes onto a PNG",
	Long: `Draw element bounding boxes onto a blank canvas.

The input is either a JSON array of {type, bbox, page} objects or the JSON
output of 'layoutlens extract'. Elements that cannot be drawn are reported
and skipped.

Examples:
  layoutlens extract report.pdf > report.json
  layoutlens annotate report.json -o report.png
  layoutlens annotate report.json --width 850 --height 1100 -o small.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cfgMgr.Get()
		logger := newLogger(cfg)

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		items, err := annotate.Decode(data)
		if err != nil {
			return err
		}

		width, height := cfg.Annotate.CanvasWidth, cfg.Annotate.CanvasHeight
		if cmd.Flags().Changed("width") {
			width = annotateWidth
		}
		if cmd.Flags().Changed("height") {
			height = annotateHeight
		}
		if limit := cfg.Annotate.MaxCanvas; limit > 0 && (width > limit || height > limit) {
			return fmt.Errorf("canvas %dx%d exceeds annotate.max_canvas (%d)", width, height, limit)
		}

		res, err := annotate.NewRenderer(nil).Render(items, annotatePage, width, height)
		if err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			logger.Warn("annotation skipped", "index", skip.Index, "type", skip.Type, "reason", skip.Reason)
		}

		if err := os.WriteFile(annotateOut, res.PNG, 0o644); err != nil {
			return fmt.Errorf("writing image: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d drawn, %d skipped)\n",
			annotateOut, res.Width, res.Height, res.Drawn, len(res.Skipped))
		return nil
	},
}

func init() {
	annotateCmd.Flags().IntVar(&annotatePage, "page", 1, "Page number used in labels")
	annotateCmd.Flags().IntVar(&annotateWidth, "width", 0, "Canvas width in pixels (default from config)")
	annotateCmd.Flags().IntVar(&annotateHeight, "height", 0, "Canvas height in pixels (default from config)")
	annotateCmd.Flags().StringVarP(&annotateOut, "output", "o", "annotated.png", "Output PNG path")

	rootCmd.AddCommand(annotateCmd)
}
