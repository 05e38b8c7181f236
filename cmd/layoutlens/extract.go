package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/format"
	"github.com/tsawler/layoutlens/markdown"
	"github.com/tsawler/layoutlens/model"
)

var (
	extractModel  string
	extractFormat string
	extractOut    string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract layout elements from a PDF",
	Long: `Extract layout elements from a PDF and print the result.

Formats:
  json      - the full extraction result (default)
  yaml      - the full extraction result as YAML
  markdown  - the Markdown rendering with a YAML front matter block
  html      - the Markdown rendering converted to HTML

Examples:
  layoutlens extract report.pdf
  layoutlens extract scan.pdf --format markdown -o scan.md
  layoutlens extract report.pdf --model docling --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cfgMgr.Get()
		logger := newLogger(cfg)

		registry, err := newRegistry(cfg, logger)
		if err != nil {
			return err
		}
		strategy, err := registry.Get(extractModel)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		name := filepath.Base(args[0])
		if f := format.Detect(name, data); f != format.PDF {
			return fmt.Errorf("%s is not a PDF (detected %s)", args[0], f)
		}

		result, err := strategy.Extract(cmd.Context(), layoutlens.Document{Name: name, Data: data})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if extractOut != "" {
			f, err := os.Create(extractOut)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			defer f.Close()
			out = f
		}

		return writeResult(out, extractFormat, name, extractModel, result)
	},
}

func writeResult(w io.Writer, format, filename, modelID string, result *model.ExtractionResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case "markdown", "md":
		meta := markdown.MetadataFromResult(filename, modelID, result)
		_, err := io.WriteString(w, markdown.WithFrontMatter(result.MarkdownOutput, meta))
		return err
	case "html":
		html, err := markdown.ToHTML(result.MarkdownOutput)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	default:
		return fmt.Errorf("unsupported format %q (json, yaml, markdown, html)", format)
	}
}

func init() {
	extractCmd.Flags().StringVarP(&extractModel, "model", "m", layoutlens.ModelCustomOCR, "Extraction strategy (see 'layoutlens models')")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "Output format: json, yaml, markdown or html")
	extractCmd.Flags().StringVarP(&extractOut, "output", "o", "", "Write to a file instead of stdout")

	rootCmd.AddCommand(extractCmd)
}
