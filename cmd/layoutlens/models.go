package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsawler/layoutlens"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List extraction strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := layoutlens.DefaultRegistry(layoutlens.New())

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
		for _, m := range registry.Models() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.Name, m.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
