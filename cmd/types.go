package cmd

import (
	"fmt"

	"github.com/KaramelBytes/autoeda-cli/internal/schema"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the declared column types and their report category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Declared types:")
		for _, d := range schema.Vocabulary {
			cat, err := schema.MapToTaxonomy(d)
			if err != nil {
				fmt.Fprintf(out, "  %-9s (inferred only, not selectable)\n", d)
				continue
			}
			fmt.Fprintf(out, "  %-9s -> %s\n", d, cat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
