package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/schema"
	"github.com/KaramelBytes/autoeda-cli/internal/session"
	"github.com/KaramelBytes/autoeda-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	schOutput  string
	schFormat  string
	schMaxRows int
	schDelim   string
)

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Print the inferred column schema of a datafile",
	Long: `Print the schema inferred for a datafile. The yaml format can be edited and
passed back to 'autoeda profile --schema'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := sessionOptions(cmd, schMaxRows, schDelim)
		if err != nil {
			return err
		}
		s, err := session.Open(args[0], opt)
		if err != nil {
			return explain(err)
		}
		for _, w := range s.Raw.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		decl := s.Declaration()

		var body []byte
		switch strings.ToLower(schFormat) {
		case "", "table":
			body = []byte(schemaTable(s, decl))
		case "yaml", "yml":
			body, err = schema.MarshalYAML(decl)
		case "json":
			body, err = utils.PrettyJSON(schemaEntries(decl))
			body = append(body, '\n')
		default:
			return fmt.Errorf("unsupported --format: %s (use table|yaml|json)", schFormat)
		}
		if err != nil {
			return err
		}
		if schOutput != "" {
			if err := utils.SafeWriteFile(schOutput, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote schema to %s\n", schOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	},
}

type schemaEntry struct {
	Column   string `json:"column"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
}

func schemaEntries(decl *schema.Declaration) []schemaEntry {
	out := make([]schemaEntry, 0, decl.Len())
	for _, e := range decl.Entries() {
		se := schemaEntry{Column: e.Column, Type: e.Type.String()}
		if c, err := schema.MapToTaxonomy(e.Type); err == nil {
			se.Category = string(c)
		}
		out = append(out, se)
	}
	return out
}

func schemaTable(s *session.Session, decl *schema.Declaration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d rows)\n", s.FileName, s.Raw.Rows())
	width := len("column")
	for _, c := range decl.Columns() {
		if len(c) > width {
			width = len(c)
		}
	}
	fmt.Fprintf(&b, "  %-*s  %-9s  %-9s  %s\n", width, "column", "declared", "category", "nulls")
	for _, e := range decl.Entries() {
		cat := "-"
		if c, err := schema.MapToTaxonomy(e.Type); err == nil {
			cat = string(c)
		}
		nulls := 0
		if col, ok := s.Raw.Column(e.Column); ok {
			nulls = col.NullCount()
		}
		fmt.Fprintf(&b, "  %-*s  %-9s  %-9s  %d\n", width, e.Column, e.Type, cat, nulls)
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&schOutput, "output", "o", "", "write the schema to a file instead of stdout")
	schemaCmd.Flags().StringVar(&schFormat, "format", "table", "output format: table|yaml|json")
	schemaCmd.Flags().IntVar(&schMaxRows, "max-rows", 0, "maximum rows to read (0 = config or unlimited)")
	schemaCmd.Flags().StringVar(&schDelim, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab'")
}
