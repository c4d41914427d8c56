package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/autoeda-cli/internal/arrowio"
	"github.com/KaramelBytes/autoeda-cli/internal/report"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
	"github.com/KaramelBytes/autoeda-cli/internal/session"
	"github.com/KaramelBytes/autoeda-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	prSet         []string
	prSchemaFile  string
	prMinimal     bool
	prExplorative bool
	prTitle       string
	prOutputDir   string
	prFormat      string
	prArrow       bool
	prMaxRows     int
	prDelimiter   string
	prQuiet       bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <files...>",
	Short: "Coerce each datafile to its schema and write a profiling report",
	Long: `Profile one or more CSV/TSV/XLSX files. Each file gets its own inferred schema;
--schema and --set override column types for every file that has the column.
A file that fails is reported and the remaining files are still processed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := sessionOptions(cmd, prMaxRows, prDelimiter)
		if err != nil {
			return err
		}
		c := currentConfig()
		flags := cmd.Flags()
		if flags.Changed("minimal") {
			opt.Minimal = prMinimal
		}
		if flags.Changed("explorative") {
			opt.Explorative = prExplorative
		}
		opt.Title = prTitle

		formatName := c.Format
		if flags.Changed("format") {
			formatName = prFormat
		}
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}
		outDir := c.OutputDir
		if prOutputDir != "" {
			outDir = prOutputDir
		}
		if outDir == "" {
			outDir = "."
		}

		overrides := map[string]string{}
		if prSchemaFile != "" {
			fromFile, err := schema.LoadOverrides(prSchemaFile)
			if err != nil {
				return err
			}
			for k, v := range fromFile {
				overrides[k] = v
			}
		}
		fromFlags, err := parseAssignments(prSet)
		if err != nil {
			return err
		}
		for k, v := range fromFlags {
			overrides[k] = v
		}

		matched := map[string]bool{}
		prepare := func(s *session.Session) error {
			for _, w := range s.Raw.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s: %s\n", s.FileName, w)
			}
			own := map[string]string{}
			for col, typ := range overrides {
				if _, ok := s.Editor.Get(col); !ok {
					debugf("%s: no column %q, override skipped", s.FileName, col)
					continue
				}
				matched[col] = true
				own[col] = typ
			}
			if err := s.Editor.Apply(own); err != nil {
				return err
			}
			debugf("%s: session %s schema %v", s.FileName, s.ID, s.Declaration().Strings())
			return nil
		}

		if err := utils.EnsureDir(outDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		out := cmd.OutOrStdout()
		results := session.RunBatch(files, opt, prepare, report.Profiler{Format: format})

		failed := 0
		for i, res := range results {
			if !prQuiet {
				fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(results), filepath.Base(res.Path))
			}
			if !res.OK() {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ Error: %s (%s): %v\n", filepath.Base(res.Path), res.Stage, explain(res.Err))
				continue
			}
			debugf("%s: typed storage %v", res.Session.FileName, res.Session.Typed.Types())
			path, err := writeReport(outDir, res.Document)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ Error: %s: %v\n", filepath.Base(res.Path), err)
				continue
			}
			fmt.Fprintf(out, "✓ Wrote report to %s\n", path)
			if prArrow {
				apath, err := writeArrow(outDir, res.Session)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ Error: %s: %v\n", filepath.Base(res.Path), err)
					continue
				}
				fmt.Fprintf(out, "✓ Wrote typed dataset to %s\n", apath)
			}
		}

		var unmatched []string
		for col := range overrides {
			if !matched[col] {
				unmatched = append(unmatched, col)
			}
		}
		sort.Strings(unmatched)
		for _, col := range unmatched {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: override for %q matched no column in any file\n", col)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(results))
		}
		return nil
	},
}

func writeReport(dir string, doc *report.Document) (string, error) {
	path, err := utils.UniquePath(filepath.Join(dir, doc.FileName))
	if err != nil {
		return "", err
	}
	if err := utils.SafeWriteFile(path, doc.Body); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeArrow(dir string, s *session.Session) (string, error) {
	path, err := utils.UniquePath(filepath.Join(dir, report.Stem(s.FileName)+"-typed.arrow"))
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create arrow file: %w", err)
	}
	if err := writeArrowTo(f, s); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close arrow file: %w", err)
	}
	return path, nil
}

func writeArrowTo(w io.Writer, s *session.Session) error {
	if s.Typed == nil {
		return fmt.Errorf("%s has not been reconciled", s.FileName)
	}
	return arrowio.Write(w, s.Typed)
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringArrayVar(&prSet, "set", nil, "override a column type as column=type (repeatable)")
	profileCmd.Flags().StringVar(&prSchemaFile, "schema", "", "YAML schema file with column types (see 'autoeda schema --format yaml')")
	profileCmd.Flags().BoolVar(&prMinimal, "minimal", false, "minimal report: skip outliers, top values, samples and correlations")
	profileCmd.Flags().BoolVar(&prExplorative, "explorative", true, "explorative report: include correlations")
	profileCmd.Flags().StringVar(&prTitle, "title", "", "report title (default: '<File stem> Report')")
	profileCmd.Flags().StringVarP(&prOutputDir, "output-dir", "o", "", "directory for reports (default from config, '.')")
	profileCmd.Flags().StringVar(&prFormat, "format", "html", "report format: html|markdown")
	profileCmd.Flags().BoolVar(&prArrow, "arrow", false, "also write the typed dataset as an Arrow IPC file")
	profileCmd.Flags().IntVar(&prMaxRows, "max-rows", 0, "maximum rows to read per file (0 = unlimited)")
	profileCmd.Flags().StringVar(&prDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab'")
	profileCmd.Flags().BoolVar(&prQuiet, "quiet", false, "suppress progress lines")
}
