package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cfgpkg "github.com/KaramelBytes/autoeda-cli/internal/config"
	"github.com/KaramelBytes/autoeda-cli/internal/coerce"
	"github.com/KaramelBytes/autoeda-cli/internal/ingest"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
	"github.com/KaramelBytes/autoeda-cli/internal/session"
	"github.com/spf13/cobra"
)

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}

// sessionOptions starts from the loaded config and applies the command's
// --max-rows and --delimiter flags when given.
func sessionOptions(cmd *cobra.Command, maxRows int, delim string) (session.Options, error) {
	c := currentConfig()
	opt := session.Options{
		Ingest:      c.IngestOptions(),
		Minimal:     c.Minimal,
		Explorative: c.Explorative,
	}
	if cmd.Flags().Changed("max-rows") {
		if maxRows < 0 {
			return opt, fmt.Errorf("invalid --max-rows: %d", maxRows)
		}
		opt.Ingest.MaxRows = maxRows
	}
	if delim != "" {
		r, err := cfgpkg.ParseDelimiter(delim)
		if err != nil {
			return opt, fmt.Errorf("unsupported --delimiter: %s", delim)
		}
		opt.Ingest.Delimiter = r
	}
	return opt, nil
}

// expandInputs resolves globs, drops duplicates and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// keep literal paths so the batch reports them as unreadable
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// parseAssignments turns "col=type" pairs into a map. The last pair for a
// column wins.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		col, typ, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --set %q (use column=type)", p)
		}
		out[col] = strings.TrimSpace(typ)
	}
	return out, nil
}

// explain adds an actionable hint to errors the user can fix.
func explain(err error) error {
	var (
		unsupportedFile *ingest.UnsupportedFileTypeError
		unsupportedType *schema.UnsupportedTypeError
		invalidValue    *schema.InvalidSchemaValueError
		unknownCol      *schema.UnknownColumnError
		temporal        *coerce.TemporalParseError
		cast            *coerce.CastError
		reportErr       *session.ReportError
	)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("file not found: %w", err)
	case errors.As(err, &unsupportedFile):
		return fmt.Errorf("convert the file to one of %s: %w", strings.Join(ingest.SupportedExtensions(), ", "), err)
	case errors.As(err, &unsupportedType):
		return fmt.Errorf("column %q has no report category; override it, e.g. --set %s=category: %w", unsupportedType.Column, unsupportedType.Column, err)
	case errors.As(err, &invalidValue):
		return fmt.Errorf("see 'autoeda types' for the accepted types: %w", err)
	case errors.As(err, &unknownCol):
		return fmt.Errorf("see 'autoeda schema <file>' for the column names: %w", err)
	case errors.As(err, &temporal):
		return fmt.Errorf("column %q is not a date/time column; declare it string or category, or fix the data: %w", temporal.Column, err)
	case errors.As(err, &cast):
		return fmt.Errorf("column %q cannot be stored as %s; choose another type: %w", cast.Column, cast.To, err)
	case errors.As(err, &reportErr):
		return fmt.Errorf("report generation failed: %w", err)
	}
	return err
}
