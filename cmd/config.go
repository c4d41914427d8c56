package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/autoeda-cli/internal/config"
	"github.com/KaramelBytes/autoeda-cli/internal/report"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set autoeda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "minimal: %t\n", c.Minimal)
		fmt.Fprintf(out, "explorative: %t\n", c.Explorative)
		fmt.Fprintf(out, "format: %s\n", c.Format)
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "minimal", "explorative":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			if key == "minimal" {
				cfg.Minimal = b
			} else {
				cfg.Explorative = b
			}
		case "format":
			f, err := report.ParseFormat(val)
			if err != nil {
				return err
			}
			cfg.Format = string(f)
		case "output_dir":
			cfg.OutputDir = val
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
