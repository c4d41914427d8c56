package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/autoeda-cli/internal/ingest"
	"github.com/KaramelBytes/autoeda-cli/internal/report"
)

// Global configuration structure.
type Global struct {
	// Report options
	Minimal     bool   `mapstructure:"minimal" yaml:"minimal"`
	Explorative bool   `mapstructure:"explorative" yaml:"explorative"`
	Format      string `mapstructure:"format" yaml:"format"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`

	// Ingestion
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Global {
	return &Global{Explorative: true, Format: string(report.FormatHTML), OutputDir: "."}
}

// Dir returns ~/.autoeda.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".autoeda"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.autoeda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOEDA")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("minimal", d.Minimal)
	v.SetDefault("explorative", d.Explorative)
	v.SetDefault("format", d.Format)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("delimiter", d.Delimiter)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that viper cannot type-check.
func (c *Global) Validate() error {
	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("invalid max_rows: %d", c.MaxRows)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// IngestOptions returns the ingestion options described by c.
func (c *Global) IngestOptions() ingest.Options {
	opt := ingest.DefaultOptions()
	opt.MaxRows = c.MaxRows
	opt.Delimiter, _ = ParseDelimiter(c.Delimiter)
	return opt
}

// ParseDelimiter accepts ',', ';', '|' and "tab". Empty means auto.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	case "\t", "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'|'|'tab')", s)
}
