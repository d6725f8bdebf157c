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
)

// Global configuration structure.
type Global struct {
	MaxFileSizeMB  int    `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
	PercentileStep int    `mapstructure:"percentile_step" yaml:"percentile_step"`
	OutputFormat   string `mapstructure:"output_format" yaml:"output_format"`
	RegionMode     string `mapstructure:"region_mode" yaml:"region_mode"`
	ShowSpread     bool   `mapstructure:"show_spread" yaml:"show_spread"`
	ShowRows       bool   `mapstructure:"show_rows" yaml:"show_rows"`
}

// Keys lists every settable key in display order.
var Keys = []string{"max_file_size_mb", "percentile_step", "output_format", "region_mode", "show_spread", "show_rows"}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		MaxFileSizeMB:  1024,
		PercentileStep: 5,
		OutputFormat:   "text",
		RegionMode:     "index",
		ShowSpread:     false,
		ShowRows:       true,
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("max_file_size_mb", d.MaxFileSizeMB)
	v.SetDefault("percentile_step", d.PercentileStep)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("region_mode", d.RegionMode)
	v.SetDefault("show_spread", d.ShowSpread)
	v.SetDefault("show_rows", d.ShowRows)
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".regionstats"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.regionstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
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
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("REGIONSTATS")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		// a missing file is created by the first Save
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
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

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &nf)
}

// Validate checks value ranges and normalizes enum-like settings.
func (c *Global) Validate() error {
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("invalid max_file_size_mb: %d (must be > 0)", c.MaxFileSizeMB)
	}
	if c.PercentileStep < 1 || c.PercentileStep > 100 {
		return fmt.Errorf("invalid percentile_step: %d (use 1..100)", c.PercentileStep)
	}
	c.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
	switch c.OutputFormat {
	case "text", "yaml":
	default:
		return fmt.Errorf("invalid output_format: %s (use text or yaml)", c.OutputFormat)
	}
	c.RegionMode = strings.ToLower(strings.TrimSpace(c.RegionMode))
	switch c.RegionMode {
	case "index", "name":
	default:
		return fmt.Errorf("invalid region_mode: %s (use index or name)", c.RegionMode)
	}
	return nil
}
