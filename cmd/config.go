package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/regionstats/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set regionstats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "max_file_size_mb: %d\n", c.MaxFileSizeMB)
		fmt.Fprintf(out, "percentile_step: %d\n", c.PercentileStep)
		fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(out, "region_mode: %s\n", c.RegionMode)
		fmt.Fprintf(out, "show_spread: %t\n", c.ShowSpread)
		fmt.Fprintf(out, "show_rows: %t\n", c.ShowRows)
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
		next := *cfg
		switch key {
		case "max_file_size_mb":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_file_size_mb: %w", err)
			}
			next.MaxFileSizeMB = i
		case "percentile_step":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for percentile_step: %w", err)
			}
			next.PercentileStep = i
		case "output_format":
			next.OutputFormat = val
		case "region_mode":
			next.RegionMode = val
		case "show_spread":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for show_spread: %w", err)
			}
			next.ShowSpread = b
		case "show_rows":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for show_rows: %w", err)
			}
			next.ShowRows = b
		default:
			return fmt.Errorf("unknown key: %s (use one of %s)", key, strings.Join(cfgpkg.Keys, ", "))
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
