package cmd

import (
	"fmt"
	"io"
	"os"

	cfgpkg "github.com/KaramelBytes/regionstats/internal/config"
	"github.com/KaramelBytes/regionstats/internal/dataset"
	"github.com/KaramelBytes/regionstats/internal/render"
	"github.com/KaramelBytes/regionstats/internal/session"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagFormat    string
	flagMaxSizeMB int

	// Session flags pre-answer the interactive prompts
	flagFile        string
	flagRegion      string
	flagRegionIndex string
	flagColumn      string
	flagStep        int
	flagSpread      bool
	flagNoRows      bool
	flagOutput      string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "regionstats",
	Short: "Descriptive statistics for one region and column of a CSV file",
	Long: `regionstats reads a CSV file whose second column names a region, asks which
region and which numeric column to look at, and prints min, max, median, mean
and a percentile table for the matching values.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.regionstats/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug output")
	pf.StringVar(&flagFormat, "format", "", "output format: text | yaml (overrides config)")
	pf.IntVar(&flagMaxSizeMB, "max-size-mb", 0, "maximum input file size in MiB (overrides config)")

	f := rootCmd.Flags()
	f.StringVarP(&flagFile, "file", "f", "", "CSV file to read (prompted if omitted)")
	f.StringVarP(&flagRegion, "region", "r", "", "region value to filter on")
	f.StringVar(&flagRegionIndex, "region-index", "", "index into the sorted region list")
	f.StringVarP(&flagColumn, "column", "c", "", "column index or header name to summarize")
	f.IntVar(&flagStep, "step", 0, "percentile table step (overrides config)")
	f.BoolVar(&flagSpread, "spread", false, "also print standard deviation and variance")
	f.BoolVar(&flagNoRows, "no-rows", false, "do not print the filtered rows")
	f.StringVarP(&flagOutput, "output", "o", "", "optional path to write the run report (YAML)")
	rootCmd.MarkFlagsMutuallyExclusive("region", "region-index")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// effectiveConfig returns the loaded config with CLI overrides applied.
func effectiveConfig(cmd *cobra.Command) (*cfgpkg.Global, error) {
	if cfg == nil {
		if c, err := cfgpkg.Load(cfgFile); err == nil {
			cfg = c
		}
	}
	c := cfgpkg.Defaults()
	if cfg != nil {
		*c = *cfg
	}
	f := cmd.Flags()
	if f.Changed("format") {
		c.OutputFormat = flagFormat
	}
	if f.Changed("max-size-mb") {
		c.MaxFileSizeMB = flagMaxSizeMB
	}
	if f.Lookup("step") != nil && f.Changed("step") {
		c.PercentileStep = flagStep
	}
	if f.Lookup("spread") != nil && f.Changed("spread") {
		c.ShowSpread = flagSpread
	}
	if f.Lookup("no-rows") != nil && f.Changed("no-rows") {
		c.ShowRows = !flagNoRows
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// newRenderer picks stdout for results and stderr for notices.
func newRenderer(cmd *cobra.Command, format string) (render.Renderer, error) {
	return render.New(format, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func closeRenderer(r render.Renderer) {
	if c, ok := r.(io.Closer); ok {
		_ = c.Close()
	}
}

// sessionError carries a pipeline failure with its user-facing message.
type sessionError struct{ err error }

func (e *sessionError) Error() string { return session.Message(e.err) }
func (e *sessionError) Unwrap() error { return e.err }

func runSession(cmd *cobra.Command) error {
	c, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd, c.OutputFormat)
	if err != nil {
		return err
	}
	defer closeRenderer(r)

	// keep stdout parseable when emitting yaml
	promptOut := cmd.OutOrStdout()
	if c.OutputFormat == render.FormatYAML {
		promptOut = cmd.ErrOrStderr()
	}
	opt := session.Options{
		MaxBytes:       dataset.MaxBytes(c.MaxFileSizeMB),
		PercentileStep: c.PercentileStep,
		RegionMode:     c.RegionMode,
		ShowRows:       c.ShowRows,
		ShowSpread:     c.ShowSpread,
	}
	if debug {
		opt.Debug = cmd.ErrOrStderr()
	}
	s := session.New(session.NewLinePrompter(cmd.InOrStdin(), promptOut), r, opt)
	s.Preset = session.Selection{
		File:        flagFile,
		Region:      flagRegion,
		RegionIndex: flagRegionIndex,
		Column:      flagColumn,
	}
	if debug {
		fmt.Fprintf(cmd.ErrOrStderr(), "[debug] run %s\n", s.RunID)
	}
	rep, err := s.Run()
	if err != nil {
		return &sessionError{err: err}
	}
	if flagOutput != "" {
		if err := rep.Save(flagOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote report to %s\n", flagOutput)
	}
	return nil
}
