package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/KaramelBytes/datalens-cli/internal/console"
	"github.com/KaramelBytes/datalens-cli/internal/vis"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "datalens",
	Short:         "DataLens CLI: audit, clean and chart tabular datasets",
	Long:          `DataLens audits CSV/TSV/XLSX datasets, applies cleaning steps to them and renders the charts of a campaign-outcome analysis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datalens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	log = console.NewLogger(os.Stderr, debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: config show/set still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	log.WithField("output_dir", cfg.OutputDir).Debug("config loaded")
}

// config returns the loaded configuration or the reason it is missing.
func config() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func logger() *logrus.Logger {
	if log == nil {
		log = console.NewLogger(os.Stderr, debug)
	}
	return log
}

func printer(cmd *cobra.Command) *console.Printer {
	return console.New(cmd.OutOrStdout())
}

// styleFrom builds the chart style from configuration.
func styleFrom(c *cfgpkg.Global) (vis.Style, error) {
	s := vis.DefaultStyle()
	for i, hex := range c.Palette {
		col, err := vis.ParseHex(hex)
		if err != nil {
			return s, fmt.Errorf("palette: %w", err)
		}
		s.Palette[i] = col
	}
	s.Width = vg.Length(c.ChartWidthIn) * vg.Inch
	s.Height = vg.Length(c.ChartHeightIn) * vg.Inch
	s.Format = c.ChartFormat
	s.Outcome = vis.OutcomeLabels{
		Negative:        c.OutcomeNegative,
		Positive:        c.OutcomePositive,
		NegativeDisplay: c.OutcomeNegativeDisplay,
		PositiveDisplay: c.OutcomePositiveDisplay,
	}
	if len(c.MonthOrder) > 0 {
		s.MonthOrder = c.MonthOrder
	}
	if len(c.HeatmapBaseColumns) > 0 {
		s.HeatmapBase = c.HeatmapBaseColumns
	}
	return s, nil
}

// sampler returns a seeded generator, or nil for the process-wide one when seed is 0.
func sampler(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}
