package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datalens-cli/internal/clean"
	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/vis"
)

// chartKinds lists every chart in the order the report renders them.
var chartKinds = []string{"donut", "box", "heatmap", "age", "job", "education", "month"}

var (
	plInput   inputFlags
	plOutcome string
	plColumn  string
	plExtra   []string
	plRecipe  string
	plOutDir  string
	plFormat  string
)

var plotCmd = &cobra.Command{
	Use:   "plot <kind> <file>",
	Short: "Render one chart: " + strings.Join(chartKinds, ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToLower(args[0])
		if !validKind(kind) {
			return fmt.Errorf("unknown chart kind %q (use %s)", args[0], strings.Join(chartKinds, ", "))
		}
		c, err := config()
		if err != nil {
			return err
		}
		ds, err := plInput.read(args[1], c)
		if err != nil {
			return err
		}
		out := printer(cmd)
		cl := clean.New(out, logger())
		if _, err := applyRecipe(cl, ds, plRecipe); err != nil {
			return err
		}
		r, err := newRenderer(c, plOutDir, plFormat)
		if err != nil {
			return err
		}
		outcome := plOutcome
		if outcome == "" {
			outcome = c.OutcomeColumn
		}
		path, _, err := renderChart(r, ds, c, kind, plColumn, outcome, plExtra)
		if err != nil {
			return err
		}
		out.Success("Wrote %s chart to %s", kind, path)
		return nil
	},
}

func validKind(kind string) bool {
	for _, k := range chartKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// newRenderer applies the directory and format overrides to the configured style.
func newRenderer(c *cfgpkg.Global, outDir, format string) (*vis.Renderer, error) {
	style, err := styleFrom(c)
	if err != nil {
		return nil, err
	}
	if format != "" {
		switch f := strings.ToLower(format); f {
		case "png", "svg", "pdf":
			style.Format = f
		default:
			return nil, fmt.Errorf("unsupported --format: %s (use png, svg or pdf)", format)
		}
	}
	if outDir == "" {
		outDir = c.OutputDir
	}
	r := vis.NewRenderer(style, outDir)
	r.Log = logger()
	return r, nil
}

// renderChart draws one chart kind. An empty column selects the configured default for the kind.
// It returns the written path and a title for the run manifest.
func renderChart(r *vis.Renderer, ds *dataset.Dataset, c *cfgpkg.Global, kind, column, outcome string, extra []string) (string, string, error) {
	pick := func(def string) string {
		if column != "" {
			return column
		}
		return def
	}
	var (
		path, title string
		err         error
	)
	switch kind {
	case "donut":
		title = "Outcome distribution (" + outcome + ")"
		path, err = r.OutcomeDonut(ds, outcome)
	case "box":
		col := pick(c.IncomeColumn)
		title = col + " by outcome"
		path, err = r.BoxByOutcome(ds, outcome, col)
	case "heatmap":
		title = "Correlation matrix"
		path, err = r.CorrelationHeatmap(ds, outcome, extra...)
	case "age":
		col := pick(c.AgeColumn)
		title = col + " distribution by outcome"
		path, err = r.AgeHistogram(ds, col, outcome)
	case "job":
		col := pick(c.JobColumn)
		title = "Outcome by " + col
		path, err = r.JobBars(ds, col, outcome)
	case "education":
		col := pick(c.EducationColumn)
		title = "Outcome by " + col
		path, err = r.EducationBars(ds, col, outcome)
	case "month":
		col := pick(c.MonthColumn)
		title = "Outcome by " + col
		path, err = r.MonthBars(ds, col, outcome)
	default:
		return "", "", fmt.Errorf("unknown chart kind %q", kind)
	}
	if err != nil {
		return "", "", fmt.Errorf("%s chart: %w", kind, err)
	}
	return path, title, nil
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plInput.register(plotCmd)
	f := plotCmd.Flags()
	f.StringVar(&plOutcome, "outcome", "", "outcome column (default from config)")
	f.StringVar(&plColumn, "column", "", "column to chart (default per kind from config)")
	f.StringSliceVar(&plExtra, "extra", nil, "heatmap: extra numeric columns to correlate")
	f.StringVar(&plRecipe, "recipe", "", "YAML cleaning recipe applied before rendering")
	f.StringVar(&plOutDir, "out-dir", "", "directory for the image (default output_dir)")
	f.StringVar(&plFormat, "format", "", "image format: png | svg | pdf (default chart_format)")
}
