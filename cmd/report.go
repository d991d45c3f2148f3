package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/clean"
	"github.com/KaramelBytes/datalens-cli/internal/parser"
	"github.com/KaramelBytes/datalens-cli/internal/report"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
)

// Artifact kinds recorded in the manifest.
const (
	artifactAudit   = "audit"
	artifactChart   = "chart"
	artifactDataset = "dataset"
)

var (
	rpInput   inputFlags
	rpRecipe  string
	rpOutDir  string
	rpOutcome string
	rpExtra   []string
	rpFormat  string
	rpExport  bool
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Clean (optional recipe), audit and render every chart of a dataset, with a manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config()
		if err != nil {
			return err
		}
		path := args[0]
		ds, err := rpInput.read(path, c)
		if err != nil {
			return err
		}
		dir := rpOutDir
		if dir == "" {
			dir = filepath.Join(c.OutputDir, utils.Stem(path))
		}
		out := printer(cmd)
		run := report.NewRun(path, dir)

		cl := clean.New(out, logger())
		steps, err := applyRecipe(cl, ds, rpRecipe)
		if err != nil {
			return err
		}
		run.RecordSteps(steps)
		run.Rows, run.Columns = ds.NumRows(), ds.NumCols()

		opt := analysis.DefaultOptions()
		opt.Name = filepath.Base(path)
		opt.SampleRows, opt.TopValues = c.SampleRows, c.TopValues
		opt.Rand = sampler(c.SampleSeed)
		auditPath := filepath.Join(dir, utils.Stem(path)+".audit.md")
		if err := utils.SafeWriteFile(auditPath, []byte(analysis.Audit(ds, opt).Markdown())); err != nil {
			return fmt.Errorf("write audit: %w", err)
		}
		if _, err := run.Add(artifactAudit, auditPath, "Dataset audit"); err != nil {
			return err
		}

		if rpExport {
			dataPath := filepath.Join(dir, cleanedName(path))
			if err := parser.WriteFile(ds, dataPath); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if _, err := run.Add(artifactDataset, dataPath, "Cleaned dataset"); err != nil {
				return err
			}
		}

		r, err := newRenderer(c, dir, rpFormat)
		if err != nil {
			return err
		}
		outcome := rpOutcome
		if outcome == "" {
			outcome = c.OutcomeColumn
		}
		failed := 0
		for _, kind := range chartKinds {
			p, title, err := renderChart(r, ds, c, kind, "", outcome, rpExtra)
			if err != nil {
				// keep going; the manifest lists only what was written
				out.Warn("Skipped %s: %v", kind, err)
				failed++
				continue
			}
			if _, err := run.Add(artifactChart, p, title); err != nil {
				return err
			}
		}
		if err := run.Save(); err != nil {
			return err
		}
		if failed > 0 {
			out.Warn("%d of %d charts could not be rendered.", failed, len(chartKinds))
		}
		out.Success("Wrote %d artifacts and manifest.json to %s", len(run.Artifacts), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rpInput.register(reportCmd)
	f := reportCmd.Flags()
	f.StringVar(&rpRecipe, "recipe", "", "YAML cleaning recipe applied before auditing and rendering")
	f.StringVar(&rpOutDir, "out-dir", "", "output directory (default <output_dir>/<name>)")
	f.StringVar(&rpOutcome, "outcome", "", "outcome column (default from config)")
	f.StringSliceVar(&rpExtra, "extra", nil, "heatmap: extra numeric columns to correlate")
	f.StringVar(&rpFormat, "format", "", "image format: png | svg | pdf (default chart_format)")
	f.BoolVar(&rpExport, "export", false, "also write the cleaned dataset into the output directory")
}
