package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
)

var (
	audInput      inputFlags
	audOutputPath string
	audSampleRows int
	audTopValues  int
	audSeed       int64
)

var auditCmd = &cobra.Command{
	Use:   "audit <file>",
	Short: "Audit a CSV/TSV/XLSX dataset: sample, shape, types, nulls, duplicates and statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config()
		if err != nil {
			return err
		}
		path := args[0]
		ds, err := audInput.read(path, c)
		if err != nil {
			return err
		}
		rep := analysis.Audit(ds, auditOptions(cmd, c, filepath.Base(path), audSampleRows, audTopValues, audSeed))

		if audOutputPath != "" {
			if err := utils.SafeWriteFile(audOutputPath, []byte(rep.Markdown())); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			printer(cmd).Success("Wrote audit to %s", audOutputPath)
			return nil
		}
		rep.Render(cmd.OutOrStdout())
		return nil
	},
}

// auditOptions merges config defaults with the flags the user changed.
func auditOptions(cmd *cobra.Command, c *cfgpkg.Global, name string, sampleRows, top int, seed int64) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.Name = name
	opt.SampleRows = c.SampleRows
	opt.TopValues = c.TopValues
	s := c.SampleSeed
	f := cmd.Flags()
	if f.Changed("sample-rows") && sampleRows >= 0 {
		opt.SampleRows = sampleRows
	}
	if f.Changed("top") && top > 0 {
		opt.TopValues = top
	}
	if f.Changed("seed") {
		s = seed
	}
	opt.Rand = sampler(s)
	return opt
}

func init() {
	rootCmd.AddCommand(auditCmd)
	audInput.register(auditCmd)
	auditCmd.Flags().StringVarP(&audOutputPath, "output", "o", "", "optional path to write the audit (Markdown)")
	auditCmd.Flags().IntVar(&audSampleRows, "sample-rows", 5, "number of random sample rows to show")
	auditCmd.Flags().IntVar(&audTopValues, "top", 10, "most frequent values listed per text column")
	auditCmd.Flags().Int64Var(&audSeed, "seed", 0, "sampling seed (0 = random)")
}
