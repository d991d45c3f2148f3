package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
)

var (
	abInput      inputFlags
	abOutputDir  string
	abSampleRows int
	abTopValues  int
	abSeed       int64
	abQuiet      bool
)

var auditBatchCmd = &cobra.Command{
	Use:   "audit-batch <files...>",
	Short: "Audit multiple CSV/TSV/XLSX files with progress and optional Markdown output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := utils.ExpandGlobs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		c, err := config()
		if err != nil {
			return err
		}
		out := printer(cmd)
		if abOutputDir != "" {
			if err := utils.EnsureDir(abOutputDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		total := len(files)
		for i, path := range files {
			if !abQuiet {
				out.Plain("[%d/%d] Processing %s...", i+1, total, filepath.Base(path))
			}
			ds, err := abInput.read(path, c)
			if err != nil {
				return err
			}
			rep := analysis.Audit(ds, auditOptions(cmd, c, filepath.Base(path), abSampleRows, abTopValues, abSeed))

			if abOutputDir == "" {
				if !abQuiet {
					rep.Render(cmd.OutOrStdout())
				}
				continue
			}
			outFile := uniquePath(abOutputDir, utils.Stem(path), ".audit.md")
			if filepath.Base(outFile) != utils.Stem(path)+".audit.md" && !abQuiet {
				out.Warn("Detected existing audit, writing to %s to avoid overwrite.", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, []byte(rep.Markdown())); err != nil {
				return fmt.Errorf("write audit: %w", err)
			}
			if !abQuiet {
				out.Success("Wrote audit to %s", outFile)
			}
		}
		return nil
	},
}

// uniquePath returns dir/base+suffix, or dir/base__N+suffix when that file already exists.
func uniquePath(dir, base, suffix string) string {
	p := filepath.Join(dir, base+suffix)
	if _, err := os.Stat(p); err != nil {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, suffix))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(auditBatchCmd)
	abInput.register(auditBatchCmd)
	auditBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one <name>.audit.md per file into this directory instead of printing")
	auditBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of random sample rows to show")
	auditBatchCmd.Flags().IntVar(&abTopValues, "top", 10, "most frequent values listed per text column")
	auditBatchCmd.Flags().Int64Var(&abSeed, "seed", 0, "sampling seed (0 = random)")
	auditBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
