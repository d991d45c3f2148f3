package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datalens-cli/internal/clean"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/parser"
)

var (
	clInput          inputFlags
	clOutputPath     string
	clRecipe         string
	clNormalizeNames bool
	clNormalizeText  bool
	clIgnore         []string
	clRename         []string
	clReplace        []string
	clDrop           []string
	clDedupe         bool
	clDates          []string
	clNumeric        []string
	clFoldAccents    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Apply cleaning steps to a dataset and export the result (CSV or XLSX)",
	Long: `Apply cleaning steps from a YAML recipe and/or flags, then export the cleaned dataset.

Flag steps run after the recipe, in this order: normalize names, normalize text, rename,
replace, drop, dedupe, parse dates, numeric coercion.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config()
		if err != nil {
			return err
		}
		path := args[0]
		ds, err := clInput.read(path, c)
		if err != nil {
			return err
		}
		cl := clean.New(printer(cmd), logger())
		cl.FoldAccents = clFoldAccents

		results, err := applyRecipe(cl, ds, clRecipe)
		if err != nil {
			return err
		}
		flagResults, err := applyCleanFlags(cl, ds)
		if err != nil {
			return err
		}
		results = append(results, flagResults...)

		out := clOutputPath
		if out == "" {
			out = filepath.Join(c.OutputDir, cleanedName(path))
		}
		if err := parser.WriteFile(ds, out); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		p := printer(cmd)
		p.Info("%s", summarize(results))
		p.Success("Wrote %d rows x %d columns to %s", ds.NumRows(), ds.NumCols(), out)
		return nil
	},
}

// applyRecipe runs the recipe at path, if any.
func applyRecipe(cl *clean.Cleaner, ds *dataset.Dataset, path string) ([]clean.Result, error) {
	if path == "" {
		return nil, nil
	}
	r, err := clean.LoadRecipe(path)
	if err != nil {
		return nil, err
	}
	return r.Apply(cl, ds), nil
}

func applyCleanFlags(cl *clean.Cleaner, ds *dataset.Dataset) ([]clean.Result, error) {
	var out []clean.Result
	if clNormalizeNames {
		out = append(out, cl.NormalizeColumnNames(ds))
	}
	if clNormalizeText {
		out = append(out, cl.NormalizeText(ds, clIgnore...)...)
	}
	if len(clRename) > 0 {
		mapping := make(map[string]string, len(clRename))
		for _, kv := range clRename {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return nil, fmt.Errorf("invalid --rename %q (use old=new)", kv)
			}
			mapping[k] = v
		}
		out = append(out, cl.RenameColumns(ds, mapping)...)
	}
	for _, arg := range clReplace {
		parts := strings.SplitN(arg, ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			return nil, fmt.Errorf("invalid --replace %q (use column:old:new)", arg)
		}
		kind := dataset.Text
		if col, ok := ds.Column(parts[0]); ok {
			kind = col.Kind
		}
		out = append(out, cl.ReplaceValue(ds, parts[0], clean.ParseLiteral(kind, parts[1]), clean.ParseLiteral(kind, parts[2])))
	}
	if len(clDrop) > 0 {
		out = append(out, cl.DropColumns(ds, clDrop...)...)
	}
	if clDedupe {
		out = append(out, cl.DropDuplicates(ds))
	}
	for _, col := range clDates {
		out = append(out, cl.ParseSpanishDate(ds, col))
	}
	if len(clNumeric) > 0 {
		out = append(out, cl.CoerceNumeric(ds, clNumeric...)...)
	}
	return out, nil
}

// cleanedName keeps the input format when it can be written, else falls back to CSV.
func cleanedName(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" {
		ext = ".csv"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_clean" + ext
}

func summarize(results []clean.Result) string {
	var applied, skipped, failed int
	for _, r := range results {
		switch r.Status {
		case clean.Applied:
			applied++
		case clean.Skipped:
			skipped++
		case clean.Failed:
			failed++
		}
	}
	return fmt.Sprintf("Steps: %d applied, %d skipped, %d failed", applied, skipped, failed)
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	clInput.register(cleanCmd)
	f := cleanCmd.Flags()
	f.StringVarP(&clOutputPath, "output", "o", "", "output file (.csv or .xlsx); default <output_dir>/<name>_clean.<ext>")
	f.StringVar(&clRecipe, "recipe", "", "YAML recipe of cleaning steps, applied before flag steps")
	f.BoolVar(&clNormalizeNames, "normalize-names", false, "lowercase column names, dots and spaces to underscores")
	f.BoolVar(&clNormalizeText, "normalize-text", false, "normalize the content of text columns")
	f.StringSliceVar(&clIgnore, "ignore", nil, "text columns left untouched by --normalize-text")
	f.StringSliceVar(&clRename, "rename", nil, "rename columns: old=new (repeatable)")
	f.StringArrayVar(&clReplace, "replace", nil, "substitute a value: column:old:new (repeatable; empty value means null)")
	f.StringSliceVar(&clDrop, "drop", nil, "columns to drop")
	f.BoolVar(&clDedupe, "dedupe", false, "drop fully duplicated rows, keeping the first")
	f.StringSliceVar(&clDates, "date", nil, "columns holding Spanish 'day-month-year' dates")
	f.StringSliceVar(&clNumeric, "numeric", nil, "text columns to convert to numbers (',' decimal accepted)")
	f.BoolVar(&clFoldAccents, "fold-accents", false, "also strip accents during --normalize-text")
}
