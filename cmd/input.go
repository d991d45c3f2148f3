package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/parser"
)

// inputFlags are the read options shared by every command taking a dataset file.
type inputFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default from config or extension)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (f *inputFlags) read(path string, c *cfgpkg.Global) (*dataset.Dataset, error) {
	delim := f.delimiter
	if delim == "" {
		delim = c.Delimiter
	}
	r, err := parseDelimiter(delim)
	if err != nil {
		return nil, err
	}
	ds, err := parser.ReadFile(path, parser.Options{Delimiter: r, SheetName: f.sheetName, SheetIndex: f.sheetIndex})
	if err != nil {
		return nil, err
	}
	logger().WithField("file", path).WithField("rows", ds.NumRows()).WithField("cols", ds.NumCols()).Debug("dataset loaded")
	return ds, nil
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}
