package parser

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
)

type csvFormat struct{}

func (csvFormat) CanRead(filename string) bool { return hasExt(filename, ".csv", ".tsv") }

func (csvFormat) CanWrite(filename string) bool { return hasExt(filename, ".csv") }

// Read loads a delimited file with type detection; empty and NA-like cells become null.
func (csvFormat) Read(path string, opt Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	df := dataframe.ReadCSV(f, loadOptions(delim)...)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, df.Err)
	}
	return FromDataFrame(df)
}

// Write stores the dataset as comma-separated text with a header row.
func (csvFormat) Write(ds *dataset.Dataset, path string) error {
	df := ToDataFrame(ds)
	if df.Err != nil {
		return fmt.Errorf("build dataframe: %w", df.Err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close csv: %w", err)
	}
	return utils.RenameInto(tmp, path)
}

func sniffDelimiter(path string) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	// Default to comma; only the file name is consulted.
	return ','
}
