package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

type xlsxFormat struct{}

func (xlsxFormat) CanRead(filename string) bool { return hasExt(filename, ".xlsx") }

func (xlsxFormat) CanWrite(filename string) bool { return hasExt(filename, ".xlsx") }

// Read loads one sheet. The first row is the header; short rows are padded with empty cells.
func (xlsxFormat) Read(path string, opt Options) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return dataset.New()
	}
	ncol := len(rows[0])
	records := make([][]string, len(rows))
	for i, r := range rows {
		rec := make([]string, ncol)
		copy(rec, r)
		records[i] = rec
	}
	return FromDataFrame(dataframe.LoadRecords(records, loadOptions(0)...))
}

func pickSheet(sheets []string, opt Options, file string) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.SheetName, file, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range: workbook '%s' has %d sheet(s)", idx, file, len(sheets))
	}
	return sheets[idx-1], nil
}

// Write stores the dataset on a single sheet; nulls are left as blank cells.
func (xlsxFormat) Write(ds *dataset.Dataset, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for j, name := range ds.Names() {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write header %q: %w", name, err)
		}
	}
	for j, c := range ds.Columns() {
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			v := c.Value(i)
			if c.Kind == dataset.Date {
				v = c.String(i)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
