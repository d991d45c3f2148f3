package parser

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// nanTokens are the cell contents treated as missing on load.
var nanTokens = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

// naToken is how gota spells a missing element.
const naToken = "NaN"

func loadOptions(delim rune) []dataframe.LoadOption {
	opts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanTokens),
	}
	if delim != 0 {
		opts = append(opts, dataframe.WithDelimiter(delim))
	}
	return opts
}

// FromDataFrame converts a gota DataFrame, mapping series types onto dataset kinds.
func FromDataFrame(df dataframe.DataFrame) (*dataset.Dataset, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("load dataframe: %w", df.Err)
	}
	var cols []*dataset.Column
	for _, name := range df.Names() {
		s := df.Col(name)
		kind, err := kindFor(s.Type())
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		vals := make([]any, s.Len())
		for i := 0; i < s.Len(); i++ {
			el := s.Elem(i)
			if el.IsNA() {
				continue
			}
			switch kind {
			case dataset.Int:
				n, err := el.Int()
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
				}
				vals[i] = int64(n)
			case dataset.Float:
				vals[i] = el.Float()
			case dataset.Bool:
				b, err := el.Bool()
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
				}
				vals[i] = b
			default:
				vals[i] = el.String()
			}
		}
		col, err := dataset.NewColumn(name, kind, vals)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return dataset.New(cols...)
}

func kindFor(t series.Type) (dataset.Kind, error) {
	switch t {
	case series.String:
		return dataset.Text, nil
	case series.Int:
		return dataset.Int, nil
	case series.Float:
		return dataset.Float, nil
	case series.Bool:
		return dataset.Bool, nil
	}
	return dataset.Text, fmt.Errorf("unsupported series type %q", t)
}

// ToDataFrame converts a dataset for export. Every column is exported as text formatted the
// way dataset.Format renders it, so floats keep their shortest form and dates read as ISO.
func ToDataFrame(ds *dataset.Dataset) dataframe.DataFrame {
	ss := make([]series.Series, 0, ds.NumCols())
	for _, c := range ds.Columns() {
		vals := make([]string, c.Len())
		for i := range vals {
			if c.IsNull(i) {
				vals[i] = naToken
				continue
			}
			vals[i] = c.String(i)
		}
		ss = append(ss, series.New(vals, series.String, c.Name))
	}
	return dataframe.New(ss...)
}
