// Package dataset holds the in-memory table every datalens unit works on: ordered, named
// columns of equal length with positional rows.
package dataset

import (
	"fmt"
)

// Dataset is a mutable table of named columns. Names are expected, not enforced, to be unique;
// lookups return the first match.
type Dataset struct {
	cols []*Column
	rows int
}

// New assembles a dataset from columns of equal length.
func New(cols ...*Column) (*Dataset, error) {
	d := &Dataset{}
	for i, c := range cols {
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, &Error{Op: "new", Column: c.Name, Message: fmt.Sprintf("has %d rows, want %d", c.Len(), d.rows), Cause: ErrLengthMismatch}
		}
		d.cols = append(d.cols, c)
	}
	return d, nil
}

// MustNew is New for fixtures known to be well formed.
func MustNew(cols ...*Column) *Dataset {
	d, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Dataset) NumRows() int { return d.rows }
func (d *Dataset) NumCols() int { return len(d.cols) }

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// SetNames replaces every column name at once.
func (d *Dataset) SetNames(names []string) error {
	if len(names) != len(d.cols) {
		return &Error{Op: "set_names", Message: fmt.Sprintf("got %d names for %d columns", len(names), len(d.cols)), Cause: ErrLengthMismatch}
	}
	for i, n := range names {
		d.cols[i].Name = n
	}
	return nil
}

// Index returns the position of the first column called name, or -1.
func (d *Dataset) Index(name string) int {
	for i, c := range d.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (d *Dataset) Has(name string) bool { return d.Index(name) >= 0 }

// Column returns the first column called name.
func (d *Dataset) Column(name string) (*Column, bool) {
	if i := d.Index(name); i >= 0 {
		return d.cols[i], true
	}
	return nil, false
}

// Columns returns the column slice; callers must not reorder it.
func (d *Dataset) Columns() []*Column { return d.cols }

// ColumnsOfKind returns the columns whose kind is one of kinds, in dataset order.
func (d *Dataset) ColumnsOfKind(kinds ...Kind) []*Column {
	var out []*Column
	for _, c := range d.cols {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// SetColumn replaces the first column with the same name, or appends it.
func (d *Dataset) SetColumn(c *Column) error {
	if len(d.cols) > 0 && c.Len() != d.rows {
		return &Error{Op: "set_column", Column: c.Name, Message: fmt.Sprintf("has %d rows, want %d", c.Len(), d.rows), Cause: ErrLengthMismatch}
	}
	if len(d.cols) == 0 {
		d.rows = c.Len()
	}
	if i := d.Index(c.Name); i >= 0 {
		d.cols[i] = c
		return nil
	}
	d.cols = append(d.cols, c)
	return nil
}

// Drop removes every column called name and reports how many were removed.
func (d *Dataset) Drop(name string) int {
	kept := d.cols[:0]
	n := 0
	for _, c := range d.cols {
		if c.Name == name {
			n++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(d.cols); i++ {
		d.cols[i] = nil
	}
	d.cols = kept
	return n
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []any {
	out := make([]any, len(d.cols))
	for j, c := range d.cols {
		out[j] = c.values[i]
	}
	return out
}

// KeepRows retains only the rows at idx, in that order.
func (d *Dataset) KeepRows(idx []int) {
	for _, c := range d.cols {
		c.pick(idx)
	}
	d.rows = len(idx)
}

// Clone returns a deep copy that shares nothing with d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{rows: d.rows, cols: make([]*Column, len(d.cols))}
	for i, c := range d.cols {
		out.cols[i] = c.Clone()
	}
	return out
}
