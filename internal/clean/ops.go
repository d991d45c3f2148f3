package clean

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// RenameColumns renames columns by mapping, all at once, so swaps work. Keys that match no
// column are skipped. Results follow sorted key order.
func (c *Cleaner) RenameColumns(ds *dataset.Dataset, mapping map[string]string) []Result {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	matched := make(map[string]int, len(mapping))
	names := ds.Names()
	for i, n := range names {
		if nn, ok := mapping[n]; ok {
			names[i] = nn
			matched[n]++
		}
	}
	_ = ds.SetNames(names)

	results := make([]Result, 0, len(keys))
	for _, k := range keys {
		r := Result{Op: "rename", Column: k, Status: Applied, Count: matched[k]}
		if r.Count == 0 {
			r.Status = Skipped
		}
		results = append(results, c.trace(r))
	}
	c.Out.Success("Renamed columns: %v", keys)
	return results
}

// ReplaceValue substitutes every occurrence of oldVal with newVal in one column. Count is the number
// of rows that held oldVal beforehand. An absent column is reported and nothing changes.
func (c *Cleaner) ReplaceValue(ds *dataset.Dataset, column string, oldVal, newVal any) Result {
	col, ok := ds.Column(column)
	if !ok {
		c.Out.Warn("Column '%s' does not exist; nothing replaced.", column)
		return c.trace(Result{Op: "replace", Column: column, Status: Skipped, Err: dataset.NewColumnNotFoundError("replace", column)})
	}
	// Collect first: storing new may change the column kind and with it equality.
	var hits []int
	for i := 0; i < col.Len(); i++ {
		if dataset.Equal(col.Value(i), oldVal) {
			hits = append(hits, i)
		}
	}
	for _, i := range hits {
		col.Set(i, newVal)
	}
	c.Out.Info("In column '%s': replaced %d occurrences of '%s' with '%s'.", column, len(hits), dataset.Format(oldVal), dataset.Format(newVal))
	return c.trace(Result{Op: "replace", Column: column, Status: Applied, Count: len(hits)})
}

// DropColumns removes the named columns. Absent names are skipped.
func (c *Cleaner) DropColumns(ds *dataset.Dataset, names ...string) []Result {
	results := make([]Result, 0, len(names))
	for _, n := range names {
		r := Result{Op: "drop", Column: n, Status: Applied, Count: ds.Drop(n)}
		if r.Count == 0 {
			r.Status = Skipped
		}
		results = append(results, c.trace(r))
	}
	c.Out.Success("Dropped columns: %v", names)
	return results
}

// DropDuplicates removes rows equal to an earlier row. Remaining rows keep their order.
func (c *Cleaner) DropDuplicates(ds *dataset.Dataset) Result {
	dup := ds.Duplicated()
	keep := make([]int, 0, len(dup))
	for i, d := range dup {
		if !d {
			keep = append(keep, i)
		}
	}
	removed := len(dup) - len(keep)
	if removed == 0 {
		c.Out.Success("No duplicates found.")
		return c.trace(Result{Op: "dedupe", Status: Skipped})
	}
	ds.KeepRows(keep)
	c.Out.Success("Removed %d duplicate rows.", removed)
	return c.trace(Result{Op: "dedupe", Status: Applied, Count: removed})
}

// SpanishMonths maps month names to their two-digit numbers, in calendar order.
var SpanishMonths = []struct{ Name, Number string }{
	{"enero", "01"}, {"febrero", "02"}, {"marzo", "03"}, {"abril", "04"},
	{"mayo", "05"}, {"junio", "06"}, {"julio", "07"}, {"agosto", "08"},
	{"septiembre", "09"}, {"octubre", "10"}, {"noviembre", "11"}, {"diciembre", "12"},
}

// DayMonthYear is the layout a substituted date must match, e.g. "1-05-2016".
const DayMonthYear = "2-1-2006"

// ParseSpanishDate turns text such as "1-mayo-2016" into dates. Month names are replaced
// first; if any value then fails to parse the column stays in its substituted text form
// and the result is Failed. An absent column is skipped silently.
func (c *Cleaner) ParseSpanishDate(ds *dataset.Dataset, column string) Result {
	col, ok := ds.Column(column)
	if !ok {
		return c.trace(Result{Op: "parse_date", Column: column, Status: Skipped})
	}
	err := col.MapText(func(s string) string {
		for _, m := range SpanishMonths {
			s = strings.ReplaceAll(s, m.Name, m.Number)
		}
		return s
	})
	if err != nil {
		c.Out.Error("Error converting date in '%s': %v", column, err)
		return c.trace(Result{Op: "parse_date", Column: column, Status: Failed, Err: err})
	}

	vals := make([]any, col.Len())
	parsed := 0
	for i := range vals {
		if col.IsNull(i) {
			continue
		}
		s := col.String(i)
		t, err := time.Parse(DayMonthYear, s)
		if err != nil {
			err = dataset.NewOpError("parse_date", column, fmt.Errorf("row %d: %q does not match day-month-year: %w", i, s, err))
			c.Out.Error("Error converting date in '%s': %v", column, err)
			return c.trace(Result{Op: "parse_date", Column: column, Status: Failed, Err: err})
		}
		vals[i] = t
		parsed++
	}
	dates, err := dataset.NewColumn(column, dataset.Date, vals)
	if err == nil {
		err = ds.SetColumn(dates)
	}
	if err != nil {
		c.Out.Error("Error converting date in '%s': %v", column, err)
		return c.trace(Result{Op: "parse_date", Column: column, Status: Failed, Err: err})
	}
	c.Out.Success("Column '%s' converted to date.", column)
	return c.trace(Result{Op: "parse_date", Column: column, Status: Applied, Count: parsed})
}

// CoerceNumeric converts each named column to float: the value is rendered as text, commas
// become dots and the result is parsed. Values that do not parse become null. Absent columns
// are skipped. Count is the number of non-null values after conversion.
func (c *Cleaner) CoerceNumeric(ds *dataset.Dataset, columns ...string) []Result {
	c.Out.Info("Fixing numeric format in: %v", columns)
	results := make([]Result, 0, len(columns))
	for _, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			results = append(results, c.trace(Result{Op: "to_numeric", Column: name, Status: Skipped}))
			continue
		}
		vals := make([]any, col.Len())
		n := 0
		for i := range vals {
			if f, ok := ParseDecimal(col.Value(i)); ok {
				vals[i] = f
				n++
			}
		}
		num, err := dataset.NewColumn(name, dataset.Float, vals)
		if err == nil {
			err = ds.SetColumn(num)
		}
		if err != nil {
			results = append(results, c.trace(Result{Op: "to_numeric", Column: name, Status: Failed, Err: err}))
			continue
		}
		results = append(results, c.trace(Result{Op: "to_numeric", Column: name, Status: Applied, Count: n}))
	}
	c.Out.Success("Numbers converted.")
	return results
}

// ParseDecimal reads a value written with either decimal separator. Null, unparseable and
// NaN inputs report ok=false.
func ParseDecimal(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	s := strings.TrimSpace(strings.ReplaceAll(dataset.Format(v), ",", "."))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
