// Package analysis audits a dataset: a random sample, shape, column overview, missing values,
// duplicate rows, numeric statistics and the most frequent values of text columns.
package analysis

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Options controls the audit.
type Options struct {
	// Name labels the report (usually the source file name).
	Name string
	// SampleRows is the number of random rows shown; fewer when the dataset is smaller.
	SampleRows int
	// TopValues limits the frequency table of each text column.
	TopValues int
	// Rand drives row sampling. Nil uses the process-wide generator.
	Rand *rand.Rand
}

// DefaultOptions returns the usual audit settings.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 10}
}

// Report is the computed audit of one dataset. Render and Markdown only format it.
type Report struct {
	Name       string
	Rows       int
	Cols       int
	Header     []string
	SampleIdx  []int
	Sample     [][]string
	Columns    []ColumnInfo
	Missing    []MissingShare
	MissingSum float64
	Duplicates int
	Numeric    []NumericSummary
	Text       []TextSummary
	TopValues  int
}

// ColumnInfo is the structural overview of one column.
type ColumnInfo struct {
	Index   int
	Name    string
	NonNull int
	Kind    dataset.Kind
}

// MissingShare is the percentage of null cells in a column.
type MissingShare struct {
	Column  string
	Percent float64
}

// NumericSummary holds the descriptive statistics of one numeric column.
// Std is the sample standard deviation; quartiles interpolate linearly.
type NumericSummary struct {
	Column              string
	Count               int
	Mean, Std           float64
	Min, Q25, Q50, Q75  float64
	Max                 float64
}

// TextSummary lists the most frequent values of a text column.
type TextSummary struct {
	Column string
	Unique int
	Top    []dataset.ValueCount
}

// Truncated reports whether the column has more distinct values than were listed.
func (t TextSummary) Truncated() bool { return t.Unique > len(t.Top) }

// Audit computes the report. It never mutates ds.
func Audit(ds *dataset.Dataset, opt Options) *Report {
	def := DefaultOptions()
	if opt.SampleRows <= 0 {
		opt.SampleRows = def.SampleRows
	}
	if opt.TopValues <= 0 {
		opt.TopValues = def.TopValues
	}
	r := &Report{
		Name:      opt.Name,
		Rows:      ds.NumRows(),
		Cols:      ds.NumCols(),
		Header:    ds.Names(),
		TopValues: opt.TopValues,
	}
	r.sample(ds, opt)
	for i, c := range ds.Columns() {
		r.Columns = append(r.Columns, ColumnInfo{Index: i, Name: c.Name, NonNull: c.NonNullCount(), Kind: c.Kind})
	}
	r.missing(ds)
	r.Duplicates = ds.DuplicateCount()
	for _, c := range ds.ColumnsOfKind(dataset.Int, dataset.Float) {
		r.Numeric = append(r.Numeric, describe(c))
	}
	for _, c := range ds.ColumnsOfKind(dataset.Text) {
		vc := c.ValueCounts()
		ts := TextSummary{Column: c.Name, Unique: len(vc)}
		if len(vc) > opt.TopValues {
			vc = vc[:opt.TopValues]
		}
		ts.Top = vc
		r.Text = append(r.Text, ts)
	}
	return r
}

func (r *Report) sample(ds *dataset.Dataset, opt Options) {
	n := min(opt.SampleRows, r.Rows)
	var perm []int
	if opt.Rand != nil {
		perm = opt.Rand.Perm(r.Rows)
	} else {
		perm = rand.Perm(r.Rows)
	}
	r.SampleIdx = perm[:n]
	for _, i := range r.SampleIdx {
		row := make([]string, ds.NumCols())
		for j, c := range ds.Columns() {
			if c.IsNull(i) {
				row[j] = "NaN"
				continue
			}
			row[j] = c.String(i)
		}
		r.Sample = append(r.Sample, row)
	}
}

func (r *Report) missing(ds *dataset.Dataset) {
	if r.Rows == 0 {
		return
	}
	for _, c := range ds.Columns() {
		pct := float64(c.NullCount()) / float64(r.Rows) * 100
		r.MissingSum += pct
		if pct > 0 {
			r.Missing = append(r.Missing, MissingShare{Column: c.Name, Percent: pct})
		}
	}
	sort.SliceStable(r.Missing, func(i, j int) bool { return r.Missing[i].Percent > r.Missing[j].Percent })
}

func describe(c *dataset.Column) NumericSummary {
	vals := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if f, ok := c.Float(i); ok {
			vals = append(vals, f)
		}
	}
	s := NumericSummary{Column: c.Name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	if len(vals) < 2 {
		s.Std = math.NaN()
	}
	sort.Float64s(vals)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Q25 = quantile(vals, 0.25)
	s.Q50 = quantile(vals, 0.5)
	s.Q75 = quantile(vals, 0.75)
	return s
}

// quantile interpolates linearly between the closest ranks of an ascending slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
