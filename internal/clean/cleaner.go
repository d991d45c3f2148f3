// Package clean standardizes a dataset in place: column names, text contents, renames,
// value substitution, column and duplicate removal, localized dates and numbers stored as text.
//
// Operations never abort on a missing column. They print one status line and report what
// happened through Result, so a long sequence of steps keeps going on an evolving dataset.
package clean

import (
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/KaramelBytes/datalens-cli/internal/console"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Status is the outcome of one operation on one column.
type Status int

const (
	Applied Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result describes one operation. Count is operation specific: rows matched, rows removed
// or values converted.
type Result struct {
	Op     string
	Column string
	Status Status
	Count  int
	Err    error
}

// Cleaner runs cleaning operations. The zero value works and prints nothing.
type Cleaner struct {
	Out *console.Printer
	Log *logrus.Logger
	// FoldAccents makes NormalizeText strip every combining mark, not only the tilde of "ñ".
	FoldAccents bool
}

// New returns a Cleaner printing status lines to out.
func New(out *console.Printer, log *logrus.Logger) *Cleaner {
	return &Cleaner{Out: out, Log: log}
}

func (c *Cleaner) log() *logrus.Logger {
	if c.Log == nil {
		c.Log = console.Quiet()
	}
	return c.Log
}

func (c *Cleaner) trace(r Result) Result {
	c.log().WithFields(logrus.Fields{
		"op":     r.Op,
		"column": r.Column,
		"status": r.Status,
		"count":  r.Count,
	}).Debug("clean step")
	return r
}

var nameReplacer = strings.NewReplacer(".", "_", " ", "_")

// NormalizeName lowercases a column name and turns dots and spaces into underscores.
func NormalizeName(s string) string {
	return nameReplacer.Replace(strings.ToLower(s))
}

var textReplacer = strings.NewReplacer(" ", "_", ".", "_", "ñ", "n")

// NormalizeTextValue applies the text-column rule to a single value.
func NormalizeTextValue(s string, foldAccents bool) string {
	s = textReplacer.Replace(strings.ToLower(s))
	if foldAccents {
		s = foldMarks(s)
	}
	return s
}

func foldMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeColumnNames rewrites every column name with NormalizeName.
func (c *Cleaner) NormalizeColumnNames(ds *dataset.Dataset) Result {
	names := ds.Names()
	changed := 0
	for i, n := range names {
		if nn := NormalizeName(n); nn != n {
			names[i] = nn
			changed++
		}
	}
	// Same length as before, cannot fail.
	_ = ds.SetNames(names)
	c.Out.Success("Column names normalized.")
	return c.trace(Result{Op: "normalize_names", Status: Applied, Count: changed})
}

// NormalizeText lowercases every text column not listed in ignore and replaces spaces and
// dots with underscores and "ñ" with "n". Nulls stay null.
func (c *Cleaner) NormalizeText(ds *dataset.Dataset, ignore ...string) []Result {
	skip := make(map[string]struct{}, len(ignore))
	for _, n := range ignore {
		skip[n] = struct{}{}
	}
	var selected []string
	for _, col := range ds.ColumnsOfKind(dataset.Text) {
		if _, ok := skip[col.Name]; !ok {
			selected = append(selected, col.Name)
		}
	}
	c.Out.Info("Cleaning content of %d columns...", len(selected))

	results := make([]Result, 0, len(selected))
	for _, name := range selected {
		col, ok := ds.Column(name)
		if !ok {
			results = append(results, c.trace(Result{Op: "normalize_text", Column: name, Status: Skipped}))
			continue
		}
		err := col.MapText(func(s string) string { return NormalizeTextValue(s, c.FoldAccents) })
		if err != nil {
			results = append(results, c.trace(Result{Op: "normalize_text", Column: name, Status: Failed, Err: err}))
			continue
		}
		results = append(results, c.trace(Result{Op: "normalize_text", Column: name, Status: Applied, Count: col.NonNullCount()}))
	}
	c.Out.Success("Text normalized (no ñ).")
	return results
}
