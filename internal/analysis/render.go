package analysis

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/datalens-cli/internal/console"
)

// Render prints the seven audit sections to w.
func (r *Report) Render(w io.Writer) {
	p := console.New(w)

	p.Heading("1. RANDOM SAMPLE")
	t := newTable(w, r.Header)
	for _, row := range r.Sample {
		t.Append(row)
	}
	t.Render()

	p.Heading("2. SHAPE")
	p.Plain("Rows: %d | Columns: %d", r.Rows, r.Cols)

	p.Heading("3. COLUMN INFO")
	t = newTable(w, []string{"#", "Column", "Non-Null Count", "Kind"})
	for _, c := range r.Columns {
		t.Append([]string{strconv.Itoa(c.Index), c.Name, fmt.Sprintf("%d non-null", c.NonNull), c.Kind.String()})
	}
	t.Render()

	p.Heading("4. MISSING VALUES")
	if r.MissingSum > 0 {
		t = newTable(w, []string{"Column", "Missing %"})
		for _, m := range r.Missing {
			t.Append([]string{m.Column, formatFloat(m.Percent)})
		}
		t.Render()
	} else {
		p.Success("No missing values.")
	}

	p.Heading("5. DUPLICATES")
	if r.Duplicates > 0 {
		p.Warn("Alert: found %d fully duplicated rows.", r.Duplicates)
	} else {
		p.Success("No duplicated rows.")
	}

	p.Heading("6. NUMERIC STATISTICS")
	if len(r.Numeric) > 0 {
		t = newTable(w, []string{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
		for _, s := range r.Numeric {
			t.Append([]string{
				s.Column, strconv.Itoa(s.Count),
				formatFloat(s.Mean), formatFloat(s.Std), formatFloat(s.Min),
				formatFloat(s.Q25), formatFloat(s.Q50), formatFloat(s.Q75), formatFloat(s.Max),
			})
		}
		t.Render()
	} else {
		p.Plain("No numeric columns to analyze.")
	}

	p.Heading(fmt.Sprintf("7. TEXT COLUMNS (top %d values)", r.TopValues))
	if len(r.Text) == 0 {
		p.Plain("No text columns.")
		return
	}
	for _, ts := range r.Text {
		p.Plain("\n-> Column: %s (unique: %d)", strings.ToUpper(ts.Column), ts.Unique)
		t = newTable(w, []string{"Value", "Frequency"})
		for _, vc := range ts.Top {
			t.Append([]string{fmt.Sprint(vc.Value), strconv.Itoa(vc.Count)})
		}
		t.Render()
		if ts.Truncated() {
			p.Plain("   (showing only the first %d of %d)", len(ts.Top), ts.Unique)
		}
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetHeader(header)
	return t
}

// formatFloat prints six decimals the way dataframe summaries usually do; NaN stays "NaN".
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}
