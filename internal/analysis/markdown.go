package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact report suitable for saving next to the dataset.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.Cols))
	if r.Duplicates > 0 {
		b.WriteString(fmt.Sprintf("Duplicate rows: %d\n", r.Duplicates))
	}

	missing := map[string]float64{}
	for _, m := range r.Missing {
		missing[m.Column] = m.Percent
	}
	numeric := map[string]NumericSummary{}
	for _, s := range r.Numeric {
		numeric[s.Column] = s
	}
	text := map[string]TextSummary{}
	for _, ts := range r.Text {
		text[ts.Column] = ts
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missing[c.Name]))
		if s, ok := numeric[c.Name]; ok && s.Count > 0 {
			b.WriteString(fmt.Sprintf("; min %.4g, median %.4g, max %.4g, mean %.4g, std %.4g", s.Min, s.Q50, s.Max, s.Mean, s.Std))
		}
		if ts, ok := text[c.Name]; ok && len(ts.Top) > 0 {
			b.WriteString("; top: ")
			for i, vc := range ts.Top {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(fmt.Sprint(vc.Value)), vc.Count))
			}
			if ts.Truncated() {
				b.WriteString(fmt.Sprintf("; unique=%d", ts.Unique))
			}
		}
		b.WriteString("\n")
	}

	if len(r.Sample) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, h := range r.Header {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(h))
		}
		b.WriteString(" |\n|")
		for range r.Header {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range r.Sample {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				val = truncate(val, 80)
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
