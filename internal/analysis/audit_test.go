package analysis

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

func campaign(t *testing.T) *dataset.Dataset {
	t.Helper()
	age, err := dataset.NewColumn("age", dataset.Int, []any{30, 45, 30, 60})
	require.NoError(t, err)
	job, err := dataset.NewColumn("job", dataset.Text, []any{"admin.", "blue-collar", "admin.", nil})
	require.NoError(t, err)
	return dataset.MustNew(age, job, dataset.TextColumn("y", "no", "yes", "no", "no"))
}

func seeded() *rand.Rand { return rand.New(rand.NewPCG(7, 7)) }

func TestAuditComputesSections(t *testing.T) {
	r := Audit(campaign(t), Options{Name: "bank.csv", Rand: seeded()})

	assert.Equal(t, 4, r.Rows)
	assert.Equal(t, 3, r.Cols)
	assert.Len(t, r.Sample, 4, "fewer rows than the sample size shows every row")
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, r.SampleIdx)

	require.Len(t, r.Columns, 3)
	assert.Equal(t, ColumnInfo{Index: 1, Name: "job", NonNull: 3, Kind: dataset.Text}, r.Columns[1])

	assert.Equal(t, []MissingShare{{Column: "job", Percent: 25}}, r.Missing)
	assert.Equal(t, 1, r.Duplicates)

	require.Len(t, r.Numeric, 1)
	s := r.Numeric[0]
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 41.25, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(206.25), s.Std, 1e-9)
	assert.Equal(t, 30.0, s.Min)
	assert.Equal(t, 30.0, s.Q25)
	assert.Equal(t, 37.5, s.Q50)
	assert.Equal(t, 48.75, s.Q75)
	assert.Equal(t, 60.0, s.Max)

	require.Len(t, r.Text, 2)
	assert.Equal(t, "job", r.Text[0].Column)
	assert.Equal(t, 2, r.Text[0].Unique)
	assert.Equal(t, dataset.ValueCount{Value: "admin.", Count: 2}, r.Text[0].Top[0])
}

func TestAuditSampleCappedAndDistinct(t *testing.T) {
	vals := make([]int64, 50)
	for i := range vals {
		vals[i] = int64(i)
	}
	r := Audit(dataset.MustNew(dataset.IntColumn("n", vals...)), Options{Rand: seeded()})
	require.Len(t, r.SampleIdx, 5)
	seen := map[int]bool{}
	for _, i := range r.SampleIdx {
		assert.False(t, seen[i])
		seen[i] = true
	}
}

func TestAuditMissingSortedDescending(t *testing.T) {
	a, _ := dataset.NewColumn("a", dataset.Float, []any{1.0, nil, 3.0, 4.0})
	b, _ := dataset.NewColumn("b", dataset.Float, []any{nil, nil, nil, 4.0})
	c := dataset.FloatColumn("c", 1, 2, 3, 4)
	r := Audit(dataset.MustNew(a, b, c), DefaultOptions())
	assert.Equal(t, []MissingShare{{"b", 75}, {"a", 25}}, r.Missing)
	assert.InDelta(t, 100.0, r.MissingSum, 1e-9)
}

func TestAuditTopValuesTruncated(t *testing.T) {
	vals := make([]string, 12)
	for i := range vals {
		vals[i] = fmt.Sprintf("v%02d", i)
	}
	r := Audit(dataset.MustNew(dataset.TextColumn("code", vals...)), DefaultOptions())
	require.Len(t, r.Text, 1)
	assert.Len(t, r.Text[0].Top, 10)
	assert.Equal(t, 12, r.Text[0].Unique)
	assert.True(t, r.Text[0].Truncated())
}

func TestRenderMessages(t *testing.T) {
	var buf bytes.Buffer
	Audit(campaign(t), Options{Rand: seeded()}).Render(&buf)
	out := buf.String()
	for _, want := range []string{
		"--- 1. RANDOM SAMPLE ---",
		"Rows: 4 | Columns: 3",
		"25.000000",
		"⚠ Alert: found 1 fully duplicated rows.",
		"37.500000",
		"-> Column: JOB (unique: 2)",
		"admin.",
	} {
		assert.Contains(t, out, want)
	}
	idx := strings.Index(out, "--- 7.")
	assert.Greater(t, idx, strings.Index(out, "--- 6."))
}

func TestRenderCleanDatasetWithoutNumericOrText(t *testing.T) {
	var buf bytes.Buffer
	b, _ := dataset.NewColumn("flag", dataset.Bool, []any{true, false})
	Audit(dataset.MustNew(b), DefaultOptions()).Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "✓ No missing values.")
	assert.Contains(t, out, "✓ No duplicated rows.")
	assert.Contains(t, out, "No numeric columns to analyze.")
	assert.Contains(t, out, "No text columns.")
}

func TestAuditEmptyRows(t *testing.T) {
	r := Audit(dataset.MustNew(dataset.FloatColumn("x")), DefaultOptions())
	assert.Empty(t, r.Sample)
	assert.Empty(t, r.Missing)
	require.Len(t, r.Numeric, 1)
	assert.Equal(t, 0, r.Numeric[0].Count)
	assert.True(t, math.IsNaN(r.Numeric[0].Mean))
	var buf bytes.Buffer
	assert.NotPanics(t, func() { r.Render(&buf) })
}

func TestMarkdown(t *testing.T) {
	md := Audit(campaign(t), Options{Name: "bank.csv", Rand: seeded()}).Markdown()
	assert.Contains(t, md, "File: bank.csv")
	assert.Contains(t, md, "- job: text (non-null 3, missing 25.0%); top: admin.(2), blue-collar(1)")
	assert.Contains(t, md, "- age: int (non-null 4, missing 0.0%); min 30, median 37.5, max 60")
	assert.Contains(t, md, "| age | job | y |")
}

func TestMarkdownTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("a", 76) + "ñññññ"
	ds := dataset.MustNew(dataset.TextColumn("nombre", long))
	md := Audit(ds, Options{SampleRows: 1, TopValues: 1, Rand: seeded()}).Markdown()
	assert.True(t, utf8.ValidString(md))
	assert.Contains(t, md, "| "+strings.Repeat("a", 76)+"ñ...")

	assert.Equal(t, "short", truncate("short", 80))
	assert.Equal(t, "ññ...", truncate("ñññññññ", 5))
}

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, quantile(s, 0))
	assert.Equal(t, 1.75, quantile(s, 0.25))
	assert.Equal(t, 2.5, quantile(s, 0.5))
	assert.Equal(t, 4.0, quantile(s, 1))
	assert.Equal(t, 0.0, quantile(nil, 0.5))
}
