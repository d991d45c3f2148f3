package clean

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/datalens-cli/internal/console"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

func newCleaner() (*Cleaner, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(console.New(&buf), nil), &buf
}

func text(t *testing.T, name string, vals ...any) *dataset.Column {
	t.Helper()
	c, err := dataset.NewColumn(name, dataset.Text, vals)
	require.NoError(t, err)
	return c
}

func TestNormalizeColumnNamesIdempotent(t *testing.T) {
	c, out := newCleaner()
	ds := dataset.MustNew(dataset.IntColumn("Age.", 1), dataset.TextColumn("JOB ", "x"), dataset.TextColumn("Cons.Price Idx", "y"))
	r := c.NormalizeColumnNames(ds)
	assert.Equal(t, []string{"age_", "job_", "cons_price_idx"}, ds.Names())
	assert.Equal(t, Applied, r.Status)
	assert.Equal(t, 3, r.Count)

	r = c.NormalizeColumnNames(ds)
	assert.Equal(t, []string{"age_", "job_", "cons_price_idx"}, ds.Names())
	assert.Equal(t, 0, r.Count)
	assert.Contains(t, out.String(), "✓ Column names normalized.")
}

func TestNormalizeTextSkipsIgnoredAndKeepsNulls(t *testing.T) {
	c, _ := newCleaner()
	ds := dataset.MustNew(
		text(t, "job", "Admin.", "Blue Collar", nil),
		dataset.TextColumn("id", "A.1", "B 2", "C.3"),
		dataset.TextColumn("city", "Logroño", "ESPAÑA", "a b.c"),
		dataset.IntColumn("age", 1, 2, 3),
	)
	res := c.NormalizeText(ds, "id")
	require.Len(t, res, 2)
	assert.Equal(t, "job", res[0].Column)
	assert.Equal(t, 2, res[0].Count)

	job, _ := ds.Column("job")
	assert.Equal(t, []any{"admin_", "blue_collar", nil}, []any{job.Value(0), job.Value(1), job.Value(2)})
	id, _ := ds.Column("id")
	assert.Equal(t, "A.1", id.Value(0))
	city, _ := ds.Column("city")
	assert.Equal(t, []string{"logrono", "espana", "a_b_c"}, city.Strings())
}

func TestNormalizeTextFoldAccents(t *testing.T) {
	assert.Equal(t, "económico", NormalizeTextValue("Económico", false))
	assert.Equal(t, "economico", NormalizeTextValue("Económico", true))
	assert.Equal(t, "pinata", NormalizeTextValue("Piñata", true))
}

func TestRenameColumns(t *testing.T) {
	c, _ := newCleaner()
	ds := dataset.MustNew(dataset.IntColumn("a", 1), dataset.IntColumn("b", 2))
	res := c.RenameColumns(ds, map[string]string{"b": "a", "a": "b", "zz": "q"})
	assert.Equal(t, []string{"b", "a"}, ds.Names())
	require.Len(t, res, 3)
	assert.Equal(t, Result{Op: "rename", Column: "a", Status: Applied, Count: 1}, res[0])
	assert.Equal(t, Skipped, res[2].Status)
	assert.NoError(t, res[2].Err)
}

func TestReplaceValueCountsBeforehand(t *testing.T) {
	c, out := newCleaner()
	ds := dataset.MustNew(dataset.TextColumn("job", "unknown", "admin.", "unknown"))
	r := c.ReplaceValue(ds, "job", "unknown", "desconocido")
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, Applied, r.Status)
	job, _ := ds.Column("job")
	assert.Equal(t, []string{"desconocido", "admin.", "desconocido"}, job.Strings())
	assert.Contains(t, out.String(), "replaced 2 occurrences of 'unknown' with 'desconocido'")
}

func TestReplaceValueAcrossKindChange(t *testing.T) {
	c, _ := newCleaner()
	ds := dataset.MustNew(dataset.IntColumn("pdays", 999, 3, 999))
	r := c.ReplaceValue(ds, "pdays", int64(999), "never")
	assert.Equal(t, 2, r.Count)
	col, _ := ds.Column("pdays")
	assert.Equal(t, dataset.Text, col.Kind)
	assert.Equal(t, []string{"never", "3", "never"}, col.Strings())
}

func TestReplaceValueMissingColumn(t *testing.T) {
	c, out := newCleaner()
	ds := dataset.MustNew(dataset.TextColumn("job", "unknown"))
	before := ds.Clone()
	r := c.ReplaceValue(ds, "education", "unknown", "x")
	assert.Equal(t, Skipped, r.Status)
	assert.ErrorIs(t, r.Err, dataset.ErrColumnNotFound)
	assert.Equal(t, before, ds)
	assert.Contains(t, out.String(), "⚠ Column 'education' does not exist")
}

func TestDropColumnsIgnoresAbsent(t *testing.T) {
	c, _ := newCleaner()
	ds := dataset.MustNew(dataset.IntColumn("a", 1), dataset.IntColumn("unnamed:_0", 2))
	res := c.DropColumns(ds, "unnamed:_0", "ghost")
	assert.Equal(t, []string{"a"}, ds.Names())
	assert.Equal(t, Applied, res[0].Status)
	assert.Equal(t, Skipped, res[1].Status)
}

func TestDropDuplicatesKeepsFirstInOrder(t *testing.T) {
	c, out := newCleaner()
	ds := dataset.MustNew(dataset.IntColumn("id", 1, 2, 1, 3, 2), dataset.TextColumn("y", "a", "b", "a", "c", "b"))
	r := c.DropDuplicates(ds)
	assert.Equal(t, 2, r.Count)
	id, _ := ds.Column("id")
	assert.Equal(t, []string{"1", "2", "3"}, id.Strings())
	assert.Equal(t, 0, ds.DuplicateCount())

	r = c.DropDuplicates(ds)
	assert.Equal(t, Skipped, r.Status)
	assert.Contains(t, out.String(), "✓ No duplicates found.")
}

func TestParseSpanishDate(t *testing.T) {
	c, _ := newCleaner()
	ds := dataset.MustNew(text(t, "dt_customer", "1-mayo-2016", "15-diciembre-2014", nil))
	r := c.ParseSpanishDate(ds, "dt_customer")
	require.Equal(t, Applied, r.Status, r.Err)
	col, _ := ds.Column("dt_customer")
	assert.Equal(t, dataset.Date, col.Kind)
	assert.Equal(t, time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC), col.Value(0))
	assert.Equal(t, "2014-12-15", col.String(1))
	assert.True(t, col.IsNull(2))
}

func TestParseSpanishDateFailureLeavesSubstitutedText(t *testing.T) {
	c, out := newCleaner()
	ds := dataset.MustNew(dataset.TextColumn("dt", "1-mayo-2016", "2016/junio/02"))
	r := c.ParseSpanishDate(ds, "dt")
	assert.Equal(t, Failed, r.Status)
	require.Error(t, r.Err)
	col, _ := ds.Column("dt")
	assert.Equal(t, dataset.Text, col.Kind)
	assert.Equal(t, []string{"1-05-2016", "2016/06/02"}, col.Strings())
	assert.Contains(t, out.String(), "✗ Error converting date in 'dt'")
}

func TestParseSpanishDateAbsentIsSilent(t *testing.T) {
	c, out := newCleaner()
	r := c.ParseSpanishDate(dataset.MustNew(dataset.IntColumn("a", 1)), "dt")
	assert.Equal(t, Skipped, r.Status)
	assert.Empty(t, out.String())
}

func TestCoerceNumeric(t *testing.T) {
	c, _ := newCleaner()
	ds := dataset.MustNew(
		text(t, "cons_price_idx", "93,5", "abc", "10,0", nil),
		dataset.IntColumn("campaign", 1, 2, 3, 4),
	)
	res := c.CoerceNumeric(ds, "cons_price_idx", "campaign", "ghost")
	require.Len(t, res, 3)
	assert.Equal(t, 2, res[0].Count)
	assert.Equal(t, Skipped, res[2].Status)

	col, _ := ds.Column("cons_price_idx")
	assert.Equal(t, dataset.Float, col.Kind)
	assert.Equal(t, 93.5, col.Value(0))
	assert.True(t, col.IsNull(1))
	assert.Equal(t, 10.0, col.Value(2))
	assert.True(t, col.IsNull(3))

	camp, _ := ds.Column("campaign")
	assert.Equal(t, dataset.Float, camp.Kind)
	assert.Equal(t, 4.0, camp.Value(3))
}

func TestEndToEndSequence(t *testing.T) {
	c, _ := newCleaner()
	ds := dataset.MustNew(
		dataset.IntColumn("Age.", 30, 30, 41),
		dataset.TextColumn("JOB ", "Admin.", "Admin.", "Técnico"),
		dataset.TextColumn("Dt Customer", "1-mayo-2016", "1-mayo-2016", "3-junio-2015"),
	)
	c.NormalizeColumnNames(ds)
	c.NormalizeText(ds, "dt_customer")
	c.DropDuplicates(ds)
	c.ParseSpanishDate(ds, "dt_customer")
	c.RenameColumns(ds, map[string]string{"age_": "age", "job_": "job"})

	assert.Equal(t, []string{"age", "job", "dt_customer"}, ds.Names())
	assert.Equal(t, 2, ds.NumRows())
	job, _ := ds.Column("job")
	assert.Equal(t, []string{"admin_", "técnico"}, job.Strings())
	dt, _ := ds.Column("dt_customer")
	assert.Equal(t, dataset.Date, dt.Kind)
}

func TestRecipe(t *testing.T) {
	p := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`steps:
  - op: normalize_names
  - op: rename
    columns:
      y: target
  - op: replace
    column: pdays
    old: 999
    new: 0
  - op: replace
    column: target
    old: "yes"
    new: "si"
  - op: drop
    columns: [id]
  - op: to_numeric
    columns: [euribor3m]
  - op: dedupe
`), 0o644))
	r, err := LoadRecipe(p)
	require.NoError(t, err)
	require.Len(t, r.Steps, 7)

	ds := dataset.MustNew(
		dataset.IntColumn("ID", 1, 2),
		dataset.IntColumn("PDays", 999, 5),
		dataset.TextColumn("Euribor3m", "4,857", "1,3"),
		dataset.TextColumn("Y", "yes", "no"),
	)
	c, _ := newCleaner()
	res := r.Apply(c, ds)
	for _, x := range res {
		assert.NotEqual(t, Failed, x.Status, "%s %s", x.Op, x.Column)
	}
	assert.Equal(t, []string{"pdays", "euribor3m", "target"}, ds.Names())
	pd, _ := ds.Column("pdays")
	assert.Equal(t, int64(0), pd.Value(0))
	eu, _ := ds.Column("euribor3m")
	assert.Equal(t, 4.857, eu.Value(0))
	tg, _ := ds.Column("target")
	assert.Equal(t, "si", tg.Value(0))
}

func TestRecipeValidation(t *testing.T) {
	cases := map[string]string{
		"unknown op":      "steps:\n  - op: explode\n",
		"missing op":      "steps:\n  - column: a\n",
		"replace column":  "steps:\n  - op: replace\n    old: a\n",
		"rename not map":  "steps:\n  - op: rename\n    columns: [a, b]\n",
		"drop not a list": "steps:\n  - op: drop\n    columns: {a: b}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRecipe([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseLiteral(t *testing.T) {
	assert.Equal(t, int64(999), ParseLiteral(dataset.Int, "999"))
	assert.Equal(t, 1.5, ParseLiteral(dataset.Int, "1.5"))
	assert.Equal(t, "unknown", ParseLiteral(dataset.Int, "unknown"))
	assert.Equal(t, true, ParseLiteral(dataset.Bool, "true"))
	assert.Equal(t, "999", ParseLiteral(dataset.Text, "999"))
	assert.Nil(t, ParseLiteral(dataset.Text, ""))
	assert.Equal(t, time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC), ParseLiteral(dataset.Date, "2016-05-01"))
	assert.Equal(t, "01/05/2016", ParseLiteral(dataset.Date, "01/05/2016"))
}

func TestReplaceValueOnDateColumn(t *testing.T) {
	c, _ := newCleaner()
	ds := dataset.MustNew(text(t, "fecha", "1-mayo-2016", "2-mayo-2016", "1-mayo-2016"))
	require.Equal(t, Applied, c.ParseSpanishDate(ds, "fecha").Status)

	col, _ := ds.Column("fecha")
	r := c.ReplaceValue(ds, "fecha", ParseLiteral(col.Kind, "2016-05-01"), ParseLiteral(col.Kind, "2016-06-01"))
	assert.Equal(t, 2, r.Count)
	col, _ = ds.Column("fecha")
	assert.Equal(t, dataset.Date, col.Kind)
	assert.Equal(t, []string{"2016-06-01", "2016-05-02", "2016-06-01"}, col.Strings())
}
