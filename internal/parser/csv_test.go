package parser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/parser"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadCSVDetectsKindsAndNulls(t *testing.T) {
	p := writeFile(t, "bank.csv", "age,job,cons_price_idx,y,dt_customer\n"+
		"30,admin.,\"93,5\",no,1-mayo-2016\n"+
		"45,,\"94,1\",yes,2-junio-2016\n"+
		"38,technician,NA,no,\n")

	ds, err := parser.ReadFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []string{"age", "job", "cons_price_idx", "y", "dt_customer"}, ds.Names())

	age, _ := ds.Column("age")
	assert.Equal(t, dataset.Int, age.Kind)
	assert.Equal(t, int64(45), age.Value(1))

	job, _ := ds.Column("job")
	assert.Equal(t, dataset.Text, job.Kind)
	assert.True(t, job.IsNull(1))

	price, _ := ds.Column("cons_price_idx")
	assert.Equal(t, dataset.Text, price.Kind)
	assert.Equal(t, "93,5", price.Value(0))
	assert.True(t, price.IsNull(2))

	dt, _ := ds.Column("dt_customer")
	assert.True(t, dt.IsNull(2))
}

func TestReadTSVUsesTabDelimiter(t *testing.T) {
	p := writeFile(t, "bank.tsv", "age\tincome\n30\t52000.5\n41\t61000\n")
	ds, err := parser.ReadFile(p, parser.Options{})
	require.NoError(t, err)
	income, ok := ds.Column("income")
	require.True(t, ok)
	assert.Equal(t, dataset.Float, income.Kind)
	assert.Equal(t, 61000.0, income.Value(1))
}

func TestReadCSVExplicitDelimiter(t *testing.T) {
	p := writeFile(t, "semi.csv", "a;b\n1;x\n2;y\n")
	ds, err := parser.ReadFile(p, parser.Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Names())
}

func TestReadFileUnsupported(t *testing.T) {
	p := writeFile(t, "notes.txt", "hello")
	_, err := parser.ReadFile(p, parser.Options{})
	assert.ErrorIs(t, err, parser.ErrUnsupported)
}

func TestReadFileMissing(t *testing.T) {
	_, err := parser.ReadFile(filepath.Join(t.TempDir(), "nope.csv"), parser.Options{})
	assert.Error(t, err)
}
