package vis

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

func campaign(t *testing.T) *dataset.Dataset {
	t.Helper()
	income, err := dataset.NewColumn("income", dataset.Float, []any{52000.0, 61000.0, nil, 48000.0, 75000.0, 39000.0, 58000.0, 66000.0})
	require.NoError(t, err)
	return dataset.MustNew(
		dataset.IntColumn("age", 25, 38, 41, 52, 33, 60, 29, 47),
		income,
		dataset.FloatColumn("euribor3m", 4.8, 1.3, 4.9, 4.1, 1.2, 4.8, 0.9, 4.0),
		dataset.IntColumn("campaign", 1, 2, 1, 3, 1, 5, 2, 1),
		dataset.TextColumn("job", "admin.", "technician", "admin.", "admin.", "technician", "services", "admin.", "services"),
		dataset.TextColumn("education", "university", "high.school", "university", "basic.9y", "university", "high.school", "university", "basic.9y"),
		dataset.TextColumn("month", "may", "jun", "may", "jan", "aug", "may", "jun", "nov"),
		dataset.TextColumn("y", "no", "yes", "no", "no", "yes", "no", "yes", "no"),
	)
}

func TestGroupsPutsLabelsFirst(t *testing.T) {
	c, err := dataset.NewColumn("y", dataset.Text, []any{"maybe", "yes", nil, "no", "yes"})
	require.NoError(t, err)
	assert.Equal(t, []string{"no", "yes", "maybe"}, DefaultStyle().groups(c))
}

func TestDonutCountsLookupByLabel(t *testing.T) {
	s := DefaultStyle()
	neg, pos, extras, err := s.donutCounts(dataset.TextColumn("y", "yes", "yes", "no", "yes", "other"))
	require.NoError(t, err)
	assert.Equal(t, 1, neg)
	assert.Equal(t, 3, pos)
	assert.Equal(t, map[string]int{"other": 1}, extras)

	_, _, _, err = s.donutCounts(dataset.TextColumn("y", "no", "no"))
	assert.ErrorIs(t, err, ErrMissingCategory)
	assert.Contains(t, err.Error(), `"yes"`)
}

func TestCountByAndPercentLabels(t *testing.T) {
	gc, err := DefaultStyle().countBy(campaign(t), "job", "y", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin.", "technician", "services"}, gc.Categories)
	assert.Equal(t, []string{"no", "yes"}, gc.Groups)
	assert.Equal(t, [][]float64{{3, 0, 2}, {1, 2, 0}}, gc.Counts)
	assert.Equal(t, 8, gc.Total)
	assert.Equal(t, 3.0, gc.max())

	labels := gc.percentLabels()
	assert.Equal(t, "37.5%", labels[0][0])
	assert.Equal(t, "", labels[0][1], "zero bars are not labeled")
	assert.Equal(t, "25.0%", labels[1][1])
}

func TestMonthsPresentCanonicalOrder(t *testing.T) {
	got := monthsPresent(dataset.TextColumn("month", "nov", "may", "jan", "mar", "may"), DefaultStyle().MonthOrder)
	assert.Equal(t, []string{"mar", "may", "nov"}, got)
}

func TestHistBinsAndStack(t *testing.T) {
	edges, counts := histBins([][]float64{{0, 1, 2, 10}, {5, 10}}, 5)
	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10}, edges)
	assert.Equal(t, [][]float64{{2, 1, 0, 0, 1}, {0, 0, 1, 0, 1}}, counts)
	assert.Equal(t, [][]float64{{2, 1, 0, 0, 1}, {2, 1, 1, 0, 2}}, stack(counts))

	edges, counts = histBins([][]float64{{3, 3}}, 2)
	assert.Equal(t, []float64{2.5, 3, 3.5}, edges)
	assert.Equal(t, [][]float64{{0, 2}}, counts)

	edges, _ = histBins([][]float64{{}}, 20)
	assert.Nil(t, edges)
}

func TestKDEIntegratesToOne(t *testing.T) {
	xs := []float64{20, 25, 31, 33, 40, 41, 45, 58, 60}
	grid := linspace(-40, 120, 1601)
	dens, ok := kde(xs, grid)
	require.True(t, ok)
	area := 0.0
	for i := 1; i < len(grid); i++ {
		area += (dens[i] + dens[i-1]) / 2 * (grid[i] - grid[i-1])
	}
	assert.InDelta(t, 1.0, area, 1e-3)

	_, ok = kde([]float64{5, 5, 5}, grid)
	assert.False(t, ok)
}

func TestCorrelationSelectionAndMask(t *testing.T) {
	ds := campaign(t)
	require.NoError(t, DefaultStyle().deriveTarget(ds, "y"))
	names := correlationColumns(ds, DefaultStyle().HeatmapBase, []string{"age", "ghost"})
	assert.Equal(t, []string{"age", "income", "euribor3m", "campaign", TargetColumn}, names)

	target, _ := ds.Column(TargetColumn)
	assert.Equal(t, 1.0, target.Value(1))
	assert.Equal(t, 0.0, target.Value(0))

	m, err := correlate(ds, names)
	require.NoError(t, err)
	for i := range m {
		assert.InDelta(t, 1.0, m[i][i], 1e-12)
		for j := range m {
			assert.Equal(t, m[i][j], m[j][i])
		}
	}
	masked := lowerTriangle(m)
	for i := range masked {
		for j := range masked {
			if j >= i {
				assert.True(t, math.IsNaN(masked[i][j]))
			} else {
				assert.Equal(t, m[i][j], masked[i][j])
			}
		}
	}
}

func TestCorrelatePairwiseComplete(t *testing.T) {
	a, _ := dataset.NewColumn("a", dataset.Float, []any{1.0, 2.0, nil, 4.0})
	b := dataset.FloatColumn("b", 2, 4, 100, 8)
	m, err := correlate(dataset.MustNew(a, b), []string{"a", "b"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m[1][0], 1e-12)

	_, err = correlate(dataset.MustNew(dataset.TextColumn("t", "x")), []string{"t"})
	assert.ErrorIs(t, err, dataset.ErrNotNumeric)
}

func TestCorrelateTreatsBoolAsZeroOne(t *testing.T) {
	flag, err := dataset.NewColumn("contacted", dataset.Bool, []any{false, true, nil, true})
	require.NoError(t, err)
	x := dataset.FloatColumn("x", 1, 3, 50, 3)
	m, err := correlate(dataset.MustNew(flag, x), []string{"contacted", "x"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m[1][0], 1e-12)

	ds := campaign(t)
	contacted, err := dataset.NewColumn("contacted", dataset.Bool, []any{true, false, true, true, false, true, false, true})
	require.NoError(t, err)
	require.NoError(t, ds.SetColumn(contacted))
	path, err := NewRenderer(DefaultStyle(), t.TempDir()).CorrelationHeatmap(ds, "y", "contacted")
	assertImage(t, path, err)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#e74c3c")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xe7), c.R)
	assert.Equal(t, uint8(0x3c), c.B)
	c, err = ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), c.G)
	_, err = ParseHex("#12")
	assert.Error(t, err)
}

func assertImage(t *testing.T, path string, err error) {
	t.Helper()
	require.NoError(t, err)
	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderEveryChart(t *testing.T) {
	ds := campaign(t)
	before := ds.Clone()
	r := NewRenderer(DefaultStyle(), t.TempDir())

	path, err := r.OutcomeDonut(ds, "y")
	assertImage(t, path, err)
	path, err = r.BoxByOutcome(ds, "y", "income")
	assertImage(t, path, err)
	path, err = r.CorrelationHeatmap(ds, "y")
	assertImage(t, path, err)
	path, err = r.AgeHistogram(ds, "age", "y")
	assertImage(t, path, err)
	path, err = r.JobBars(ds, "job", "y")
	assertImage(t, path, err)
	path, err = r.EducationBars(ds, "education", "y")
	assertImage(t, path, err)
	path, err = r.MonthBars(ds, "month", "y")
	assertImage(t, path, err)

	assert.Equal(t, before, ds, "charts never modify the dataset")
}

func TestRenderSVG(t *testing.T) {
	s := DefaultStyle()
	s.Format = "svg"
	path, err := NewRenderer(s, t.TempDir()).MonthBars(campaign(t), "month", "y")
	assertImage(t, path, err)
	assert.Equal(t, ".svg", path[len(path)-4:])
}

func TestChartErrors(t *testing.T) {
	ds := campaign(t)
	r := NewRenderer(DefaultStyle(), t.TempDir())

	_, err := r.BoxByOutcome(ds, "y", "job")
	assert.ErrorIs(t, err, dataset.ErrNotNumeric)
	_, err = r.AgeHistogram(ds, "ghost", "y")
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	_, err = r.OutcomeDonut(ds, "job")
	assert.ErrorIs(t, err, ErrMissingCategory)
	_, err = r.CorrelationHeatmap(ds, "y", "job")
	assert.ErrorIs(t, err, dataset.ErrNotNumeric)
	_, err = r.MonthBars(ds, "job", "y")
	assert.Error(t, err)
}
