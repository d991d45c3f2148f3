package vis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// groups lists the outcome categories present in col: the negative and positive labels
// first, then any other value in order of appearance. Nulls are not a group.
func (s Style) groups(col *dataset.Column) []string {
	present := map[string]bool{}
	var seen []string
	for _, v := range col.Unique() {
		k := dataset.Format(v)
		if !present[k] {
			present[k] = true
			seen = append(seen, k)
		}
	}
	var out []string
	for _, k := range []string{s.Outcome.Negative, s.Outcome.Positive} {
		if present[k] {
			out = append(out, k)
			delete(present, k)
		}
	}
	for _, k := range seen {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}

func lookup(ds *dataset.Dataset, name string) (*dataset.Column, error) {
	c, ok := ds.Column(name)
	if !ok {
		return nil, dataset.NewColumnNotFoundError("plot", name)
	}
	return c, nil
}

func numericColumn(ds *dataset.Dataset, name string) (*dataset.Column, error) {
	c, err := lookup(ds, name)
	if err != nil {
		return nil, err
	}
	if !c.Kind.Numeric() {
		return nil, dataset.NewNotNumericError("plot", name, c.Kind)
	}
	return c, nil
}

// groupedCounts is a count table of category by outcome group.
type groupedCounts struct {
	Categories []string
	Groups     []string
	// Counts[g][c] counts rows with group g and category c.
	Counts [][]float64
	// Total is the number of rows in the dataset, nulls included.
	Total int
}

// countBy tabulates category x outcome. order fixes the categories; nil orders them by
// descending frequency.
func (s Style) countBy(ds *dataset.Dataset, category, outcome string, order []string) (*groupedCounts, error) {
	cat, err := lookup(ds, category)
	if err != nil {
		return nil, err
	}
	out, err := lookup(ds, outcome)
	if err != nil {
		return nil, err
	}
	if order == nil {
		for _, vc := range cat.ValueCounts() {
			order = append(order, dataset.Format(vc.Value))
		}
	}
	gc := &groupedCounts{Categories: order, Groups: s.groups(out), Total: ds.NumRows()}
	ci := indexOf(gc.Categories)
	gi := indexOf(gc.Groups)
	gc.Counts = make([][]float64, len(gc.Groups))
	for g := range gc.Counts {
		gc.Counts[g] = make([]float64, len(gc.Categories))
	}
	for i := 0; i < ds.NumRows(); i++ {
		if cat.IsNull(i) || out.IsNull(i) {
			continue
		}
		c, ok := ci[cat.String(i)]
		if !ok {
			continue
		}
		gc.Counts[gi[out.String(i)]][c]++
	}
	return gc, nil
}

// percentLabels formats each count as a share of Total; zero counts get no label.
func (gc *groupedCounts) percentLabels() [][]string {
	out := make([][]string, len(gc.Counts))
	for g, row := range gc.Counts {
		out[g] = make([]string, len(row))
		for c, n := range row {
			if n == 0 || gc.Total == 0 {
				continue
			}
			out[g][c] = fmt.Sprintf("%.1f%%", 100*n/float64(gc.Total))
		}
	}
	return out
}

func (gc *groupedCounts) max() float64 {
	m := 0.0
	for _, row := range gc.Counts {
		for _, n := range row {
			m = math.Max(m, n)
		}
	}
	return m
}

func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		if _, ok := m[n]; !ok {
			m[n] = i
		}
	}
	return m
}

// monthsPresent keeps the months of order that occur in col, in canonical order.
func monthsPresent(col *dataset.Column, order []string) []string {
	present := map[string]bool{}
	for _, v := range col.Unique() {
		present[dataset.Format(v)] = true
	}
	var out []string
	for _, m := range order {
		if present[m] {
			out = append(out, m)
		}
	}
	return out
}

// splitByGroup returns the non-null values of num for each outcome group.
func splitByGroup(num, outcome *dataset.Column, groups []string) [][]float64 {
	gi := indexOf(groups)
	out := make([][]float64, len(groups))
	for i := 0; i < num.Len(); i++ {
		if outcome.IsNull(i) {
			continue
		}
		g, ok := gi[outcome.String(i)]
		if !ok {
			continue
		}
		if f, ok := num.Float(i); ok {
			out[g] = append(out[g], f)
		}
	}
	return out
}

// histBins splits [min, max] of all values into n equal bins and counts each group.
func histBins(values [][]float64, n int) (edges []float64, counts [][]float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return nil, nil
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	w := (hi - lo) / float64(n)
	edges = make([]float64, n+1)
	for i := range edges {
		edges[i] = lo + float64(i)*w
	}
	edges[n] = hi
	counts = make([][]float64, len(values))
	for g, vs := range values {
		counts[g] = make([]float64, n)
		for _, v := range vs {
			b := int((v - lo) / w)
			if b >= n {
				b = n - 1
			}
			counts[g][b]++
		}
	}
	return edges, counts
}

// kde evaluates a Gaussian kernel density estimate of xs at each grid point. The bandwidth
// follows Scott's rule on the sample standard deviation. ok is false when the sample is
// too small or constant.
func kde(xs, grid []float64) (dens []float64, ok bool) {
	if len(xs) < 2 {
		return nil, false
	}
	sd := stat.StdDev(xs, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, false
	}
	h := sd * math.Pow(float64(len(xs)), -0.2)
	dens = make([]float64, len(grid))
	for _, x := range xs {
		k := distuv.Normal{Mu: x, Sigma: h}
		for i, g := range grid {
			dens[i] += k.Prob(g)
		}
	}
	for i := range dens {
		dens[i] /= float64(len(xs))
	}
	return dens, true
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// correlationColumns selects base ∪ extra columns present in ds, in dataset order.
func correlationColumns(ds *dataset.Dataset, base, extra []string) []string {
	want := map[string]bool{}
	for _, n := range base {
		want[n] = true
	}
	for _, n := range extra {
		want[n] = true
	}
	var out []string
	seen := map[string]bool{}
	for _, n := range ds.Names() {
		if want[n] && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// correlationValues reads a numeric column as floats and a boolean one as 0/1. Nulls are NaN.
func correlationValues(ds *dataset.Dataset, name string) ([]float64, error) {
	c, err := lookup(ds, name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.Bool {
		if !c.Kind.Numeric() {
			return nil, dataset.NewNotNumericError("plot", name, c.Kind)
		}
		return c.Floats()
	}
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = math.NaN()
		if b, ok := c.Value(i).(bool); ok {
			out[i] = 0
			if b {
				out[i] = 1
			}
		}
	}
	return out, nil
}

// correlate computes pairwise-complete Pearson correlations. Pairs with fewer than two
// complete rows, or a constant side, are NaN.
func correlate(ds *dataset.Dataset, names []string) ([][]float64, error) {
	cols := make([][]float64, len(names))
	for i, n := range names {
		vals, err := correlationValues(ds, n)
		if err != nil {
			return nil, err
		}
		cols[i] = vals
	}
	m := make([][]float64, len(names))
	for i := range m {
		m[i] = make([]float64, len(names))
	}
	for i := range names {
		for j := 0; j <= i; j++ {
			var x, y []float64
			for k := range cols[i] {
				a, b := cols[i][k], cols[j][k]
				if math.IsNaN(a) || math.IsNaN(b) {
					continue
				}
				x = append(x, a)
				y = append(y, b)
			}
			r := math.NaN()
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
			}
			m[i][j], m[j][i] = r, r
		}
	}
	return m, nil
}

// lowerTriangle masks the diagonal and everything above it with NaN.
func lowerTriangle(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = make([]float64, len(m[i]))
		for j := range m[i] {
			if j >= i {
				out[i][j] = math.NaN()
				continue
			}
			out[i][j] = m[i][j]
		}
	}
	return out
}

// deriveTarget adds TargetColumn: text outcomes map positive to 1 and negative to 0 (other
// values become null); numeric and boolean outcomes are copied as numbers.
func (s Style) deriveTarget(ds *dataset.Dataset, outcome string) error {
	col, err := lookup(ds, outcome)
	if err != nil {
		return err
	}
	vals := make([]float64, col.Len())
	for i := range vals {
		vals[i] = math.NaN()
		v := col.Value(i)
		switch col.Kind {
		case dataset.Text:
			switch v {
			case s.Outcome.Positive:
				vals[i] = 1
			case s.Outcome.Negative:
				vals[i] = 0
			}
		case dataset.Bool:
			if b, ok := v.(bool); ok {
				vals[i] = 0
				if b {
					vals[i] = 1
				}
			}
		case dataset.Int, dataset.Float:
			if f, ok := col.Float(i); ok {
				vals[i] = f
			}
		default:
			return dataset.NewNotNumericError("derive_target", outcome, col.Kind)
		}
	}
	return ds.SetColumn(dataset.FloatColumn(TargetColumn, vals...))
}

// sortedKeys is used for deterministic warnings.
func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
