package vis

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Axis and legend texts.
const (
	legendTitle   = "¿Compró?"
	customersAxis = "Cantidad de Clientes"
)

// slotWidth estimates the drawing width available to each of n categories along an axis of
// the given page length, leaving room for tick labels and the title.
func slotWidth(length vg.Length, n int) vg.Length {
	avail := length - 1.5*vg.Inch
	if n < 1 {
		n = 1
	}
	w := avail / vg.Length(n)
	if w < vg.Points(4) {
		w = vg.Points(4)
	}
	return w
}

// BoxByOutcome draws one box of the numeric column per outcome category.
func (r *Renderer) BoxByOutcome(ds *dataset.Dataset, outcome, numeric string) (string, error) {
	num, err := numericColumn(ds, numeric)
	if err != nil {
		return "", err
	}
	out, err := lookup(ds, outcome)
	if err != nil {
		return "", err
	}
	groups := r.Style.groups(out)
	values := splitByGroup(num, out, groups)

	p := r.newPlot(fmt.Sprintf("Distribución de %s según decisión", numeric))
	p.X.Label.Text = "Respuesta"
	p.Y.Label.Text = fmt.Sprintf("%s (Euros)", numeric)
	w := slotWidth(r.Style.Width, len(groups)) * 0.5
	var names []string
	for g, vs := range values {
		if len(vs) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(w, float64(len(names)), plotter.Values(vs))
		if err != nil {
			return "", fmt.Errorf("box plot %s=%s: %w", outcome, groups[g], err)
		}
		b.FillColor = r.Style.groupColor(g)
		p.Add(b)
		names = append(names, groups[g])
	}
	if len(names) == 0 {
		return "", fmt.Errorf("box plot: no rows with both '%s' and '%s'", numeric, outcome)
	}
	p.NominalX(names...)
	return r.save(p, fmt.Sprintf("box_%s_by_%s", numeric, outcome), r.Style.Width, r.Style.Height)
}

// AgeHistogram draws a 20-bin histogram of numeric stacked by outcome, with a density
// curve per outcome scaled to counts and stacked the same way.
func (r *Renderer) AgeHistogram(ds *dataset.Dataset, numeric, outcome string) (string, error) {
	const bins = 20
	num, err := numericColumn(ds, numeric)
	if err != nil {
		return "", err
	}
	out, err := lookup(ds, outcome)
	if err != nil {
		return "", err
	}
	groups := r.Style.groups(out)
	values := splitByGroup(num, out, groups)
	edges, counts := histBins(values, bins)
	if edges == nil {
		return "", fmt.Errorf("histogram: column '%s' has no values", numeric)
	}
	stacked := stack(counts)
	binWidth := edges[1] - edges[0]

	p := r.newPlot(fmt.Sprintf("Distribución de %s por Respuesta", strings.ToUpper(numeric)))
	p.X.Label.Text = "Edad"
	p.Y.Label.Text = customersAxis
	p.Legend.Top = true

	// Tallest layer first so each lower layer is painted over it.
	for g := len(groups) - 1; g >= 0; g-- {
		h := &plotter.Histogram{
			Bins:      make([]plotter.HistogramBin, bins),
			Width:     binWidth,
			FillColor: r.Style.groupColor(g),
			LineStyle: plotter.DefaultLineStyle,
		}
		for b := 0; b < bins; b++ {
			h.Bins[b] = plotter.HistogramBin{Min: edges[b], Max: edges[b+1], Weight: stacked[g][b]}
		}
		p.Add(h)
		p.Legend.Add(groups[g], h)
	}

	grid := linspace(edges[0], edges[bins], 200)
	base := make([]float64, len(grid))
	for g, vs := range values {
		dens, ok := kde(vs, grid)
		if !ok {
			continue
		}
		pts := make(plotter.XYs, len(grid))
		for i, x := range grid {
			base[i] += dens[i] * float64(len(vs)) * binWidth
			pts[i] = plotter.XY{X: x, Y: base[i]}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return "", fmt.Errorf("density line: %w", err)
		}
		l.LineStyle.Color = r.Style.groupColor(g)
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
	}
	return r.save(p, "histogram_"+numeric, r.Style.Width, r.Style.Height)
}

// stack turns per-group counts into cumulative heights, group 0 at the bottom.
func stack(counts [][]float64) [][]float64 {
	out := make([][]float64, len(counts))
	for g := range counts {
		out[g] = make([]float64, len(counts[g]))
		for b, n := range counts[g] {
			out[g][b] = n
			if g > 0 {
				out[g][b] += out[g-1][b]
			}
		}
	}
	return out
}

// CategoryBars draws horizontal count bars of category split by outcome, most frequent
// category on top, each bar labeled with its share of all rows.
func (r *Renderer) CategoryBars(ds *dataset.Dataset, category, outcome, title, ylabel string) (string, error) {
	gc, err := r.Style.countBy(ds, category, outcome, nil)
	if err != nil {
		return "", err
	}
	p := r.newPlot(title)
	p.X.Label.Text = customersAxis
	p.Y.Label.Text = ylabel
	if err := r.groupedBars(p, gc, true); err != nil {
		return "", err
	}
	// Category count drives the page height: roughly 8in for a dozen categories.
	h := r.Style.Height
	if len(gc.Categories) > 8 {
		h = h * 4 / 3
	}
	return r.save(p, "bars_"+category, r.Style.Width*6/5, h)
}

// JobBars is CategoryBars for the occupation column.
func (r *Renderer) JobBars(ds *dataset.Dataset, category, outcome string) (string, error) {
	return r.CategoryBars(ds, category, outcome,
		fmt.Sprintf("Respuesta de la Campaña por %s", strings.ToUpper(category)), "Tipo de Trabajo")
}

// EducationBars is CategoryBars for the education column.
func (r *Renderer) EducationBars(ds *dataset.Dataset, category, outcome string) (string, error) {
	return r.CategoryBars(ds, category, outcome,
		fmt.Sprintf("Respuesta según Nivel Educativo (%s)", category), "Nivel de Estudios")
}

// MonthBars draws vertical count bars per month in canonical order, split by outcome.
func (r *Renderer) MonthBars(ds *dataset.Dataset, month, outcome string) (string, error) {
	col, err := lookup(ds, month)
	if err != nil {
		return "", err
	}
	order := monthsPresent(col, r.Style.MonthOrder)
	if len(order) == 0 {
		return "", fmt.Errorf("month chart: column '%s' holds none of %v", month, r.Style.MonthOrder)
	}
	gc, err := r.Style.countBy(ds, month, outcome, order)
	if err != nil {
		return "", err
	}
	p := r.newPlot("Evolución de Ventas por Mes")
	p.X.Label.Text = "Mes de la Campaña"
	p.Y.Label.Text = "Clientes Contactados"
	if err := r.groupedBars(p, gc, false); err != nil {
		return "", err
	}
	return r.save(p, "bars_"+month, r.Style.Width, r.Style.Height)
}

// groupedBars adds one bar series per outcome group plus percentage labels, and widens the
// value axis by 15% so labels fit.
func (r *Renderer) groupedBars(p *plot.Plot, gc *groupedCounts, horizontal bool) error {
	k := len(gc.Categories)
	length := r.Style.Width
	if horizontal {
		length = r.Style.Height
	}
	n := len(gc.Groups)
	if n == 0 {
		return fmt.Errorf("bar chart: outcome column has no values")
	}
	bw := slotWidth(length, k) * 0.8 / vg.Length(n)
	labels := gc.percentLabels()

	p.Legend.Top = true
	p.Legend.Add(legendTitle)
	for g := range gc.Groups {
		vals := make(plotter.Values, k)
		for c := 0; c < k; c++ {
			// Horizontal charts list the first category at the top.
			slot := c
			if horizontal {
				slot = k - 1 - c
			}
			vals[slot] = gc.Counts[g][c]
		}
		bars, err := plotter.NewBarChart(vals, bw)
		if err != nil {
			return fmt.Errorf("bars for %s: %w", gc.Groups[g], err)
		}
		bars.Horizontal = horizontal
		bars.Color = r.Style.groupColor(g)
		bars.LineStyle.Width = 0
		offset := (vg.Length(g) - vg.Length(n-1)/2) * bw
		if horizontal {
			offset = -offset
		}
		bars.Offset = offset
		p.Add(bars)
		p.Legend.Add(gc.Groups[g], bars)

		xys := make(plotter.XYs, 0, k)
		var txt []string
		for c := 0; c < k; c++ {
			if labels[g][c] == "" {
				continue
			}
			slot := float64(c)
			if horizontal {
				slot = float64(k - 1 - c)
				xys = append(xys, plotter.XY{X: gc.Counts[g][c] + float64(gc.Total)*0.005, Y: slot})
			} else {
				xys = append(xys, plotter.XY{X: slot, Y: gc.Counts[g][c] + float64(gc.Total)*0.01})
			}
			txt = append(txt, labels[g][c])
		}
		if len(xys) == 0 {
			continue
		}
		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: txt})
		if err != nil {
			return fmt.Errorf("bar labels: %w", err)
		}
		for i := range lbl.TextStyle {
			if horizontal {
				lbl.TextStyle[i].XAlign, lbl.TextStyle[i].YAlign = text.XLeft, text.YCenter
			} else {
				lbl.TextStyle[i].XAlign, lbl.TextStyle[i].YAlign = text.XCenter, text.YBottom
			}
		}
		if horizontal {
			lbl.Offset = vg.Point{Y: offset}
		} else {
			lbl.Offset = vg.Point{X: offset}
		}
		p.Add(lbl)
	}

	names := make([]string, k)
	for c, name := range gc.Categories {
		if horizontal {
			names[k-1-c] = name
		} else {
			names[c] = name
		}
	}
	top := gc.max() * 1.15
	if horizontal {
		p.NominalY(names...)
		p.X.Min = 0
		p.X.Max = top
	} else {
		p.NominalX(names...)
		p.Y.Min = 0
		p.Y.Max = top
	}
	return nil
}
