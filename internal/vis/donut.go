package vis

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// donut is a ring chart plotter. Angles run counterclockwise from Start.
type donut struct {
	Values []float64
	Colors []color.Color
	Labels []string
	// Hole is the inner radius as a fraction of the outer one.
	Hole float64
	// Explode pushes every wedge outwards by this fraction of the radius.
	Explode float64
	// PctDistance places the percentage text, as a fraction of the radius.
	PctDistance float64
	Start       float64
	TextStyle   text.Style
}

func polar(r vg.Length, angle float64) vg.Point {
	return vg.Point{X: r * vg.Length(math.Cos(angle)), Y: r * vg.Length(math.Sin(angle))}
}

// Plot implements plot.Plotter.
func (d *donut) Plot(c draw.Canvas, _ *plot.Plot) {
	total := 0.0
	for _, v := range d.Values {
		total += v
	}
	if total == 0 {
		return
	}
	ctr := c.Center()
	size := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < size {
		size = h
	}
	// Leave room for the outer labels.
	r := size / 2 / 1.3

	start := d.Start
	for i, v := range d.Values {
		sweep := 2 * math.Pi * v / total
		mid := start + sweep/2
		cc := ctr.Add(polar(r*vg.Length(d.Explode), mid))

		var p vg.Path
		p.Move(cc.Add(polar(r, start)))
		p.Arc(cc, r, start, sweep)
		p.Line(cc.Add(polar(r*vg.Length(d.Hole), start+sweep)))
		p.Arc(cc, r*vg.Length(d.Hole), start+sweep, -sweep)
		p.Close()
		c.SetColor(d.Colors[i%len(d.Colors)])
		c.Fill(p)

		pct := d.TextStyle
		pct.XAlign, pct.YAlign = text.XCenter, text.YCenter
		c.FillText(pct, cc.Add(polar(r*vg.Length(d.PctDistance), mid)), fmt.Sprintf("%.1f%%", 100*v/total))

		lbl := d.TextStyle
		lbl.YAlign = text.YCenter
		lbl.XAlign = text.XLeft
		if math.Cos(mid) < -1e-9 {
			lbl.XAlign = text.XRight
		} else if math.Abs(math.Cos(mid)) <= 1e-9 {
			lbl.XAlign = text.XCenter
		}
		c.FillText(lbl, cc.Add(polar(r*1.1, mid)), d.Labels[i])

		start += sweep
	}
}

// donutCounts looks both outcome labels up by name. Values other than the two labels are
// returned as extras; a missing label is ErrMissingCategory.
func (s Style) donutCounts(col *dataset.Column) (neg, pos int, extras map[string]int, err error) {
	counts := map[string]int{}
	for _, vc := range col.ValueCounts() {
		counts[dataset.Format(vc.Value)] += vc.Count
	}
	var missing []string
	for _, k := range []string{s.Outcome.Negative, s.Outcome.Positive} {
		if _, ok := counts[k]; !ok {
			missing = append(missing, fmt.Sprintf("%q", k))
		}
	}
	if len(missing) > 0 {
		return 0, 0, nil, fmt.Errorf("%w in column '%s': %s", ErrMissingCategory, col.Name, strings.Join(missing, ", "))
	}
	neg, pos = counts[s.Outcome.Negative], counts[s.Outcome.Positive]
	delete(counts, s.Outcome.Negative)
	delete(counts, s.Outcome.Positive)
	return neg, pos, counts, nil
}

// OutcomeDonut draws the share of negative and positive outcomes as a ring chart.
func (r *Renderer) OutcomeDonut(ds *dataset.Dataset, outcome string) (string, error) {
	col, err := lookup(ds, outcome)
	if err != nil {
		return "", err
	}
	neg, pos, extras, err := r.Style.donutCounts(col)
	if err != nil {
		return "", err
	}
	if len(extras) > 0 {
		r.Log.WithField("values", sortedKeys(extras)).Warn("outcome has values besides the two labels; they are left out of the donut")
	}

	p := r.newPlot(fmt.Sprintf("Distribución de %s", strings.ToUpper(outcome)))
	p.HideAxes()
	sty := p.Title.TextStyle
	sty.Font.Size = vg.Points(12)
	o := r.Style.Outcome
	p.Add(&donut{
		Values:      []float64{float64(neg), float64(pos)},
		Colors:      []color.Color{r.Style.groupColor(0), r.Style.groupColor(1)},
		Labels:      []string{fmt.Sprintf("%s (%d)", o.NegativeDisplay, neg), fmt.Sprintf("%s (%d)", o.PositiveDisplay, pos)},
		Hole:        0.70,
		Explode:     0.05,
		PctDistance: 0.85,
		Start:       math.Pi / 2,
		TextStyle:   sty,
	})
	side := r.Style.Height * 7 / 6
	return r.save(p, "donut_"+outcome, side, side)
}
