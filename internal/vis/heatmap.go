package vis

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// corrGrid exposes a square matrix as a heat map grid with row 0 drawn at the top.
type corrGrid struct {
	m [][]float64
}

func (g corrGrid) Dims() (c, r int) { return len(g.m), len(g.m) }
func (g corrGrid) Z(c, r int) float64 { return g.m[len(g.m)-1-r][c] }
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// CorrelationHeatmap correlates the derived numeric outcome with the base columns of the
// style plus extra, keeping those present in ds. Only the strict lower triangle is drawn.
// ds is not modified.
func (r *Renderer) CorrelationHeatmap(ds *dataset.Dataset, outcome string, extra ...string) (string, error) {
	work := ds.Clone()
	if err := r.Style.deriveTarget(work, outcome); err != nil {
		return "", err
	}
	names := correlationColumns(work, r.Style.HeatmapBase, extra)
	if len(names) < 2 {
		return "", fmt.Errorf("heatmap: need at least two columns, found %v", names)
	}
	m, err := correlate(work, names)
	if err != nil {
		return "", err
	}
	masked := lowerTriangle(m)
	n := len(names)

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: masked}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Transparent

	p := r.newPlot("Factores influyentes en la VENTA")
	p.Add(hm)

	var xys plotter.XYs
	var txt []string
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if math.IsNaN(masked[i][j]) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			txt = append(txt, fmt.Sprintf("%.2f", masked[i][j]))
		}
	}
	if len(xys) > 0 {
		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: txt})
		if err != nil {
			return "", fmt.Errorf("heatmap labels: %w", err)
		}
		for i := range lbl.TextStyle {
			lbl.TextStyle[i].XAlign, lbl.TextStyle[i].YAlign = text.XCenter, text.YCenter
		}
		p.Add(lbl)
	}

	rev := make([]string, n)
	for i, name := range names {
		rev[n-1-i] = name
	}
	p.NominalX(names...)
	p.NominalY(rev...)
	return r.save(p, "correlation_heatmap", r.Style.Width, r.Style.Height*4/3)
}
