// Package vis renders exploratory charts of a campaign dataset split by a binary outcome.
//
// All appearance settings travel in a Style handed to NewRenderer; rendering functions keep
// no package-level state. Every chart is written to one image file whose path is returned.
package vis

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/datalens-cli/internal/console"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
)

// TargetColumn is the numeric outcome column the heatmap derives.
const TargetColumn = "target_sale"

// ErrMissingCategory is returned when an expected outcome label is absent from the data.
var ErrMissingCategory = errors.New("outcome category not found")

// OutcomeLabels names the two outcome values and how they are displayed.
type OutcomeLabels struct {
	Negative        string
	Positive        string
	NegativeDisplay string
	PositiveDisplay string
}

// Style holds every appearance setting of the renderer.
type Style struct {
	// Palette colors the negative and positive outcome, in that order.
	Palette [2]color.Color
	Width   vg.Length
	Height  vg.Length
	// Format is the image format and file extension: png, svg or pdf.
	Format    string
	TitleSize vg.Length
	Outcome   OutcomeLabels
	// MonthOrder is the canonical month sequence of the seasonal chart.
	MonthOrder []string
	// HeatmapBase are the columns always considered by the correlation heatmap.
	HeatmapBase []string
}

// DefaultStyle returns the red/blue 10x6 inch style.
func DefaultStyle() Style {
	return Style{
		Palette:   [2]color.Color{MustHex("#e74c3c"), MustHex("#3498db")},
		Width:     10 * vg.Inch,
		Height:    6 * vg.Inch,
		Format:    "png",
		TitleSize: vg.Points(16),
		Outcome: OutcomeLabels{
			Negative:        "no",
			Positive:        "yes",
			NegativeDisplay: "No",
			PositiveDisplay: "Sí",
		},
		MonthOrder:  []string{"mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"},
		HeatmapBase: []string{TargetColumn, "income", "age", "euribor3m", "campaign", "pdays"},
	}
}

// ParseHex reads a "#rrggbb" or "#rgb" color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHex is ParseHex for constants.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// groupColor colors the i-th outcome group; groups past the palette use plotutil's.
func (s Style) groupColor(i int) color.Color {
	if i < len(s.Palette) && s.Palette[i] != nil {
		return s.Palette[i]
	}
	return plotutil.Color(i)
}

// Renderer draws charts with a fixed Style into OutDir.
type Renderer struct {
	Style  Style
	OutDir string
	Log    *logrus.Logger
}

// NewRenderer returns a renderer writing image files under outDir.
func NewRenderer(style Style, outDir string) *Renderer {
	if style.Format == "" {
		style.Format = "png"
	}
	return &Renderer{Style: style, OutDir: outDir, Log: console.Quiet()}
}

func (r *Renderer) newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	if r.Style.TitleSize > 0 {
		p.Title.TextStyle.Font.Size = r.Style.TitleSize
	}
	p.Title.Padding = vg.Points(8)
	return p
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// save writes p to OutDir/<name>.<format> and returns the path.
func (r *Renderer) save(p *plot.Plot, name string, w, h vg.Length) (string, error) {
	if err := utils.EnsureDir(r.OutDir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name = strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(name), "_"), "_")
	path := filepath.Join(r.OutDir, name+"."+strings.ToLower(r.Style.Format))
	if err := p.Save(w, h, path); err != nil {
		return "", fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	r.Log.WithFields(logrus.Fields{"chart": name, "path": path}).Debug("chart written")
	return path, nil
}
