// Package charts renders labeled numeric points into standalone SVG bar
// and line charts. It is stateless and has no dependency on the data
// store.
package charts

import (
	"fmt"
	"html"
	"strings"
)

// Point is one labeled value on a chart.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Options controls chart geometry and decoration.
type Options struct {
	Title      string
	YAxisLabel string
	Width      int
	Height     int
	ShowGrid   bool
}

// Palette shared by both chart kinds.
const (
	colorBar   = "rgba(102, 126, 234, 0.8)"
	colorLine  = "#667eea"
	colorText  = "#2c3e50"
	colorGrid  = "#e1e1e1"
	colorAxis  = "#2c3e50"
	tickCount  = 5
	marginTop  = 40
	marginSide = 60
	marginBot  = 60
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	return o
}

// BarChart renders one vertical bar per point.
func BarChart(points []Point, opts Options) string {
	opts = opts.withDefaults()
	w, h := opts.Width, opts.Height
	plotW := float64(w - 2*marginSide)
	plotH := float64(h - marginTop - marginBot)
	max := maxValue(points)

	var b strings.Builder
	openSVG(&b, opts)

	slot := plotW / float64(maxInt(len(points), 1))
	barW := slot * 0.8
	for i, p := range points {
		barH := 0.0
		if max > 0 {
			barH = p.Value / max * plotH
		}
		x := float64(marginSide) + float64(i)*slot + slot*0.1
		y := float64(marginTop) + plotH - barH
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			x, y, barW, barH, colorBar)
		writeValueLabel(&b, x+barW/2, y-5, p.Value)
		writeXLabel(&b, x+barW/2, float64(marginTop)+plotH+18, p.Label)
	}

	closeSVG(&b)
	return b.String()
}

// LineChart renders the points as a polyline with circle markers.
func LineChart(points []Point, opts Options) string {
	opts = opts.withDefaults()
	w, h := opts.Width, opts.Height
	plotW := float64(w - 2*marginSide)
	plotH := float64(h - marginTop - marginBot)
	max := maxValue(points)

	var b strings.Builder
	openSVG(&b, opts)

	var coords []string
	for i, p := range points {
		x := float64(marginSide)
		if len(points) > 1 {
			x += float64(i) / float64(len(points)-1) * plotW
		}
		y := float64(marginTop) + plotH
		if max > 0 {
			y -= p.Value / max * plotH
		}
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", x, y))
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`, x, y, colorLine)
		writeXLabel(&b, x, float64(marginTop)+plotH+18, p.Label)
	}
	if len(coords) > 1 {
		fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`,
			strings.Join(coords, " "), colorLine)
	}

	closeSVG(&b)
	return b.String()
}

func openSVG(b *strings.Builder, opts Options) {
	w, h := opts.Width, opts.Height
	plotH := float64(h - marginTop - marginBot)
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="100%%" height="100%%" style="background-color:#ffffff">`, w, h)

	if opts.Title != "" {
		fmt.Fprintf(b, `<text x="%d" y="24" text-anchor="middle" font-size="16" fill="%s">%s</text>`,
			w/2, colorText, html.EscapeString(opts.Title))
	}
	if opts.YAxisLabel != "" {
		fmt.Fprintf(b, `<text x="16" y="%d" text-anchor="middle" font-size="12" fill="%s" transform="rotate(-90 16 %d)">%s</text>`,
			h/2, colorText, h/2, html.EscapeString(opts.YAxisLabel))
	}

	if opts.ShowGrid {
		for i := 0; i <= tickCount; i++ {
			y := float64(marginTop) + plotH - plotH*float64(i)/tickCount
			fmt.Fprintf(b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="1"/>`,
				marginSide, y, w-marginSide, y, colorGrid)
		}
	}

	// Axes
	fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%.1f" stroke="%s" stroke-width="1"/>`,
		marginSide, marginTop, marginSide, float64(marginTop)+plotH, colorAxis)
	fmt.Fprintf(b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="1"/>`,
		marginSide, float64(marginTop)+plotH, w-marginSide, float64(marginTop)+plotH, colorAxis)
}

func closeSVG(b *strings.Builder) {
	b.WriteString("</svg>")
}

func writeValueLabel(b *strings.Builder, x, y, value float64) {
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" fill="%s">%s</text>`,
		x, y, colorText, trimFloat(value))
}

func writeXLabel(b *strings.Builder, x, y float64, label string) {
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" fill="%s">%s</text>`,
		x, y, colorText, html.EscapeString(label))
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

func maxValue(points []Point) float64 {
	max := 0.0
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
