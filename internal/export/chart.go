package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mind-engage/permah/internal/present"
	"github.com/mind-engage/permah/internal/scoring"
)

const (
	RadarFileName = "permah_radar.png"
	BarsFileName  = "permah_bars.png"
	CSVFileName   = "permah_scores.csv"
)

// Palette holds the brand colours.
type Palette struct {
	Primary    drawing.Color
	Accent     drawing.Color
	Light      drawing.Color
	Mid        drawing.Color
	Background drawing.Color
}

var DefaultPalette = Palette{
	Primary:    drawing.ColorFromHex("0B3D61"),
	Accent:     drawing.ColorFromHex("0099B8"),
	Light:      drawing.ColorFromHex("E9F4F9"),
	Mid:        drawing.ColorFromHex("A9C7D8"),
	Background: drawing.ColorWhite,
}

type Options struct {
	Width   int
	Height  int
	Title   string
	Palette Palette
}

func (o Options) withDefaults(w, h int, title string) Options {
	if o.Width <= 0 {
		o.Width = w
	}
	if o.Height <= 0 {
		o.Height = h
	}
	if o.Title == "" {
		o.Title = title
	}
	if o.Palette == (Palette{}) {
		o.Palette = DefaultPalette
	}
	return o
}

const radarTitle = "PERMA-H Well-Being Wheel"

// RenderRadarPNG draws the radar chart and encodes it as PNG.
func RenderRadarPNG(w io.Writer, scores []scoring.CategoryScore, opts Options) error {
	return renderRadar(chart.PNG, w, scores, opts)
}

// RenderRadarSVG draws the same chart as RenderRadarPNG in SVG.
func RenderRadarSVG(w io.Writer, scores []scoring.CategoryScore, opts Options) error {
	return renderRadar(chart.SVG, w, scores, opts)
}

// RenderBarsPNG draws the horizontal bar view.
func RenderBarsPNG(w io.Writer, scores []scoring.CategoryScore, opts Options) error {
	return renderBars(chart.PNG, w, scores, opts)
}

func RenderBarsSVG(w io.Writer, scores []scoring.CategoryScore, opts Options) error {
	return renderBars(chart.SVG, w, scores, opts)
}

func newRenderer(provider chart.RendererProvider, width, height int) (chart.Renderer, error) {
	r, err := provider(width, height)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	r.SetFont(font)
	return r, nil
}

func renderRadar(provider chart.RendererProvider, w io.Writer, scores []scoring.CategoryScore, opts Options) error {
	if len(scores) < 3 {
		return fmt.Errorf("radar needs at least 3 categories, got %d", len(scores))
	}
	opts = opts.withDefaults(800, 800, radarTitle)
	pal := opts.Palette
	r, err := newRenderer(provider, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	fillRect(r, pal.Background, 0, 0, opts.Width, opts.Height)

	size := float64(min(opts.Width, opts.Height))
	titleSize := size / 50
	labelSize := size / 72
	cx := float64(opts.Width) / 2
	cy := float64(opts.Height)/2 + titleSize
	radius := size * 0.30

	pts := present.RadarSeries(scores)
	axes := pts[:len(pts)-1]

	// Dashed rings.
	r.SetStrokeColor(pal.Primary.WithAlpha(100))
	r.SetStrokeWidth(1)
	r.SetStrokeDashArray([]float64{4, 4})
	for _, level := range present.GridLevels {
		ringCircle(r, cx, cy, radius, level)
	}
	// Spokes.
	for _, p := range axes {
		x, y := present.Polar(cx, cy, radius, p.Angle, present.ScaleMax)
		r.MoveTo(px(cx), px(cy))
		r.LineTo(px(x), px(y))
		r.Stroke()
	}
	r.SetStrokeDashArray(nil)

	// Polygon.
	r.SetFillColor(pal.Accent.WithAlpha(90))
	r.SetStrokeColor(pal.Primary)
	r.SetStrokeWidth(size / 320)
	for i, p := range pts {
		x, y := present.Polar(cx, cy, radius, p.Angle, p.Value)
		if i == 0 {
			r.MoveTo(px(x), px(y))
			continue
		}
		r.LineTo(px(x), px(y))
	}
	r.Close()
	r.FillStroke()

	// Radial tick labels along the first spoke.
	r.SetFontColor(pal.Primary)
	r.SetFontSize(labelSize * 0.9)
	for _, level := range present.GridLevels {
		x, y := present.Polar(cx, cy, radius, 0, level)
		r.Text(fmt.Sprintf("%g", level), px(x)+4, px(y)-2)
	}

	// Axis labels.
	r.SetFontSize(labelSize)
	for _, p := range axes {
		x, y := present.Polar(cx, cy, radius+labelSize*2.2, p.Angle, present.ScaleMax)
		drawLabel(r, p.Label, x, y, cx, cy, labelSize)
	}

	r.SetFontSize(titleSize)
	tb := r.MeasureText(opts.Title)
	r.Text(opts.Title, px(cx)-tb.Width()/2, px(titleSize*2))

	return r.Save(w)
}

// ringCircle strokes one gridline ring as a polygon fine enough to read as a circle.
func ringCircle(r chart.Renderer, cx, cy, radius, level float64) {
	const steps = 72
	for i := 0; i <= steps; i++ {
		x, y := present.Polar(cx, cy, radius, circleAngle(i, steps), level)
		if i == 0 {
			r.MoveTo(px(x), px(y))
		} else {
			r.LineTo(px(x), px(y))
		}
	}
	r.Stroke()
}

func circleAngle(i, steps int) float64 { return 2 * math.Pi * float64(i) / float64(steps) }

// drawLabel writes a possibly multi-line label anchored away from the centre.
func drawLabel(r chart.Renderer, label string, x, y, cx, cy, fontSize float64) {
	lines := strings.Split(label, "\n")
	lineHeight := fontSize * 1.3
	blockHeight := lineHeight * float64(len(lines))

	top := y - blockHeight/2 + lineHeight*0.8
	switch {
	case y < cy-1:
		top = y - blockHeight + lineHeight*0.8
	case y > cy+1:
		top = y + lineHeight*0.8
	}
	for i, line := range lines {
		b := r.MeasureText(line)
		var left float64
		switch {
		case x > cx+1:
			left = x
		case x < cx-1:
			left = x - float64(b.Width())
		default:
			left = x - float64(b.Width())/2
		}
		r.Text(line, px(left), px(top+lineHeight*float64(i)))
	}
}

func renderBars(provider chart.RendererProvider, w io.Writer, scores []scoring.CategoryScore, opts Options) error {
	opts = opts.withDefaults(660, 420, "Category Averages")
	pal := opts.Palette
	r, err := newRenderer(provider, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	fillRect(r, pal.Background, 0, 0, opts.Width, opts.Height)

	bars := present.BarSeries(scores)
	fontSize := float64(opts.Height) / 30
	titleHeight := fontSize * 3

	r.SetFontColor(pal.Primary)
	r.SetFontSize(fontSize * 1.2)
	r.Text(opts.Title, px(fontSize), px(fontSize*2))

	r.SetFontSize(fontSize)
	labelWidth := 0
	for _, b := range bars {
		labelWidth = max(labelWidth, r.MeasureText(b.Label).Width())
	}
	left := fontSize + float64(labelWidth) + fontSize
	badge := fontSize * 3.5
	trackWidth := float64(opts.Width) - left - badge
	if trackWidth <= 0 || len(bars) == 0 {
		return r.Save(w)
	}
	slot := (float64(opts.Height) - titleHeight - fontSize) / float64(len(bars))
	barHeight := slot * 0.5

	for i, b := range bars {
		mid := titleHeight + slot*float64(i) + slot/2
		top := mid - barHeight/2
		fillRect(r, pal.Light, px(left), px(top), px(left+trackWidth), px(top+barHeight))
		end := left + trackWidth*math.Max(0, math.Min(b.Value, b.TrackMax))/b.TrackMax
		fillRect(r, pal.Accent, px(left), px(top), px(end), px(top+barHeight))

		r.SetFontColor(pal.Primary)
		r.SetFontSize(fontSize)
		lb := r.MeasureText(b.Label)
		r.Text(b.Label, px(left-fontSize)-lb.Width(), px(mid+float64(lb.Height())/2))

		v := present.FormatBarValue(b.Value)
		r.SetFontSize(fontSize * 1.15)
		vb := r.MeasureText(v)
		r.Text(v, px(end+trackWidth*0.025), px(mid+float64(vb.Height())/2))
	}
	return r.Save(w)
}

func fillRect(r chart.Renderer, c drawing.Color, x0, y0, x1, y1 int) {
	r.SetFillColor(c)
	r.SetStrokeColor(drawing.ColorTransparent)
	r.SetStrokeWidth(0)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}

func px(v float64) int { return int(math.Round(v)) }
