package present

import (
	"math"
	"strconv"

	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/survey"
)

const (
	// ScaleMax is the outer ring of the radar and the end of every bar track.
	ScaleMax = 10.0
	ScaleMin = 0.0
)

// GridLevels are the radial gridlines drawn on the radar.
var GridLevels = []float64{2, 4, 6, 8, 10}

// RadarPoint is one vertex of the radar polygon. Angle is in radians,
// measured from the first category and increasing clockwise.
type RadarPoint struct {
	Category survey.Category `json:"category"`
	Label    string          `json:"label"`
	Angle    float64         `json:"angle"`
	Value    float64         `json:"value"`
}

// RadarSeries returns the closed polygon: one vertex per score plus a copy
// of the first vertex at the end.
func RadarSeries(scores []scoring.CategoryScore) []RadarPoint {
	if len(scores) == 0 {
		return nil
	}
	n := float64(len(scores))
	out := make([]RadarPoint, 0, len(scores)+1)
	for i, s := range scores {
		out = append(out, RadarPoint{
			Category: s.Category,
			Label:    s.Category.RadarLabel(),
			Angle:    2 * math.Pi * float64(i) / n,
			Value:    s.Average,
		})
	}
	return append(out, out[0])
}

// ScreenAngle converts a radar angle to the standard math frame
// (counter-clockwise from the positive x axis) so that angle 0 lands at
// the top and increasing angles run clockwise.
func ScreenAngle(theta float64) float64 {
	return math.Pi/2 - theta
}

// Polar projects a radar point onto a canvas centred at (cx, cy) whose
// outer ring has the given radius. Canvas y grows downwards.
func Polar(cx, cy, radius, theta, value float64) (x, y float64) {
	r := radius * clamp(value, ScaleMin, ScaleMax) / ScaleMax
	a := ScreenAngle(theta)
	return cx + r*math.Cos(a), cy - r*math.Sin(a)
}

// Bar is one row of the horizontal bar view.
type Bar struct {
	Category survey.Category `json:"category"`
	Label    string          `json:"label"`
	Value    float64         `json:"value"`
	TrackMax float64         `json:"track_max"`
}

// BarSeries keeps score order and labels each bar with the short name.
func BarSeries(scores []scoring.CategoryScore) []Bar {
	out := make([]Bar, len(scores))
	for i, s := range scores {
		out[i] = Bar{
			Category: s.Category,
			Label:    s.Category.ShortName(),
			Value:    s.Average,
			TrackMax: ScaleMax,
		}
	}
	return out
}

// FormatBarValue is the badge text printed after a bar.
func FormatBarValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Row is one line of the score table.
type Row struct {
	Category survey.Category `json:"-"`
	Label    string          `json:"category"`
	Average  string          `json:"average"`
	Band     scoring.Band    `json:"band"`
}

// Table renders each average to exactly two decimals.
func Table(scores []scoring.CategoryScore) []Row {
	out := make([]Row, len(scores))
	for i, s := range scores {
		out[i] = Row{
			Category: s.Category,
			Label:    s.Category.DisplayName(),
			Average:  FormatAverage(s.Average),
			Band:     scoring.BandOf(s.Average),
		}
	}
	return out
}

func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
