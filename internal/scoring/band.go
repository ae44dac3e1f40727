package scoring

// Band is the coarse interpretation shown next to the averages.
type Band string

const (
	BandHigh     Band = "high"
	BandModerate Band = "moderate"
	BandLow      Band = "low"
)

// BandOf classifies an average: 8-10 high, 5-7 moderate, 1-4 low.
// Averages between the integer bands fall to the lower one.
func BandOf(avg float64) Band {
	switch {
	case avg >= 8:
		return BandHigh
	case avg >= 5:
		return BandModerate
	default:
		return BandLow
	}
}

func (b Band) Description() string {
	switch b {
	case BandHigh:
		return "High well-being"
	case BandModerate:
		return "Moderate; potential to grow"
	case BandLow:
		return "Low; consider focusing here"
	}
	return ""
}
