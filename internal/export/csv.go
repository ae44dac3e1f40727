package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mind-engage/permah/internal/present"
	"github.com/mind-engage/permah/internal/scoring"
)

// CSVHeader is the header row of the scores file.
var CSVHeader = []string{"Category", "Average (1-10)"}

// WriteCSV emits one row per category in display order.
func WriteCSV(w io.Writer, scores []scoring.CategoryScore) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, row := range present.Table(scores) {
		if err := cw.Write([]string{row.Label, row.Average}); err != nil {
			return fmt.Errorf("csv row %s: %w", row.Label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
