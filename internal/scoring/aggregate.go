package scoring

import (
	"math"

	"github.com/mind-engage/permah/internal/survey"
)

// CategoryScore is the mean of one category's three answers.
type CategoryScore struct {
	Category survey.Category `json:"category"`
	Average  float64         `json:"average"`
}

// Aggregate averages each category in display order. The answer set must
// cover every question with an integer in [1,10]; anything else is rejected
// as a whole, without clamping or partial results.
func Aggregate(a AnswerSet) ([]CategoryScore, error) {
	if err := Validate(a); err != nil {
		return nil, err
	}
	cats := survey.Categories()
	out := make([]CategoryScore, 0, len(cats))
	for _, c := range cats {
		ids := survey.IDsFor(c)
		sum := 0
		for _, id := range ids {
			sum += a.m[id]
		}
		out = append(out, CategoryScore{Category: c, Average: float64(sum) / float64(len(ids))})
	}
	return out, nil
}

// Validate checks completeness first, then range.
func Validate(a AnswerSet) error {
	var missing []survey.QuestionID
	for _, id := range survey.IDs() {
		if _, ok := a.m[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &IncompleteInputError{Missing: missing}
	}
	for _, id := range survey.IDs() {
		if err := CheckValue(id, a.m[id]); err != nil {
			return err
		}
	}
	return nil
}

// CheckValue validates a single answer.
func CheckValue(id survey.QuestionID, v int) error {
	q, ok := survey.Lookup(id)
	if !ok {
		return ErrUnknownQuestion
	}
	if !q.InRange(v) {
		return &OutOfRangeError{Question: id, Value: float64(v)}
	}
	return nil
}

// Overall is the unweighted mean of the category averages.
func Overall(scores []CategoryScore) float64 {
	if len(scores) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, s := range scores {
		sum += s.Average
	}
	return sum / float64(len(scores))
}

// Lowest returns the category with the smallest average; ties go to the
// earlier category in display order.
func Lowest(scores []CategoryScore) (CategoryScore, bool) {
	if len(scores) == 0 {
		return CategoryScore{}, false
	}
	low := scores[0]
	for _, s := range scores[1:] {
		if s.Average < low.Average {
			low = s
		}
	}
	return low, true
}
