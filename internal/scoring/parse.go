package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mind-engage/permah/internal/survey"
)

// ParseAnswers converts loosely typed input (decoded JSON or YAML, form
// values) into an AnswerSet. Keys are question ids ("5" or "q5"). Values
// must be whole numbers; a fractional or non-numeric value is an
// OutOfRangeError, and two keys naming the same question ("5" and "q5")
// are ErrDuplicateQuestion. Range and completeness are left to Aggregate.
func ParseAnswers(raw map[string]any) (AnswerSet, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := make(map[survey.QuestionID]int, len(raw))
	for _, k := range keys {
		id, err := survey.ParseQuestionID(k)
		if err != nil {
			return AnswerSet{}, fmt.Errorf("%w: %v", ErrUnknownQuestion, err)
		}
		if _, dup := m[id]; dup {
			return AnswerSet{}, fmt.Errorf("%w: question %d", ErrDuplicateQuestion, id)
		}
		v, err := toInt(id, raw[k])
		if err != nil {
			return AnswerSet{}, err
		}
		m[id] = v
	}
	return AnswerSet{m: m}, nil
}

// ParseValues reads q1..q18 from form or query values. Absent fields are
// left out, not defaulted.
func ParseValues(get func(string) string) (AnswerSet, error) {
	raw := map[string]any{}
	for _, id := range survey.IDs() {
		if v := strings.TrimSpace(get(id.FieldName())); v != "" {
			raw[id.FieldName()] = v
		}
	}
	return ParseAnswers(raw)
}

func toInt(id survey.QuestionID, v any) (int, error) {
	var f float64
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		f = t
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, &OutOfRangeError{Question: id, Value: math.NaN()}
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, &OutOfRangeError{Question: id, Value: math.NaN()}
		}
		f = n
	default:
		return 0, &OutOfRangeError{Question: id, Value: math.NaN()}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, &OutOfRangeError{Question: id, Value: f}
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, &OutOfRangeError{Question: id, Value: f}
	}
	return int(f), nil
}
