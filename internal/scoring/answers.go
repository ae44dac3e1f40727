package scoring

import (
	"encoding/json"
	"maps"

	"github.com/mind-engage/permah/internal/survey"
)

// AnswerSet maps question ids to scores. It is a value: edits return a new
// set and never touch the receiver, so a set handed to Aggregate cannot
// change underneath it.
type AnswerSet struct {
	m map[survey.QuestionID]int
}

// NewAnswerSet copies m. Validation happens in Aggregate.
func NewAnswerSet(m map[survey.QuestionID]int) AnswerSet {
	return AnswerSet{m: maps.Clone(m)}
}

// DefaultAnswers is the form's initial state: every question at its default.
func DefaultAnswers() AnswerSet {
	m := make(map[survey.QuestionID]int, survey.NumQuestions)
	for _, q := range survey.Questions() {
		m[q.ID] = survey.DefaultOf(q.ID)
	}
	return AnswerSet{m: m}
}

// Uniform sets every question to v.
func Uniform(v int) AnswerSet {
	m := make(map[survey.QuestionID]int, survey.NumQuestions)
	for _, id := range survey.IDs() {
		m[id] = v
	}
	return AnswerSet{m: m}
}

// With returns a copy of a with id set to v.
func (a AnswerSet) With(id survey.QuestionID, v int) AnswerSet {
	m := make(map[survey.QuestionID]int, len(a.m)+1)
	maps.Copy(m, a.m)
	m[id] = v
	return AnswerSet{m: m}
}

// Without returns a copy of a lacking id.
func (a AnswerSet) Without(id survey.QuestionID) AnswerSet {
	m := maps.Clone(a.m)
	delete(m, id)
	return AnswerSet{m: m}
}

func (a AnswerSet) Get(id survey.QuestionID) (int, bool) {
	v, ok := a.m[id]
	return v, ok
}

func (a AnswerSet) Len() int { return len(a.m) }

// Map returns a copy of the underlying answers.
func (a AnswerSet) Map() map[survey.QuestionID]int {
	out := maps.Clone(a.m)
	if out == nil {
		out = map[survey.QuestionID]int{}
	}
	return out
}

// Equal reports whether both sets hold the same answers.
func (a AnswerSet) Equal(b AnswerSet) bool { return maps.Equal(a.m, b.m) }

func (a AnswerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Map())
}

func (a *AnswerSet) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseAnswers(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
