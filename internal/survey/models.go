package survey

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is one of the six PERMA-H dimensions. The declaration order is
// the display order used by every view.
type Category int

const (
	PositiveEmotion Category = iota
	Engagement
	Relationships
	Meaning
	Accomplishment
	Health

	numCategories = 6
)

type categoryInfo struct {
	letter   string
	name     string
	subtitle string
}

var categoryTable = [numCategories]categoryInfo{
	PositiveEmotion: {"P", "Positive Emotion", "Enjoyment, happiness"},
	Engagement:      {"E", "Engagement", "Absorption in activities"},
	Relationships:   {"R", "Relationships", "Social connections"},
	Meaning:         {"M", "Meaning", "Purpose in life"},
	Accomplishment:  {"A", "Accomplishment", "Achievements, success"},
	Health:          {"H", "Health", "Physical and mental well-being"},
}

func (c Category) Valid() bool { return c >= 0 && c < numCategories }

// Letter is the single-letter PERMA-H code ("P").
func (c Category) Letter() string { return c.info().letter }

// ShortName is the plain dimension name ("Positive Emotion").
func (c Category) ShortName() string { return c.info().name }

// Subtitle is the one-line description shown under the radar axis label.
func (c Category) Subtitle() string { return c.info().subtitle }

// DisplayName is the heading form ("Positive Emotion (P)").
func (c Category) DisplayName() string {
	return fmt.Sprintf("%s (%s)", c.ShortName(), c.Letter())
}

// RadarLabel is the two-line axis label ("P (Positive Emotion)\nEnjoyment, happiness").
func (c Category) RadarLabel() string {
	return fmt.Sprintf("%s (%s)\n%s", c.Letter(), c.ShortName(), c.Subtitle())
}

// Key is the stable machine identifier ("positive_emotion").
func (c Category) Key() string {
	return strings.ReplaceAll(strings.ToLower(c.ShortName()), " ", "_")
}

func (c Category) String() string {
	if !c.Valid() {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return c.ShortName()
}

func (c Category) info() categoryInfo {
	if !c.Valid() {
		return categoryInfo{}
	}
	return categoryTable[c]
}

// MarshalText encodes the category by its Key.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.Key()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCategory accepts the key, short name, display name or letter,
// case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, c.Key()) ||
			strings.EqualFold(s, c.ShortName()) ||
			strings.EqualFold(s, c.DisplayName()) ||
			strings.EqualFold(s, c.Letter()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// QuestionID identifies one of the 18 statements, 1..18.
type QuestionID int

const (
	FirstQuestion QuestionID = 1
	LastQuestion  QuestionID = 18
	NumQuestions             = int(LastQuestion)
)

const (
	MinScore     = 1
	MaxScore     = 10
	DefaultScore = 5
)

func (id QuestionID) Valid() bool { return id >= FirstQuestion && id <= LastQuestion }

// FieldName is the form/query field for the question ("q5").
func (id QuestionID) FieldName() string { return "q" + strconv.Itoa(int(id)) }

func (id QuestionID) String() string { return "Q" + strconv.Itoa(int(id)) }

// ParseQuestionID accepts "5", "q5" or "Q5".
func ParseQuestionID(s string) (QuestionID, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "q"), "Q")
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("invalid question id %q", s)
	}
	id := QuestionID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("question id %d out of range %d..%d", n, FirstQuestion, LastQuestion)
	}
	return id, nil
}

type Question struct {
	ID       QuestionID `json:"id"`
	Category Category   `json:"category"`
	Prompt   string     `json:"prompt"`
	Default  int        `json:"default"`
	Min      int        `json:"min"`
	Max      int        `json:"max"`
}

// InRange reports whether v is an acceptable answer for the question.
func (q Question) InRange(v int) bool { return v >= q.Min && v <= q.Max }
