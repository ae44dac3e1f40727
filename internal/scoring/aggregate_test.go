package scoring

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/permah/internal/survey"
)

func averages(t *testing.T, a AnswerSet) []float64 {
	t.Helper()
	scores, err := Aggregate(a)
	require.NoError(t, err)
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = s.Average
	}
	return out
}

func TestAggregateDefaults(t *testing.T) {
	scores, err := Aggregate(DefaultAnswers())
	require.NoError(t, err)
	require.Len(t, scores, 6)
	for i, s := range scores {
		assert.Equal(t, survey.Categories()[i], s.Category)
		assert.Equal(t, 5.0, s.Average)
	}
}

func TestAggregateExtremes(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, averages(t, Uniform(1)))
	assert.Equal(t, []float64{10, 10, 10, 10, 10, 10}, averages(t, Uniform(10)))
}

func TestAggregateWorkedExample(t *testing.T) {
	a := DefaultAnswers().
		With(1, 3).With(2, 6).With(3, 9).
		With(4, 1).With(5, 1).With(6, 1)
	want := []float64{6, 1, 5, 5, 5, 5}
	if diff := cmp.Diff(want, averages(t, a)); diff != "" {
		t.Fatalf("averages (-want +got):\n%s", diff)
	}
}

func TestAggregateIsNotRounded(t *testing.T) {
	a := DefaultAnswers().With(10, 6).With(11, 7).With(12, 6)
	got := averages(t, a)
	assert.InDelta(t, 19.0/3.0, got[survey.Meaning], 1e-12)
	assert.NotEqual(t, 6.33, got[survey.Meaning])
}

func TestAggregateDeterministic(t *testing.T) {
	a := DefaultAnswers().With(7, 2).With(16, 9)
	first, err := Aggregate(a)
	require.NoError(t, err)
	second, err := Aggregate(a)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSingleEditOnlyMovesItsCategory(t *testing.T) {
	base := averages(t, DefaultAnswers())
	for _, q := range survey.Questions() {
		for _, v := range []int{1, 10} {
			got := averages(t, DefaultAnswers().With(q.ID, v))
			for i, c := range survey.Categories() {
				if c == q.Category {
					assert.NotEqual(t, base[i], got[i], "question %d", q.ID)
				} else {
					assert.Equal(t, base[i], got[i], "question %d moved %s", q.ID, c)
				}
			}
		}
	}
}

func TestAveragesStayInRange(t *testing.T) {
	// Walk a spread of valid sets: each question cycles through the scale.
	for shift := 0; shift < 10; shift++ {
		a := AnswerSet{}
		for _, id := range survey.IDs() {
			a = a.With(id, (int(id)*7+shift)%10+1)
		}
		for _, avg := range averages(t, a) {
			assert.GreaterOrEqual(t, avg, 1.0)
			assert.LessOrEqual(t, avg, 10.0)
		}
	}
}

func TestAggregateMissingQuestion(t *testing.T) {
	_, err := Aggregate(DefaultAnswers().Without(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteInput))
	assert.False(t, errors.Is(err, ErrOutOfRange))

	var inc *IncompleteInputError
	require.True(t, errors.As(err, &inc))
	assert.Equal(t, []survey.QuestionID{5}, inc.Missing)
}

func TestAggregateEmptySetListsAllMissing(t *testing.T) {
	_, err := Aggregate(AnswerSet{})
	var inc *IncompleteInputError
	require.True(t, errors.As(err, &inc))
	assert.Len(t, inc.Missing, survey.NumQuestions)
}

func TestAggregateOutOfRange(t *testing.T) {
	for _, v := range []int{0, 11, -3} {
		_, err := Aggregate(DefaultAnswers().With(5, v))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOutOfRange), "value %d", v)

		var oor *OutOfRangeError
		require.True(t, errors.As(err, &oor))
		assert.Equal(t, survey.QuestionID(5), oor.Question)
		assert.Equal(t, float64(v), oor.Value)
	}
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	a := DefaultAnswers()
	b := a.With(3, 9)
	v, _ := a.Get(3)
	assert.Equal(t, 5, v)
	v, _ = b.Get(3)
	assert.Equal(t, 9, v)

	m := b.Map()
	m[3] = 1
	v, _ = b.Get(3)
	assert.Equal(t, 9, v)
}

func TestParseAnswers(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"1":3,"q2":"6","Q3":9.0}`), &raw))
	a, err := ParseAnswers(raw)
	require.NoError(t, err)
	assert.Equal(t, map[survey.QuestionID]int{1: 3, 2: 6, 3: 9}, a.Map())

	_, err = ParseAnswers(map[string]any{"5": 5.5})
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = ParseAnswers(map[string]any{"5": "high"})
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = ParseAnswers(map[string]any{"19": 5})
	assert.True(t, errors.Is(err, ErrUnknownQuestion))
}

func TestParseAnswersRejectsSameQuestionTwice(t *testing.T) {
	for _, raw := range []map[string]any{
		{"5": 5, "q5": 7},
		{"q5": 5, "Q5": 5},
		{" 5": 5, "5": 5},
	} {
		_, err := ParseAnswers(raw)
		require.Error(t, err, "%v", raw)
		assert.True(t, errors.Is(err, ErrDuplicateQuestion), "%v", raw)
		assert.Contains(t, err.Error(), "question 5")
	}
}

func TestAnswerSetJSONRoundTrip(t *testing.T) {
	a := DefaultAnswers().With(4, 8)
	b, err := json.Marshal(a)
	require.NoError(t, err)

	var back AnswerSet
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, a.Equal(back))
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, BandHigh, BandOf(10))
	assert.Equal(t, BandHigh, BandOf(8))
	assert.Equal(t, BandModerate, BandOf(7.99))
	assert.Equal(t, BandModerate, BandOf(5))
	assert.Equal(t, BandLow, BandOf(4.67))
	assert.Equal(t, "Low; consider focusing here", BandLow.Description())
}

func TestOverallAndLowest(t *testing.T) {
	scores, err := Aggregate(DefaultAnswers().With(16, 1).With(17, 1).With(18, 1))
	require.NoError(t, err)
	low, ok := Lowest(scores)
	require.True(t, ok)
	assert.Equal(t, survey.Health, low.Category)
	assert.InDelta(t, (5.0*5+1)/6, Overall(scores), 1e-12)
}
