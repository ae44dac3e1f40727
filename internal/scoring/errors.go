package scoring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mind-engage/permah/internal/survey"
)

var (
	ErrIncompleteInput   = errors.New("incomplete answer set")
	ErrOutOfRange        = errors.New("answer out of range")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrDuplicateQuestion = errors.New("question answered more than once")
)

// IncompleteInputError lists every question the answer set lacks.
type IncompleteInputError struct {
	Missing []survey.QuestionID
}

func (e *IncompleteInputError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = strconv.Itoa(int(id))
	}
	return fmt.Sprintf("%s: missing question(s) %s", ErrIncompleteInput, strings.Join(ids, ","))
}

func (e *IncompleteInputError) Is(target error) bool { return target == ErrIncompleteInput }

// OutOfRangeError reports a value outside [1,10] or one that is not a whole number.
type OutOfRangeError struct {
	Question survey.QuestionID
	Value    float64
}

func (e *OutOfRangeError) Error() string {
	v := strconv.FormatFloat(e.Value, 'g', -1, 64)
	if e.Value != float64(int64(e.Value)) {
		return fmt.Sprintf("%s: question %d value %s is not an integer", ErrOutOfRange, e.Question, v)
	}
	return fmt.Sprintf("%s: question %d value %s outside [%d,%d]", ErrOutOfRange, e.Question, v, survey.MinScore, survey.MaxScore)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }
