package survey

// The catalog is closed: every category owns exactly three consecutive ids.
var prompts = [NumQuestions]string{
	"I have a sense of joy and contentment in my daily life.",
	"I experience positive emotions regularly.",
	"I feel optimistic about my future.",
	"I am deeply interested and engaged in what I do.",
	"I often lose track of time when involved in activities I enjoy.",
	"I feel absorbed in my work or hobbies.",
	"I have strong and supportive relationships.",
	"I feel connected to others.",
	"I have people I can rely on in times of need.",
	"I believe my life has meaning and purpose.",
	"I contribute to something greater than myself.",
	"I feel that what I do in life is valuable.",
	"I set goals and accomplish them.",
	"I feel a sense of achievement from my efforts.",
	"I am proud of what I have accomplished.",
	"I take care of my physical health.",
	"I have healthy habits (e.g., exercise, sleep, nutrition).",
	"I feel energetic and physically well.",
}

const perCategory = NumQuestions / numCategories

var catalog = func() [NumQuestions]Question {
	var out [NumQuestions]Question
	for i, p := range prompts {
		out[i] = Question{
			ID:       QuestionID(i + 1),
			Category: Category(i / perCategory),
			Prompt:   p,
			Default:  DefaultScore,
			Min:      MinScore,
			Max:      MaxScore,
		}
	}
	return out
}()

// Categories returns the six categories in display order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// QuestionsFor returns the three statements scored under c. An invalid
// category yields the zero array.
func QuestionsFor(c Category) [3]Question {
	var out [3]Question
	if !c.Valid() {
		return out
	}
	copy(out[:], catalog[int(c)*perCategory:(int(c)+1)*perCategory])
	return out
}

// IDsFor is QuestionsFor reduced to ids.
func IDsFor(c Category) [3]QuestionID {
	var out [3]QuestionID
	for i, q := range QuestionsFor(c) {
		out[i] = q.ID
	}
	return out
}

// DefaultOf is the starting value of a slider.
func DefaultOf(id QuestionID) int {
	return DefaultScore
}

// Questions returns all statements ordered by id.
func Questions() []Question {
	out := make([]Question, NumQuestions)
	copy(out, catalog[:])
	return out
}

func Lookup(id QuestionID) (Question, bool) {
	if !id.Valid() {
		return Question{}, false
	}
	return catalog[id-1], true
}

// IDs returns 1..18.
func IDs() []QuestionID {
	out := make([]QuestionID, NumQuestions)
	for i := range out {
		out[i] = QuestionID(i + 1)
	}
	return out
}
