package template

// QuestionType identifies which answers a question accepts.
type QuestionType string

const (
	// Binary questions accept yes or no.
	Binary QuestionType = "binary"
	// BinaryOrNA questions additionally accept not applicable.
	BinaryOrNA QuestionType = "binary_or_na"
)

// Question is a single weighted compliance check within an area.
type Question struct {
	ID            string       `json:"id" yaml:"id"`
	Text          string       `json:"text" yaml:"text"`
	Type          QuestionType `json:"type" yaml:"type"`
	Required      bool         `json:"required" yaml:"required"`
	Weight        float64      `json:"weight" yaml:"weight"`
	RequiresPhoto bool         `json:"requires_photo" yaml:"requires_photo"`
}

// AllowsNA reports whether the question may be answered not applicable.
func (q Question) AllowsNA() bool {
	return q.Type == BinaryOrNA
}

// Area groups related questions under a single weight.
type Area struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Weight    float64    `json:"weight" yaml:"weight"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Template is the ordered set of areas an evaluation walks through.
type Template struct {
	Version          int     `json:"version" yaml:"version"`
	Name             string  `json:"name" yaml:"name"`
	PassingThreshold float64 `json:"passing_threshold" yaml:"passing_threshold"`
	Areas            []Area  `json:"areas" yaml:"areas"`
}

// AreaCount returns the number of areas.
func (t Template) AreaCount() int {
	return len(t.Areas)
}

// Area returns the area at index and whether it exists.
func (t Template) Area(index int) (Area, bool) {
	if index < 0 || index >= len(t.Areas) {
		return Area{}, false
	}
	return t.Areas[index], true
}

// Question finds a question by id across all areas.
func (t Template) Question(id string) (Question, bool) {
	for _, area := range t.Areas {
		for _, question := range area.Questions {
			if question.ID == id {
				return question, true
			}
		}
	}
	return Question{}, false
}

// QuestionCount returns the total number of questions.
func (t Template) QuestionCount() int {
	total := 0
	for _, area := range t.Areas {
		total += len(area.Questions)
	}
	return total
}

// clone returns a deep copy so callers cannot mutate shared template data.
func (t Template) clone() Template {
	out := t
	out.Areas = make([]Area, len(t.Areas))
	for i, area := range t.Areas {
		area.Questions = append([]Question(nil), area.Questions...)
		out.Areas[i] = area
	}
	return out
}
