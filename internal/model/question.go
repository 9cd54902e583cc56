package model

// OptionLabels are the four answer labels every question carries
var OptionLabels = []string{"A", "B", "C", "D"}

// Question is an immutable quiz question record.
// Points is preserved from the source but scoring currently awards a fixed
// +1 per correct answer regardless of it.
type Question struct {
	Prompt  string
	Options map[string]string // label -> option text, keys A-D
	Correct string            // correct option label
	Points  int
}

// Public returns the broadcastable view of the question: prompt and options
// only, never the correct label.
func (q *Question) Public() QuestionView {
	options := make(map[string]string, len(q.Options))
	for label, text := range q.Options {
		options[label] = text
	}
	return QuestionView{
		Prompt:  q.Prompt,
		Options: options,
	}
}

// QuestionView is what participants see when a question is broadcast
type QuestionView struct {
	Prompt  string            `json:"promptText"`
	Options map[string]string `json:"options"`
}
