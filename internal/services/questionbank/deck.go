package questionbank

import "github.com/quizbuzz/quizbuzz-go/internal/model"

// Deck is one session's shuffled pass over the question set. It is a
// single-consumer cursor: the session controller serializes all access.
// A deck cannot be rewound; sessions start over by taking a new deck.
type Deck struct {
	questions []model.Question
	cursor    int
}

// Next advances the cursor and returns the question at the new position, or
// nil once the deck is exhausted. Calling Next after exhaustion keeps
// returning nil.
func (d *Deck) Next() *model.Question {
	if d.cursor < len(d.questions) {
		d.cursor++
	}
	if d.cursor >= len(d.questions) {
		return nil
	}
	q := d.questions[d.cursor]
	return &q
}

// CheckAnswer reports whether the label matches the correct answer of the
// question at the cursor. Returns false, not an error, when no question is
// active.
func (d *Deck) CheckAnswer(label string) bool {
	if d.cursor < 0 || d.cursor >= len(d.questions) {
		return false
	}
	return d.questions[d.cursor].Correct == label
}

// Size returns the total number of questions in the deck
func (d *Deck) Size() int {
	return len(d.questions)
}

// Remaining returns how many questions have not yet been drawn
func (d *Deck) Remaining() int {
	drawn := d.cursor + 1
	if drawn > len(d.questions) {
		drawn = len(d.questions)
	}
	return len(d.questions) - drawn
}
