// Package assessment defines the checklist, inventory diagnostic, score,
// and advice entities that feed one assessment cycle.
package assessment

import (
	"errors"
	"sort"
)

// ErrInvalidInput indicates locally rejected input; no network call was made.
var ErrInvalidInput = errors.New("invalid input")

// AnswerValue is one checklist response.
type AnswerValue string

const (
	AnswerYes        AnswerValue = "yes"
	AnswerSome       AnswerValue = "some"
	AnswerNo         AnswerValue = "no"
	AnswerUnanswered AnswerValue = ""
)

// ValidAnswer reports whether v is an answer a user can actually give.
func ValidAnswer(v AnswerValue) bool {
	return v == AnswerYes || v == AnswerSome || v == AnswerNo
}

// Answer is one answered checklist entry on the wire.
type Answer struct {
	ID    string      `json:"id"`
	Value AnswerValue `json:"value"`
}

// ChecklistItem is one question as returned by the checklist source.
type ChecklistItem struct {
	ID       string `json:"id"`
	No       int    `json:"no"`
	Question string `json:"question"`
}

// AnswerSet maps question ids to their current response.
type AnswerSet map[string]AnswerValue

// Answered returns only entries with a real answer, ordered by question
// id so downstream request shapes are deterministic.
func (s AnswerSet) Answered() []Answer {
	var out []Answer
	for id, v := range s {
		if ValidAnswer(v) {
			out = append(out, Answer{ID: id, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Restore merges previously saved answers into the set, keeping only
// valid values.
func (s AnswerSet) Restore(answers []Answer) {
	for _, a := range answers {
		if ValidAnswer(a.Value) {
			s[a.ID] = a.Value
		}
	}
}
