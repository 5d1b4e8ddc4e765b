// Package progress holds the shareable result draft and the group ledger
// entities used when a session publishes its outcome.
package progress

import (
	"errors"
	"time"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
)

// ErrMissingGroup means publish was attempted without a group attached.
var ErrMissingGroup = errors.New("no group attached")

// ErrScoreRequired means publish was attempted before any score existed,
// live or drafted.
var ErrScoreRequired = errors.New("score required before publish")

// Draft accumulates the latest publishable figures for a session. It
// survives a session reset so a user can re-run the checklist without
// losing what they already shared.
type Draft struct {
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	GroupID      string     `json:"group_id,omitempty"`
	ScoreTotal   *float64   `json:"score_total,omitempty"`
	Rank         string     `json:"rank,omitempty"`
	AnswersCount int        `json:"answers_count,omitempty"`
	Advice       []string   `json:"advice,omitempty"`
}

// RecordScore folds a fresh score result into the draft. The creation
// timestamp is set on first write only.
func (d *Draft) RecordScore(res assessment.ScoreResult, answersCount int, now time.Time) {
	if d.CreatedAt == nil {
		t := now
		d.CreatedAt = &t
	}
	total := res.ScoreTotal
	d.ScoreTotal = &total
	d.Rank = res.Rank
	d.AnswersCount = answersCount
}

// RecordAdvice replaces the drafted advice list.
func (d *Draft) RecordAdvice(advice []string) {
	d.Advice = append([]string(nil), advice...)
}

// ClearVolatile wipes everything a session reset invalidates while
// keeping the group attachment.
func (d *Draft) ClearVolatile() {
	d.CreatedAt = nil
	d.ScoreTotal = nil
	d.Rank = ""
	d.AnswersCount = 0
	d.Advice = nil
}

// ResolveScore picks the score to publish. A drafted score wins over
// the live one because the draft is what the user last saw as theirs.
func (d *Draft) ResolveScore(live *assessment.ScoreResult) (total float64, rank string, ok bool) {
	if d.ScoreTotal != nil {
		return *d.ScoreTotal, d.Rank, true
	}
	if live != nil {
		return live.ScoreTotal, live.Rank, true
	}
	return 0, "", false
}

// ResolveAdvice picks the advice list to publish, preferring the draft.
func (d *Draft) ResolveAdvice(live []string) []string {
	if len(d.Advice) > 0 {
		return d.Advice
	}
	return live
}
