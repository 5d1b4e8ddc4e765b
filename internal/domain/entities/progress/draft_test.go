package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
)

func TestRecordScoreFirstWriteWinsCreatedAt(t *testing.T) {
	d := &Draft{}
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	d.RecordScore(assessment.ScoreResult{ScoreTotal: 60, Rank: "Beginner"}, 5, first)
	d.RecordScore(assessment.ScoreResult{ScoreTotal: 80, Rank: "Advanced"}, 7, second)

	require.NotNil(t, d.CreatedAt)
	assert.Equal(t, first, *d.CreatedAt, "creation time sticks to the first score")
	assert.Equal(t, 80.0, *d.ScoreTotal)
	assert.Equal(t, "Advanced", d.Rank)
	assert.Equal(t, 7, d.AnswersCount)
}

func TestResolveScorePrefersDraft(t *testing.T) {
	d := &Draft{}
	d.RecordScore(assessment.ScoreResult{ScoreTotal: 80, Rank: "Advanced"}, 7, time.Now())

	total, rank, ok := d.ResolveScore(&assessment.ScoreResult{ScoreTotal: 60, Rank: "Beginner"})
	require.True(t, ok)
	assert.Equal(t, 80.0, total)
	assert.Equal(t, "Advanced", rank)
}

func TestResolveScoreFallsBackToLive(t *testing.T) {
	d := &Draft{}

	total, rank, ok := d.ResolveScore(&assessment.ScoreResult{ScoreTotal: 42, Rank: "Intermediate"})
	require.True(t, ok)
	assert.Equal(t, 42.0, total)
	assert.Equal(t, "Intermediate", rank)

	_, _, ok = d.ResolveScore(nil)
	assert.False(t, ok, "nothing to publish without any score")
}

func TestClearVolatileKeepsGroup(t *testing.T) {
	d := &Draft{GroupID: "g-1"}
	d.RecordScore(assessment.ScoreResult{ScoreTotal: 50}, 3, time.Now())
	d.RecordAdvice([]string{"stock more water"})

	d.ClearVolatile()

	assert.Equal(t, "g-1", d.GroupID)
	assert.Nil(t, d.CreatedAt)
	assert.Nil(t, d.ScoreTotal)
	assert.Empty(t, d.Rank)
	assert.Zero(t, d.AnswersCount)
	assert.Nil(t, d.Advice)
}

func TestRecordAdviceCopies(t *testing.T) {
	src := []string{"a", "b"}
	d := &Draft{}
	d.RecordAdvice(src)
	src[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, d.Advice)
	assert.Equal(t, []string{"a", "b"}, d.ResolveAdvice([]string{"live"}))
	assert.Equal(t, []string{"live"}, (&Draft{}).ResolveAdvice([]string{"live"}))
}
