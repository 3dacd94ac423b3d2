package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/history"
)

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 14)

	due := flashcard.NewCard("c1", flashcard.SourceMilestone, "gpt-3", now)
	scheduled := flashcard.NewCard("c2", flashcard.SourceConcept, "attention", now)
	scheduled.NextReviewAt = &future
	mastered := flashcard.NewCard("c3", flashcard.SourceMilestone, "alexnet", now)
	mastered.IntervalDays = 30
	mastered.NextReviewAt = &future

	var ledger history.Ledger
	ledger.Record(now, 5)
	ledger.Record(now, 2)
	ledger.AddStudyTime(now, 12)
	streak := history.Streak{Current: 3, Longest: 7, LastStudyDate: "2025-06-10"}

	stats := ComputeStats([]flashcard.Card{due, scheduled, mastered}, &ledger, streak, now)

	assert.Equal(t, 3, stats.TotalCards)
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 2, stats.ReviewedToday)
	assert.Equal(t, 1, stats.CorrectToday)
	assert.Equal(t, 12, stats.StudyMinutesToday)
	assert.Equal(t, 1, stats.Mastered)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 7, stats.LongestStreak)
	assert.Equal(t, "2025-06-10", stats.LastStudyDate)
}

func TestComputeStats_EmptyState(t *testing.T) {
	now := time.Now()
	stats := ComputeStats(nil, &history.Ledger{}, history.Streak{}, now)
	assert.Zero(t, stats.TotalCards)
	assert.Zero(t, stats.ReviewedToday)
	assert.Zero(t, stats.CurrentStreak)
}
