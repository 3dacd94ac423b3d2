package store

import (
	"time"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/history"
)

// Stats are derived aggregates over a store's state. They are recomputed on
// demand and never the source of truth.
type Stats struct {
	TotalCards        int    `json:"total_cards"`
	DueToday          int    `json:"due_today"`
	ReviewedToday     int    `json:"reviewed_today"`
	CorrectToday      int    `json:"correct_today"`
	StudyMinutesToday int    `json:"study_minutes_today"`
	Mastered          int    `json:"mastered"`
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	LastStudyDate     string `json:"last_study_date"`
}

// ComputeStats derives the aggregate view at now.
func ComputeStats(cards []flashcard.Card, ledger *history.Ledger, streak history.Streak, now time.Time) Stats {
	stats := Stats{
		TotalCards:    len(cards),
		CurrentStreak: streak.Current,
		LongestStreak: streak.Longest,
		LastStudyDate: streak.LastStudyDate,
	}
	for _, card := range cards {
		if card.IsDue(now) {
			stats.DueToday++
		}
		if card.IsMastered() {
			stats.Mastered++
		}
	}
	if day := ledger.Day(history.DayKey(now)); day != nil {
		stats.ReviewedToday = day.ReviewCount
		stats.CorrectToday = day.CorrectCount
		stats.StudyMinutesToday = day.StudyMinutes
	}
	return stats
}
