package history

import "time"

// Streak tracks consecutive study days. Longest is a historical high-water
// mark and never drops below Current.
type Streak struct {
	Current       int    `json:"current" yaml:"current"`
	Longest       int    `json:"longest" yaml:"longest"`
	LastStudyDate string `json:"last_study_date" yaml:"last_study_date"`
}

// UpdateAfterReview recomputes the streak from the ledger after a review was
// recorded at now. It walks backward from today's local calendar day counting
// consecutive days with activity: reviewing again on the same day keeps the
// streak, a first review after an active yesterday extends it, and a gap of
// two or more calendar days restarts it at 1.
func (s Streak) UpdateAfterReview(l *Ledger, now time.Time) Streak {
	current := 0
	for day := now; l.ReviewedOn(DayKey(day)); day = day.AddDate(0, 0, -1) {
		current++
	}
	if current == 0 {
		// Caller records the review before updating the streak, so today
		// always has an entry. Keep the walk authoritative anyway.
		current = 1
	}

	next := Streak{
		Current:       current,
		Longest:       max(s.Longest, current),
		LastStudyDate: DayKey(now),
	}
	return next
}
