// Package history maintains the per-day review ledger and the study streak
// derived from it.
//
// Day boundaries use the local calendar day of the observing client. That is
// a deliberate carry-over from the product's behavior and a known source of
// cross-timezone inconsistency; do not switch to UTC without a requirements
// change.
package history

import "time"

// dayFormat is the ledger's calendar-day key format.
const dayFormat = "2006-01-02"

// DayKey returns the local calendar day of t as a ledger key.
func DayKey(t time.Time) string {
	return t.Format(dayFormat)
}

// DailyReview is one calendar day's activity. Only days with at least one
// review or some booked study time have an entry.
type DailyReview struct {
	Date         string `json:"date" yaml:"date"`
	ReviewCount  int    `json:"review_count" yaml:"review_count"`
	CorrectCount int    `json:"correct_count" yaml:"correct_count"`
	StudyMinutes int    `json:"study_minutes" yaml:"study_minutes"`
}

// Ledger is the append/update record of daily study activity. It only feeds
// streaks and today's-activity stats; scheduling never reads it.
type Ledger struct {
	Days []DailyReview `json:"days" yaml:"days"`
}

// Record books one review at now. A quality of 3 or better counts as correct.
func (l *Ledger) Record(now time.Time, quality int) {
	day := l.ensureDay(DayKey(now))
	day.ReviewCount++
	if quality >= 3 {
		day.CorrectCount++
	}
}

// Unrecord removes one review from now's entry, used by the single-slot undo.
// Counts never go negative.
func (l *Ledger) Unrecord(now time.Time, quality int) {
	day := l.Day(DayKey(now))
	if day == nil {
		return
	}
	if day.ReviewCount > 0 {
		day.ReviewCount--
	}
	if quality >= 3 && day.CorrectCount > 0 {
		day.CorrectCount--
	}
}

// AddStudyTime books study minutes on now's entry, creating it if absent.
func (l *Ledger) AddStudyTime(now time.Time, minutes int) {
	if minutes <= 0 {
		return
	}
	l.ensureDay(DayKey(now)).StudyMinutes += minutes
}

// Day returns the entry for the given day key, or nil.
func (l *Ledger) Day(key string) *DailyReview {
	for i := range l.Days {
		if l.Days[i].Date == key {
			return &l.Days[i]
		}
	}
	return nil
}

// ReviewedOn reports whether at least one review was recorded on the day.
func (l *Ledger) ReviewedOn(key string) bool {
	day := l.Day(key)
	return day != nil && day.ReviewCount > 0
}

func (l *Ledger) ensureDay(key string) *DailyReview {
	if day := l.Day(key); day != nil {
		return day
	}
	l.Days = append(l.Days, DailyReview{Date: key})
	return &l.Days[len(l.Days)-1]
}
