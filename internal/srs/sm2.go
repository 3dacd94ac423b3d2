// Package srs implements the SM-2 variant scheduling algorithm that drives
// the flashcard study system.
package srs

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 3.0

	// Fixed intervals, in days, for the first two consecutive successful
	// reviews of a card.
	FirstInterval  = 1
	SecondInterval = 6

	// A card whose interval exceeds this many days counts as mastered.
	MasteryThresholdDays = 21
)

// Review holds the scheduling state of a single card.
type Review struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
}

// NewReview returns the scheduling state of a freshly created card. The card
// is immediately due: IntervalDays and Repetitions are zero.
func NewReview() Review {
	return Review{EaseFactor: DefaultEaseFactor}
}

// ValidQuality reports whether q is a valid self-assessment grade (0 through 5).
func ValidQuality(q int) bool {
	return q >= 0 && q <= 5
}

// ComputeNextReview applies a single review graded quality to the previous
// scheduling state and returns the new state. Pure and deterministic.
//
// quality < 3 resets the repetition counter and makes the card immediately
// due again; the ease factor still takes the penalty for the failed recall.
//
// Callers must validate quality with ValidQuality first; an out-of-range
// grade is a contract violation and panics.
func ComputeNextReview(quality int, prev Review) Review {
	if !ValidQuality(quality) {
		panic(fmt.Sprintf("srs: quality %d out of range [0, 5]", quality))
	}

	q := float64(quality)
	ef := prev.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	ef = math.Min(math.Max(ef, MinEaseFactor), MaxEaseFactor)

	next := Review{EaseFactor: ef}
	if quality < 3 {
		return next
	}

	next.Repetitions = prev.Repetitions + 1
	switch next.Repetitions {
	case 1:
		next.IntervalDays = FirstInterval
	case 2:
		next.IntervalDays = SecondInterval
	default:
		// math.Round is round-half-away-from-zero.
		next.IntervalDays = int(math.Round(float64(prev.IntervalDays) * ef))
	}
	return next
}

// NextReviewAt returns when a card with scheduling state r, reviewed at now,
// is due again.
func NextReviewAt(now time.Time, r Review) time.Time {
	return now.AddDate(0, 0, r.IntervalDays)
}
