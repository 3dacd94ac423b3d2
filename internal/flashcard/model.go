// Package flashcard defines the card and pack entities of the study system
// and the pure predicates over them.
package flashcard

import (
	"fmt"
	"slices"
	"time"

	"github.com/wyliebrown1990/ai-timeline/internal/srs"
)

// SourceType identifies the kind of timeline content a card references.
type SourceType string

const (
	SourceMilestone SourceType = "milestone"
	SourceConcept   SourceType = "concept"
)

// Valid reports whether s is a known source type.
func (s SourceType) Valid() bool {
	return s == SourceMilestone || s == SourceConcept
}

// ParseSourceType converts a raw string into a SourceType.
func ParseSourceType(raw string) (SourceType, error) {
	s := SourceType(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown source type %q", raw)
	}
	return s, nil
}

// System pack identifiers. These packs always exist and can never be renamed
// or deleted.
const (
	PackAllID    = "pack-all"
	PackRecentID = "pack-recent"
)

// Card is a user-owned flashcard referencing one timeline content item.
// A user has at most one card per (SourceType, SourceID) pair.
type Card struct {
	ID             string     `json:"id" yaml:"id"`
	SourceType     SourceType `json:"source_type" yaml:"source_type"`
	SourceID       string     `json:"source_id" yaml:"source_id"`
	PackIDs        []string   `json:"pack_ids" yaml:"pack_ids"`
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
	EaseFactor     float64    `json:"ease_factor" yaml:"ease_factor"`
	IntervalDays   int        `json:"interval_days" yaml:"interval_days"`
	Repetitions    int        `json:"repetitions" yaml:"repetitions"`
	NextReviewAt   *time.Time `json:"next_review_at" yaml:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty" yaml:"last_reviewed_at,omitempty"`
}

// Pack is a user-defined or system-default grouping of cards.
type Pack struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name" validate:"required,min=1,max=50"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" validate:"max=200"`
	Color       string    `json:"color" yaml:"color" validate:"omitempty,hexcolor"`
	IsDefault   bool      `json:"is_default" yaml:"is_default"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewCard builds a freshly created card for the given source. The card is
// immediately due and belongs to the two system packs.
func NewCard(id string, sourceType SourceType, sourceID string, now time.Time) Card {
	due := now
	return Card{
		ID:           id,
		SourceType:   sourceType,
		SourceID:     sourceID,
		PackIDs:      []string{PackAllID, PackRecentID},
		CreatedAt:    now,
		EaseFactor:   srs.DefaultEaseFactor,
		NextReviewAt: &due,
	}
}

// NewPack builds a user pack with the given attributes.
func NewPack(id, name, description, color string, now time.Time) Pack {
	return Pack{
		ID:          id,
		Name:        name,
		Description: description,
		Color:       color,
		CreatedAt:   now,
	}
}

// DefaultPacks returns the two system packs every store starts with.
func DefaultPacks(now time.Time) []Pack {
	return []Pack{
		{ID: PackAllID, Name: "All Cards", Color: "#6366f1", IsDefault: true, CreatedAt: now},
		{ID: PackRecentID, Name: "Recently Added", Color: "#f59e0b", IsDefault: true, CreatedAt: now},
	}
}

// IsDefaultPackID reports whether id names a system pack.
func IsDefaultPackID(id string) bool {
	return id == PackAllID || id == PackRecentID
}

// Clone returns a copy of the card sharing no mutable state with the
// original.
func (c Card) Clone() Card {
	c.PackIDs = slices.Clone(c.PackIDs)
	return c
}

// CloneCards deep-copies a card slice, so stores can hand out snapshots that
// later membership mutations cannot touch.
func CloneCards(cards []Card) []Card {
	cloned := make([]Card, len(cards))
	for i, card := range cards {
		cloned[i] = card.Clone()
	}
	return cloned
}

// IsDue reports whether the card should be shown for review at now. A nil
// NextReviewAt means "due immediately".
func (c Card) IsDue(now time.Time) bool {
	return c.NextReviewAt == nil || !c.NextReviewAt.After(now)
}

// IsMastered reports whether the card has crossed the long-term retention
// threshold.
func (c Card) IsMastered() bool {
	return c.IntervalDays > srs.MasteryThresholdDays
}

// InPack reports whether the card belongs to the given pack.
func (c Card) InPack(packID string) bool {
	return slices.Contains(c.PackIDs, packID)
}

// Scheduling extracts the card's SM-2 state.
func (c Card) Scheduling() srs.Review {
	return srs.Review{
		EaseFactor:   c.EaseFactor,
		IntervalDays: c.IntervalDays,
		Repetitions:  c.Repetitions,
	}
}

// ApplyScheduling writes a computed review back onto the card and stamps the
// review time.
func (c *Card) ApplyScheduling(r srs.Review, now time.Time) {
	c.EaseFactor = r.EaseFactor
	c.IntervalDays = r.IntervalDays
	c.Repetitions = r.Repetitions
	next := srs.NextReviewAt(now, r)
	c.NextReviewAt = &next
	reviewed := now
	c.LastReviewedAt = &reviewed
}

// DueCards filters cards down to the ones due at now, optionally restricted
// to a single pack (empty packID means all cards). Input order is preserved:
// the result is stable but unordered by urgency.
func DueCards(cards []Card, packID string, now time.Time) []Card {
	var due []Card
	for _, card := range cards {
		if packID != "" && !card.InPack(packID) {
			continue
		}
		if card.IsDue(now) {
			due = append(due, card)
		}
	}
	return due
}
