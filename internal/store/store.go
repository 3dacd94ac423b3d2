// Package store defines the operation contract shared by the local and
// remote-backed study stores, and the derived statistics over their state.
package store

import (
	"context"
	"errors"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
)

// Persistence namespace keys. Values under them are JSON-serialized.
const (
	KeyCards         = "cards"
	KeyPacks         = "packs"
	KeyStreak        = "streak"
	KeyDailyReviews  = "daily_reviews"
	KeySchemaVersion = "schema_version"
)

var (
	ErrCardNotFound   = errors.New("card not found")
	ErrPackNotFound   = errors.New("pack not found")
	ErrInvalidQuality = errors.New("quality out of range [0, 5]")
)

// Store is the single contract both backend variants implement. The local
// variant ignores the contexts; the remote variant suspends at each network
// call. Mutating operations on one store are mutually exclusive.
//
// Both variants keep the review ledger and streak in local storage only:
// cards and packs sync across devices, study-time and streak ledgers
// deliberately do not.
type Store interface {
	// AddCard creates a card for the source, or returns (nil, nil) when a
	// card for the same (sourceType, sourceID) already exists.
	AddCard(ctx context.Context, sourceType flashcard.SourceType, sourceID string, packIDs []string) (*flashcard.Card, error)
	// RemoveCard deletes the card and drops it from every pack.
	RemoveCard(ctx context.Context, cardID string) error

	CardByID(cardID string) (*flashcard.Card, bool)
	CardBySource(sourceType flashcard.SourceType, sourceID string) (*flashcard.Card, bool)
	IsCardSaved(sourceType flashcard.SourceType, sourceID string) bool
	Cards() []flashcard.Card
	CardsByPack(packID string) []flashcard.Card
	// DueCards returns the cards due now, optionally restricted to one pack
	// (empty packID means all). Stable input order, unordered by urgency.
	DueCards(packID string) []flashcard.Card

	// RecordReview applies a quality grade (0-5) to the card: computes the
	// new scheduling state, persists it, and updates the ledger, streak and
	// derived stats.
	RecordReview(ctx context.Context, cardID string, quality int) error
	// UndoLastReview reverts the single most recent review if it is still
	// the most recent mutating operation and targeted cardID. Single-slot:
	// there is no deeper history.
	UndoLastReview(ctx context.Context, cardID string) bool
	// AddStudyTime books study minutes on today's ledger entry.
	AddStudyTime(ctx context.Context, minutes int) error

	CreatePack(ctx context.Context, name, description, color string) (*flashcard.Pack, error)
	// RenamePack renames a user pack. Renaming a default pack is a silent
	// no-op.
	RenamePack(ctx context.Context, packID, name string) error
	// DeletePack removes a user pack and its id from every card, never the
	// cards themselves. Deleting a default pack is a silent no-op.
	DeletePack(ctx context.Context, packID string) error
	MoveCardToPack(ctx context.Context, cardID, packID string) error
	// RemoveCardFromPack drops the card's membership in a user pack.
	// Removing from a default pack is a silent no-op.
	RemoveCardFromPack(ctx context.Context, cardID, packID string) error
	// ReorderPacks reorders the in-memory pack list. Local-only: the remote
	// variant never persists ordering to the server.
	ReorderPacks(ctx context.Context, packIDs []string) error
	Packs() []flashcard.Pack

	Stats() Stats

	// ResetAll clears all cards and user packs and reinitializes the
	// defaults. Best-effort: per-item remote deletion failures are ignored.
	ResetAll(ctx context.Context) error
}
