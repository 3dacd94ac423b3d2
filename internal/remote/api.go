// Package remote consumes the timeline backend's flashcard REST API. The
// server is authoritative for card and pack identity and scheduling fields;
// this package only transports them.
package remote

import (
	"context"
	"time"
)

// CardPayload is a card as the backend returns it.
type CardPayload struct {
	ID             string     `json:"id"`
	SourceType     string     `json:"sourceType"`
	SourceID       string     `json:"sourceId"`
	PackIDs        []string   `json:"packIds"`
	CreatedAt      time.Time  `json:"createdAt"`
	EaseFactor     float64    `json:"easeFactor"`
	IntervalDays   int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   *time.Time `json:"nextReviewDate"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
}

// PackPayload is a pack as the backend returns it.
type PackPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewResult carries the server-computed scheduling fields after a review
// submission.
type ReviewResult struct {
	EaseFactor   float64   `json:"easeFactor"`
	IntervalDays int       `json:"interval"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"nextReviewDate"`
	// IsMastered is part of the wire contract but informational only: the
	// client derives mastery locally from the interval.
	IsMastered bool `json:"isMastered"`
}

//go:generate mockgen -source=api.go -destination=../mocks/remote/mock_api.go -package=mock_remote

// API is the flashcard surface of the timeline backend, keyed by the opaque
// session id the client was constructed with.
type API interface {
	ListCards(ctx context.Context) ([]CardPayload, error)
	ListPacks(ctx context.Context) ([]PackPayload, error)
	AddCard(ctx context.Context, sourceType, sourceID string, packIDs []string) (*CardPayload, error)
	RemoveCard(ctx context.Context, cardID string) error
	SubmitReview(ctx context.Context, cardID string, quality int) (*ReviewResult, error)
	CreatePack(ctx context.Context, name, description, color string) (*PackPayload, error)
	UpdatePack(ctx context.Context, packID, name, description, color string) (*PackPayload, error)
	DeletePack(ctx context.Context, packID string) error
	UpdateCardPacks(ctx context.Context, cardID string, packIDs []string) (*CardPayload, error)
}
