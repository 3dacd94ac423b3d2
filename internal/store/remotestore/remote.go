// Package remotestore implements the study store against the timeline
// backend API with an in-memory mirror. Mutations call the API first and
// apply only the confirmed server response; a failed call leaves the mirror
// untouched and propagates the error.
//
// The review ledger and streak stay in local storage even in this variant:
// cards and packs sync across devices, study-time and streak ledgers
// deliberately do not.
package remotestore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/wyliebrown1990/ai-timeline/internal/alert"
	"github.com/wyliebrown1990/ai-timeline/internal/cache"
	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/history"
	"github.com/wyliebrown1990/ai-timeline/internal/kv"
	"github.com/wyliebrown1990/ai-timeline/internal/remote"
	"github.com/wyliebrown1990/ai-timeline/internal/srs"
	"github.com/wyliebrown1990/ai-timeline/internal/store"
)

const defaultListTTL = 30 * time.Second

const listCacheKey = "session"

type listSnapshot struct {
	cards []remote.CardPayload
	packs []remote.PackPayload
}

type lastReview struct {
	cardID  string
	quality int
	at      time.Time
	card    flashcard.Card
	streak  history.Streak
}

// Store is the remote-backed study store.
type Store struct {
	// opMu serializes mutating operations end to end, including their
	// network call. mu guards the in-memory mirror.
	opMu sync.Mutex
	mu   sync.Mutex

	api    remote.API
	local  kv.Store
	alerts *alert.Sink
	now    func() time.Time
	lists  *cache.Cache[listSnapshot]

	cards  []flashcard.Card
	packs  []flashcard.Pack
	ledger history.Ledger
	streak history.Streak

	last       *lastReview
	generation uint64
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the store's clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithAlertSink overrides the warning sink.
func WithAlertSink(sink *alert.Sink) Option {
	return func(s *Store) { s.alerts = sink }
}

// WithListCacheTTL overrides how long fetched collections stay fresh.
func WithListCacheTTL(ttl time.Duration) Option {
	return func(s *Store) { s.lists = cache.New[listSnapshot](ttl) }
}

// New builds a store over the given API client. localKV holds the ledger and
// streak. Call Load once the session is ready.
func New(api remote.API, localKV kv.Store, opts ...Option) *Store {
	s := &Store{
		api:    api,
		local:  localKV,
		alerts: alert.NewSink(),
		now:    time.Now,
		lists:  cache.New[listSnapshot](defaultListTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the session's cards and packs and populates the mirror, and
// reads the locally kept ledger and streak. A load superseded by a newer one
// discards its result instead of clobbering the fresher state; the fetch
// itself is not aborted.
func (s *Store) Load(ctx context.Context) error {
	s.loadLocal(ctx)

	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	snapshot, cached := s.lists.Get(listCacheKey)
	if !cached {
		cards, err := s.api.ListCards(ctx)
		if err != nil {
			return fmt.Errorf("api.ListCards() > %w", err)
		}
		packs, err := s.api.ListPacks(ctx)
		if err != nil {
			return fmt.Errorf("api.ListPacks() > %w", err)
		}
		snapshot = listSnapshot{cards: cards, packs: packs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		// A newer load started while this one was in flight. Its result is
		// discarded rather than clobbering the fresher state or cache.
		return nil
	}
	if !cached {
		s.lists.Set(listCacheKey, snapshot)
	}

	s.cards = s.decodeCards(snapshot.cards)
	s.packs = decodePacks(snapshot.packs)
	s.ensureDefaultPacks()
	s.last = nil
	return nil
}

func (s *Store) loadLocal(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := readJSON(ctx, s.local, store.KeyDailyReviews, &s.ledger); err != nil {
		s.alerts.Warnf("dropping malformed review ledger: %v", err)
		s.ledger = history.Ledger{}
	}
	if err := readJSON(ctx, s.local, store.KeyStreak, &s.streak); err != nil {
		s.alerts.Warnf("dropping malformed streak state: %v", err)
		s.streak = history.Streak{}
	}
}

func readJSON(ctx context.Context, kvStore kv.Store, key string, target any) error {
	value, ok, err := kvStore.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("kv.Get(%s) > %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(value), target); err != nil {
		return fmt.Errorf("json.Unmarshal(%s) > %w", key, err)
	}
	return nil
}

// persistLocal writes the ledger and streak back to local storage. Failures
// are non-fatal: the session keeps its in-memory state and warns once.
func (s *Store) persistLocal(ctx context.Context) {
	for key, value := range map[string]any{
		store.KeyDailyReviews: s.ledger,
		store.KeyStreak:       s.streak,
	} {
		data, err := json.Marshal(value)
		if err != nil {
			s.alerts.Warnf("marshal %s failed: %v", key, err)
			continue
		}
		if err := s.local.Set(ctx, key, string(data)); err != nil {
			s.alerts.Warnf("local storage write failed, study history kept in memory: %v", err)
			return
		}
	}
}

func (s *Store) decodeCards(payloads []remote.CardPayload) []flashcard.Card {
	var cards []flashcard.Card
	for _, payload := range payloads {
		card, err := cardFromPayload(payload)
		if err != nil {
			s.alerts.Warnf("dropping card %q from server: %v", payload.ID, err)
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

func cardFromPayload(payload remote.CardPayload) (flashcard.Card, error) {
	sourceType, err := flashcard.ParseSourceType(payload.SourceType)
	if err != nil {
		return flashcard.Card{}, err
	}
	if payload.ID == "" || payload.SourceID == "" {
		return flashcard.Card{}, fmt.Errorf("missing identity fields")
	}

	easeFactor := payload.EaseFactor
	if easeFactor == 0 {
		easeFactor = srs.DefaultEaseFactor
	}
	return flashcard.Card{
		ID:             payload.ID,
		SourceType:     sourceType,
		SourceID:       payload.SourceID,
		PackIDs:        slices.Clone(payload.PackIDs),
		CreatedAt:      payload.CreatedAt,
		EaseFactor:     easeFactor,
		IntervalDays:   payload.IntervalDays,
		Repetitions:    payload.Repetitions,
		NextReviewAt:   payload.NextReviewAt,
		LastReviewedAt: payload.LastReviewedAt,
	}, nil
}

func decodePacks(payloads []remote.PackPayload) []flashcard.Pack {
	var packs []flashcard.Pack
	for _, payload := range payloads {
		packs = append(packs, flashcard.Pack{
			ID:          payload.ID,
			Name:        payload.Name,
			Description: payload.Description,
			Color:       payload.Color,
			IsDefault:   payload.IsDefault,
			CreatedAt:   payload.CreatedAt,
		})
	}
	return packs
}

func (s *Store) ensureDefaultPacks() {
	for _, def := range flashcard.DefaultPacks(s.now()) {
		exists := slices.ContainsFunc(s.packs, func(p flashcard.Pack) bool {
			return p.ID == def.ID
		})
		if !exists {
			s.packs = append(s.packs, def)
		}
	}
}

// AddCard asks the server to create a card for the source. Returns
// (nil, nil) when the mirror already holds a card for it.
func (s *Store) AddCard(ctx context.Context, sourceType flashcard.SourceType, sourceID string, packIDs []string) (*flashcard.Card, error) {
	if !sourceType.Valid() {
		return nil, fmt.Errorf("unknown source type %q", sourceType)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	exists := s.findBySource(sourceType, sourceID) != nil
	s.mu.Unlock()
	if exists {
		return nil, nil
	}

	payload, err := s.api.AddCard(ctx, string(sourceType), sourceID, packIDs)
	if err != nil {
		return nil, fmt.Errorf("api.AddCard() > %w", err)
	}
	card, err := cardFromPayload(*payload)
	if err != nil {
		return nil, fmt.Errorf("cardFromPayload() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append(s.cards, card)
	s.last = nil
	s.lists.InvalidateAll()

	created := card
	return &created, nil
}

// RemoveCard asks the server to delete the card, then drops it from the
// mirror.
func (s *Store) RemoveCard(ctx context.Context, cardID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	index := slices.IndexFunc(s.cards, func(c flashcard.Card) bool { return c.ID == cardID })
	s.mu.Unlock()
	if index < 0 {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}

	if err := s.api.RemoveCard(ctx, cardID); err != nil {
		return fmt.Errorf("api.RemoveCard() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = slices.DeleteFunc(s.cards, func(c flashcard.Card) bool { return c.ID == cardID })
	s.last = nil
	s.lists.InvalidateAll()
	return nil
}

// RecordReview submits the grade to the server and applies the confirmed
// scheduling fields to the mirror. The ledger and streak update locally.
func (s *Store) RecordReview(ctx context.Context, cardID string, quality int) error {
	if !srs.ValidQuality(quality) {
		return fmt.Errorf("%w: %d", store.ErrInvalidQuality, quality)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	card := s.findByID(cardID)
	if card == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}
	previous := *card
	s.mu.Unlock()

	result, err := s.api.SubmitReview(ctx, cardID, quality)
	if err != nil {
		return fmt.Errorf("api.SubmitReview() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card = s.findByID(cardID)
	if card == nil {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}

	now := s.now()
	s.last = &lastReview{
		cardID:  cardID,
		quality: quality,
		at:      now,
		card:    previous,
		streak:  s.streak,
	}

	card.EaseFactor = result.EaseFactor
	card.IntervalDays = result.IntervalDays
	card.Repetitions = result.Repetitions
	next := result.NextReviewAt
	card.NextReviewAt = &next
	reviewed := now
	card.LastReviewedAt = &reviewed

	s.ledger.Record(now, quality)
	s.streak = s.streak.UpdateAfterReview(&s.ledger, now)
	s.persistLocal(ctx)
	s.lists.InvalidateAll()
	return nil
}

// UndoLastReview reverts the most recent review in the mirror only. The
// server is NOT rolled back: until the next review or refetch, its
// scheduling state for the card diverges from the client's. Preserved
// behavior of the original product, not an oversight to fix here.
func (s *Store) UndoLastReview(ctx context.Context, cardID string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil || s.last.cardID != cardID {
		return false
	}
	card := s.findByID(cardID)
	if card == nil {
		s.last = nil
		return false
	}

	*card = s.last.card
	s.ledger.Unrecord(s.last.at, s.last.quality)
	s.streak = s.last.streak
	s.last = nil
	s.persistLocal(ctx)
	return true
}

// AddStudyTime books study minutes on today's local ledger entry. Study time
// never goes to the server.
func (s *Store) AddStudyTime(ctx context.Context, minutes int) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.AddStudyTime(s.now(), minutes)
	s.persistLocal(ctx)
	return nil
}

// CreatePack asks the server to create a user pack.
func (s *Store) CreatePack(ctx context.Context, name, description, color string) (*flashcard.Pack, error) {
	draft := flashcard.NewPack("draft", name, description, color, s.now())
	if err := flashcard.ValidatePack(draft); err != nil {
		return nil, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	payload, err := s.api.CreatePack(ctx, name, description, color)
	if err != nil {
		return nil, fmt.Errorf("api.CreatePack() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	packs := decodePacks([]remote.PackPayload{*payload})
	s.packs = append(s.packs, packs[0])
	s.last = nil
	s.lists.InvalidateAll()

	created := packs[0]
	return &created, nil
}

// RenamePack renames a user pack on the server. Default packs are silently
// left alone.
func (s *Store) RenamePack(ctx context.Context, packID, name string) error {
	if flashcard.IsDefaultPackID(packID) {
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	pack := s.findPack(packID)
	if pack == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", store.ErrPackNotFound, packID)
	}
	renamed := *pack
	s.mu.Unlock()

	renamed.Name = name
	if err := flashcard.ValidatePack(renamed); err != nil {
		return err
	}

	payload, err := s.api.UpdatePack(ctx, packID, name, renamed.Description, renamed.Color)
	if err != nil {
		return fmt.Errorf("api.UpdatePack() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if pack := s.findPack(packID); pack != nil {
		pack.Name = payload.Name
		pack.Description = payload.Description
		pack.Color = payload.Color
	}
	s.last = nil
	s.lists.InvalidateAll()
	return nil
}

// DeletePack deletes a user pack on the server, then strips its id from
// every mirrored card. Default packs are silently left alone.
func (s *Store) DeletePack(ctx context.Context, packID string) error {
	if flashcard.IsDefaultPackID(packID) {
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	exists := s.findPack(packID) != nil
	s.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: %s", store.ErrPackNotFound, packID)
	}

	if err := s.api.DeletePack(ctx, packID); err != nil {
		return fmt.Errorf("api.DeletePack() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.packs = slices.DeleteFunc(s.packs, func(p flashcard.Pack) bool { return p.ID == packID })
	for i := range s.cards {
		s.cards[i].PackIDs = slices.DeleteFunc(s.cards[i].PackIDs, func(id string) bool {
			return id == packID
		})
	}
	s.last = nil
	s.lists.InvalidateAll()
	return nil
}

// MoveCardToPack adds the card to the pack via the server's membership
// endpoint.
func (s *Store) MoveCardToPack(ctx context.Context, cardID, packID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	card := s.findByID(cardID)
	if card == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}
	if s.findPack(packID) == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", store.ErrPackNotFound, packID)
	}
	if card.InPack(packID) {
		s.mu.Unlock()
		return nil
	}
	packIDs := append(slices.Clone(card.PackIDs), packID)
	s.mu.Unlock()

	return s.updateCardPacks(ctx, cardID, packIDs)
}

// RemoveCardFromPack drops the card's membership in a user pack via the
// server. Removal from a default pack is a silent no-op.
func (s *Store) RemoveCardFromPack(ctx context.Context, cardID, packID string) error {
	if flashcard.IsDefaultPackID(packID) {
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	card := s.findByID(cardID)
	if card == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}
	packIDs := slices.DeleteFunc(slices.Clone(card.PackIDs), func(id string) bool {
		return id == packID
	})
	s.mu.Unlock()

	return s.updateCardPacks(ctx, cardID, packIDs)
}

func (s *Store) updateCardPacks(ctx context.Context, cardID string, packIDs []string) error {
	payload, err := s.api.UpdateCardPacks(ctx, cardID, packIDs)
	if err != nil {
		return fmt.Errorf("api.UpdateCardPacks() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if card := s.findByID(cardID); card != nil {
		card.PackIDs = slices.Clone(payload.PackIDs)
	}
	s.last = nil
	s.lists.InvalidateAll()
	return nil
}

// ReorderPacks reorders the mirror's pack list. Ordering is local-only and
// never sent to the server.
func (s *Store) ReorderPacks(_ context.Context, packIDs []string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	var ordered []flashcard.Pack
	for _, id := range packIDs {
		for _, pack := range s.packs {
			if pack.ID == id {
				ordered = append(ordered, pack)
			}
		}
	}
	for _, pack := range s.packs {
		if !slices.Contains(packIDs, pack.ID) {
			ordered = append(ordered, pack)
		}
	}
	s.packs = ordered
	s.last = nil
	return nil
}

// ResetAll removes every card and user pack, best-effort: individual remote
// deletion failures are ignored so the reset always completes locally.
func (s *Store) ResetAll(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	cards := slices.Clone(s.cards)
	packs := slices.Clone(s.packs)
	s.mu.Unlock()

	for _, card := range cards {
		if err := s.api.RemoveCard(ctx, card.ID); err != nil {
			s.alerts.Warnf("reset: leaving card %s on server: %v", card.ID, err)
		}
	}
	for _, pack := range packs {
		if pack.IsDefault {
			continue
		}
		if err := s.api.DeletePack(ctx, pack.ID); err != nil {
			s.alerts.Warnf("reset: leaving pack %s on server: %v", pack.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = nil
	s.packs = flashcard.DefaultPacks(s.now())
	s.last = nil
	s.lists.InvalidateAll()
	return nil
}

// CardByID returns a copy of the mirrored card.
func (s *Store) CardByID(cardID string) (*flashcard.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := s.findByID(cardID)
	if card == nil {
		return nil, false
	}
	copied := card.Clone()
	return &copied, true
}

// CardBySource returns a copy of the mirrored card referencing the source.
func (s *Store) CardBySource(sourceType flashcard.SourceType, sourceID string) (*flashcard.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := s.findBySource(sourceType, sourceID)
	if card == nil {
		return nil, false
	}
	copied := card.Clone()
	return &copied, true
}

// IsCardSaved reports whether the mirror holds a card for the source.
func (s *Store) IsCardSaved(sourceType flashcard.SourceType, sourceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findBySource(sourceType, sourceID) != nil
}

// Cards returns a snapshot of the mirrored cards. Snapshots are deep copies:
// later pack-membership mutations never reach into them.
func (s *Store) Cards() []flashcard.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flashcard.CloneCards(s.cards)
}

// CardsByPack returns a snapshot of the pack's mirrored members.
func (s *Store) CardsByPack(packID string) []flashcard.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	var members []flashcard.Card
	for _, card := range s.cards {
		if card.InPack(packID) {
			members = append(members, card.Clone())
		}
	}
	return members
}

// DueCards returns the mirrored cards due now, optionally restricted to one
// pack.
func (s *Store) DueCards(packID string) []flashcard.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flashcard.CloneCards(flashcard.DueCards(s.cards, packID, s.now()))
}

// Packs returns a snapshot of the mirrored packs.
func (s *Store) Packs() []flashcard.Pack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.packs)
}

// Stats derives the aggregate view over the mirror and the local ledger.
func (s *Store) Stats() store.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.ComputeStats(s.cards, &s.ledger, s.streak, s.now())
}

// History returns copies of the locally kept review ledger and streak, for
// export.
func (s *Store) History() (history.Ledger, history.Streak) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := history.Ledger{Days: slices.Clone(s.ledger.Days)}
	return ledger, s.streak
}

func (s *Store) findByID(cardID string) *flashcard.Card {
	for i := range s.cards {
		if s.cards[i].ID == cardID {
			return &s.cards[i]
		}
	}
	return nil
}

func (s *Store) findBySource(sourceType flashcard.SourceType, sourceID string) *flashcard.Card {
	for i := range s.cards {
		if s.cards[i].SourceType == sourceType && s.cards[i].SourceID == sourceID {
			return &s.cards[i]
		}
	}
	return nil
}

func (s *Store) findPack(packID string) *flashcard.Pack {
	for i := range s.packs {
		if s.packs[i].ID == packID {
			return &s.packs[i]
		}
	}
	return nil
}
