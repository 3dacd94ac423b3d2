// Package localstore implements the study store against local key-value
// persistence. Every mutating operation writes back synchronously; when
// storage becomes unavailable the store degrades to an in-memory session
// with a deduplicated warning instead of failing.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wyliebrown1990/ai-timeline/internal/alert"
	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/history"
	"github.com/wyliebrown1990/ai-timeline/internal/kv"
	"github.com/wyliebrown1990/ai-timeline/internal/srs"
	"github.com/wyliebrown1990/ai-timeline/internal/store"
)

// lastReview is the single undo slot. Any other mutating operation clears it.
type lastReview struct {
	cardID  string
	quality int
	at      time.Time
	card    flashcard.Card
	streak  history.Streak
}

// Store is the local-only persistent study store.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	alerts *alert.Sink
	now    func() time.Time
	newID  func() string

	cards  []flashcard.Card
	packs  []flashcard.Pack
	ledger history.Ledger
	streak history.Streak

	last     *lastReview
	degraded bool
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the store's clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides entity id generation, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithAlertSink overrides the warning sink.
func WithAlertSink(sink *alert.Sink) Option {
	return func(s *Store) { s.alerts = sink }
}

// Open loads the persisted state from kvStore, migrating older schema
// versions forward and dropping records that fail validation.
func Open(ctx context.Context, kvStore kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kvStore,
		alerts: alert.NewSink(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		// Unreadable storage is non-fatal: keep the session alive in memory.
		s.alerts.Warnf("study storage unavailable, continuing in memory: %v", err)
		s.degraded = true
		s.kv = kv.NewMemoryStore()
		s.packs = flashcard.DefaultPacks(s.now())
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	versionValue, ok, err := s.kv.Get(ctx, store.KeySchemaVersion)
	if err != nil {
		return fmt.Errorf("kv.Get(%s) > %w", store.KeySchemaVersion, err)
	}
	if !ok {
		// Fresh install.
		s.packs = flashcard.DefaultPacks(s.now())
		return s.persistAll(ctx)
	}

	version, err := strconv.Atoi(versionValue)
	if err != nil {
		return fmt.Errorf("malformed schema version %q > %w", versionValue, err)
	}

	raw := &rawState{}
	if err := s.readJSON(ctx, store.KeyCards, &raw.Cards); err != nil {
		return err
	}
	if err := s.readJSON(ctx, store.KeyPacks, &raw.Packs); err != nil {
		return err
	}
	if version < SchemaVersion {
		applyMigrations(raw, version)
	}
	s.cards = decodeCards(raw.Cards, s.alerts)
	s.packs = decodePacks(raw.Packs, s.alerts)
	s.ensureDefaultPacks()

	// Ledger and streak are small and current-schema only; a malformed value
	// is dropped rather than failing the whole load.
	if err := s.readJSON(ctx, store.KeyDailyReviews, &s.ledger); err != nil {
		s.alerts.Warnf("dropping malformed review ledger: %v", err)
		s.ledger = history.Ledger{}
	}
	if err := s.readJSON(ctx, store.KeyStreak, &s.streak); err != nil {
		s.alerts.Warnf("dropping malformed streak state: %v", err)
		s.streak = history.Streak{}
	}

	if version < SchemaVersion {
		return s.persistAll(ctx)
	}
	return nil
}

// readJSON decodes the value under key into target. A missing key leaves
// target untouched.
func (s *Store) readJSON(ctx context.Context, key string, target any) error {
	value, ok, err := s.kv.Get(ctx, key)
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

// decodeCards converts migrated raw cards to typed ones, dropping invalid
// records individually instead of failing the load.
func decodeCards(raw []map[string]any, alerts *alert.Sink) []flashcard.Card {
	var cards []flashcard.Card
	for _, item := range raw {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var card flashcard.Card
		if err := json.Unmarshal(data, &card); err != nil {
			alerts.Warnf("dropping unreadable card record: %v", err)
			continue
		}
		if card.ID == "" || card.SourceID == "" || !card.SourceType.Valid() ||
			card.IntervalDays < 0 || card.Repetitions < 0 {
			alerts.Warnf("dropping invalid card record %q", card.ID)
			continue
		}
		if card.EaseFactor == 0 {
			card.EaseFactor = srs.DefaultEaseFactor
		}
		card.EaseFactor = min(max(card.EaseFactor, srs.MinEaseFactor), srs.MaxEaseFactor)
		cards = append(cards, card)
	}
	return cards
}

func decodePacks(raw []map[string]any, alerts *alert.Sink) []flashcard.Pack {
	var packs []flashcard.Pack
	for _, item := range raw {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var pack flashcard.Pack
		if err := json.Unmarshal(data, &pack); err != nil {
			alerts.Warnf("dropping unreadable pack record: %v", err)
			continue
		}
		if pack.ID == "" || pack.Name == "" || len(pack.Name) > 50 {
			alerts.Warnf("dropping invalid pack record %q", pack.ID)
			continue
		}
		packs = append(packs, pack)
	}
	return packs
}

// ensureDefaultPacks guarantees the system packs survive any migration or
// partial load.
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

func (s *Store) persistAll(ctx context.Context) error {
	for key, value := range map[string]any{
		store.KeyCards:        s.cards,
		store.KeyPacks:        s.packs,
		store.KeyDailyReviews: s.ledger,
		store.KeyStreak:       s.streak,
	} {
		if err := s.writeJSON(ctx, key, value); err != nil {
			return err
		}
	}
	if err := s.kv.Set(ctx, store.KeySchemaVersion, strconv.Itoa(SchemaVersion)); err != nil {
		return fmt.Errorf("kv.Set(%s) > %w", store.KeySchemaVersion, err)
	}
	return nil
}

func (s *Store) writeJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("kv.Set(%s) > %w", key, err)
	}
	return nil
}

// persist writes the full state back. A write failure flips the store to an
// in-memory session so the user keeps studying; the warning is deduplicated.
func (s *Store) persist(ctx context.Context) {
	if err := s.persistAll(ctx); err != nil {
		s.alerts.Warnf("study storage write failed, continuing in memory: %v", err)
		if !s.degraded {
			s.degraded = true
			s.kv = kv.NewMemoryStore()
			if err := s.persistAll(ctx); err != nil {
				slog.Default().Error("in-memory fallback persist failed", "error", err)
			}
		}
	}
}

// Degraded reports whether the store lost its persistent backing and is
// running in memory.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// AddCard creates a card for the source. Returns (nil, nil) when a card for
// the same source already exists.
func (s *Store) AddCard(ctx context.Context, sourceType flashcard.SourceType, sourceID string, packIDs []string) (*flashcard.Card, error) {
	if !sourceType.Valid() {
		return nil, fmt.Errorf("unknown source type %q", sourceType)
	}
	if sourceID == "" {
		return nil, fmt.Errorf("source id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findBySource(sourceType, sourceID) != nil {
		return nil, nil
	}

	card := flashcard.NewCard(s.newID(), sourceType, sourceID, s.now())
	for _, packID := range packIDs {
		if s.findPack(packID) != nil && !card.InPack(packID) {
			card.PackIDs = append(card.PackIDs, packID)
		}
	}
	s.cards = append(s.cards, card)
	s.last = nil
	s.persist(ctx)

	created := card
	return &created, nil
}

// RemoveCard deletes the card. Pack membership disappears with it.
func (s *Store) RemoveCard(ctx context.Context, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.cards, func(c flashcard.Card) bool { return c.ID == cardID })
	if index < 0 {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}
	s.cards = slices.Delete(s.cards, index, index+1)
	s.last = nil
	s.persist(ctx)
	return nil
}

// CardByID returns a copy of the card.
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

// CardBySource returns a copy of the card referencing the source.
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

// IsCardSaved reports whether a card for the source exists.
func (s *Store) IsCardSaved(sourceType flashcard.SourceType, sourceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findBySource(sourceType, sourceID) != nil
}

// Cards returns a snapshot of all cards. Snapshots are deep copies: later
// pack-membership mutations never reach into them.
func (s *Store) Cards() []flashcard.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flashcard.CloneCards(s.cards)
}

// CardsByPack returns a snapshot of the pack's members.
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

// DueCards returns the cards due now, optionally restricted to one pack.
func (s *Store) DueCards(packID string) []flashcard.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flashcard.CloneCards(flashcard.DueCards(s.cards, packID, s.now()))
}

// RecordReview applies a quality grade to the card, reschedules it, and
// updates the ledger and streak.
func (s *Store) RecordReview(ctx context.Context, cardID string, quality int) error {
	if !srs.ValidQuality(quality) {
		return fmt.Errorf("%w: %d", store.ErrInvalidQuality, quality)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card := s.findByID(cardID)
	if card == nil {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}

	now := s.now()
	s.last = &lastReview{
		cardID:  cardID,
		quality: quality,
		at:      now,
		card:    *card,
		streak:  s.streak,
	}

	card.ApplyScheduling(srs.ComputeNextReview(quality, card.Scheduling()), now)
	s.ledger.Record(now, quality)
	s.streak = s.streak.UpdateAfterReview(&s.ledger, now)
	s.persist(ctx)
	return nil
}

// UndoLastReview reverts the most recent review if it targeted cardID and no
// other mutation happened since.
func (s *Store) UndoLastReview(ctx context.Context, cardID string) bool {
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
	s.persist(ctx)
	return true
}

// AddStudyTime books study minutes on today's ledger entry.
func (s *Store) AddStudyTime(ctx context.Context, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.AddStudyTime(s.now(), minutes)
	s.persist(ctx)
	return nil
}

// CreatePack creates a user pack.
func (s *Store) CreatePack(ctx context.Context, name, description, color string) (*flashcard.Pack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pack := flashcard.NewPack(s.newID(), name, description, color, s.now())
	if err := flashcard.ValidatePack(pack); err != nil {
		return nil, err
	}
	s.packs = append(s.packs, pack)
	s.last = nil
	s.persist(ctx)

	created := pack
	return &created, nil
}

// RenamePack renames a user pack. Default packs are silently left alone.
func (s *Store) RenamePack(ctx context.Context, packID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flashcard.IsDefaultPackID(packID) {
		return nil
	}
	pack := s.findPack(packID)
	if pack == nil {
		return fmt.Errorf("%w: %s", store.ErrPackNotFound, packID)
	}

	renamed := *pack
	renamed.Name = name
	if err := flashcard.ValidatePack(renamed); err != nil {
		return err
	}
	pack.Name = name
	s.last = nil
	s.persist(ctx)
	return nil
}

// DeletePack removes a user pack and strips its id from every card. The
// cards themselves survive. Default packs are silently left alone.
func (s *Store) DeletePack(ctx context.Context, packID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flashcard.IsDefaultPackID(packID) {
		return nil
	}
	index := slices.IndexFunc(s.packs, func(p flashcard.Pack) bool { return p.ID == packID })
	if index < 0 {
		return fmt.Errorf("%w: %s", store.ErrPackNotFound, packID)
	}

	s.packs = slices.Delete(s.packs, index, index+1)
	for i := range s.cards {
		s.cards[i].PackIDs = slices.DeleteFunc(s.cards[i].PackIDs, func(id string) bool {
			return id == packID
		})
	}
	s.last = nil
	s.persist(ctx)
	return nil
}

// MoveCardToPack adds the card to the pack.
func (s *Store) MoveCardToPack(ctx context.Context, cardID, packID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := s.findByID(cardID)
	if card == nil {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}
	if s.findPack(packID) == nil {
		return fmt.Errorf("%w: %s", store.ErrPackNotFound, packID)
	}
	if !card.InPack(packID) {
		card.PackIDs = append(card.PackIDs, packID)
	}
	s.last = nil
	s.persist(ctx)
	return nil
}

// RemoveCardFromPack drops the card's membership in a user pack. Removal
// from a default pack is a silent no-op.
func (s *Store) RemoveCardFromPack(ctx context.Context, cardID, packID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flashcard.IsDefaultPackID(packID) {
		return nil
	}
	card := s.findByID(cardID)
	if card == nil {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}
	card.PackIDs = slices.DeleteFunc(card.PackIDs, func(id string) bool { return id == packID })
	s.last = nil
	s.persist(ctx)
	return nil
}

// ReorderPacks reorders the pack list by the given ids. Packs not listed keep
// their relative order after the listed ones.
func (s *Store) ReorderPacks(ctx context.Context, packIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reorderPacks(&s.packs, packIDs)
	s.last = nil
	s.persist(ctx)
	return nil
}

func reorderPacks(packs *[]flashcard.Pack, packIDs []string) {
	var ordered []flashcard.Pack
	for _, id := range packIDs {
		for _, pack := range *packs {
			if pack.ID == id {
				ordered = append(ordered, pack)
			}
		}
	}
	for _, pack := range *packs {
		if !slices.Contains(packIDs, pack.ID) {
			ordered = append(ordered, pack)
		}
	}
	*packs = ordered
}

// Packs returns a snapshot of all packs.
func (s *Store) Packs() []flashcard.Pack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.packs)
}

// Stats derives the aggregate view of the store's current state.
func (s *Store) Stats() store.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.ComputeStats(s.cards, &s.ledger, s.streak, s.now())
}

// ResetAll clears all cards and user packs and reinitializes the defaults.
// The review ledger and streak survive a reset.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = nil
	s.packs = flashcard.DefaultPacks(s.now())
	s.last = nil
	s.persist(ctx)
	return nil
}

// History returns copies of the review ledger and streak, for export.
func (s *Store) History() (history.Ledger, history.Streak) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := history.Ledger{Days: slices.Clone(s.ledger.Days)}
	return ledger, s.streak
}

// Restore replaces the whole persisted state with the given snapshot. Records
// go through the same validation as a load, so an imported file cannot smuggle
// in invalid cards or drop the system packs.
func (s *Store) Restore(ctx context.Context, cards []flashcard.Card, packs []flashcard.Pack, ledger history.Ledger, streak history.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	validCards := make([]flashcard.Card, 0, len(cards))
	for _, card := range cards {
		if card.ID == "" || card.SourceID == "" || !card.SourceType.Valid() ||
			card.IntervalDays < 0 || card.Repetitions < 0 {
			return fmt.Errorf("invalid card record %q", card.ID)
		}
		if card.EaseFactor == 0 {
			card.EaseFactor = srs.DefaultEaseFactor
		}
		card.EaseFactor = min(max(card.EaseFactor, srs.MinEaseFactor), srs.MaxEaseFactor)
		validCards = append(validCards, card)
	}
	validPacks := make([]flashcard.Pack, 0, len(packs))
	for _, pack := range packs {
		if pack.ID == "" || pack.Name == "" || len(pack.Name) > 50 {
			return fmt.Errorf("invalid pack record %q", pack.ID)
		}
		validPacks = append(validPacks, pack)
	}

	s.cards = validCards
	s.packs = validPacks
	s.ensureDefaultPacks()
	s.ledger = ledger
	s.streak = streak
	s.last = nil
	s.persist(ctx)
	return nil
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
