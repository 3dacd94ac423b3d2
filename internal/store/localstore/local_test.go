package localstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/kv"
	"github.com/wyliebrown1990/ai-timeline/internal/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*Store, *testClock, kv.Store) {
	t.Helper()

	clock := &testClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	kvStore := kv.NewMemoryStore()

	sequence := 0
	s, err := Open(context.Background(), kvStore,
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			sequence++
			return fmt.Sprintf("id-%d", sequence)
		}),
	)
	require.NoError(t, err)
	return s, clock, kvStore
}

func TestOpen_FreshInstall(t *testing.T) {
	s, _, _ := newTestStore(t)

	packs := s.Packs()
	require.Len(t, packs, 2)
	assert.Equal(t, flashcard.PackAllID, packs[0].ID)
	assert.Equal(t, flashcard.PackRecentID, packs[1].ID)
	assert.Empty(t, s.Cards())
}

func TestStore_AddCard(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	card, err := s.AddCard(ctx, flashcard.SourceMilestone, "transformer-2017", nil)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, []string{flashcard.PackAllID, flashcard.PackRecentID}, card.PackIDs)
	assert.True(t, s.IsCardSaved(flashcard.SourceMilestone, "transformer-2017"))

	t.Run("duplicate source is a nil no-op", func(t *testing.T) {
		duplicate, err := s.AddCard(ctx, flashcard.SourceMilestone, "transformer-2017", nil)
		require.NoError(t, err)
		assert.Nil(t, duplicate)
		assert.Len(t, s.Cards(), 1)
		assert.True(t, s.IsCardSaved(flashcard.SourceMilestone, "transformer-2017"))
	})

	t.Run("same source id under a different type is a new card", func(t *testing.T) {
		other, err := s.AddCard(ctx, flashcard.SourceConcept, "transformer-2017", nil)
		require.NoError(t, err)
		assert.NotNil(t, other)
	})

	t.Run("extra pack ids are honored when the pack exists", func(t *testing.T) {
		pack, err := s.CreatePack(ctx, "NLP", "", "#10b981")
		require.NoError(t, err)

		card, err := s.AddCard(ctx, flashcard.SourceConcept, "word2vec", []string{pack.ID, "no-such-pack"})
		require.NoError(t, err)
		require.NotNil(t, card)
		assert.Contains(t, card.PackIDs, pack.ID)
		assert.NotContains(t, card.PackIDs, "no-such-pack")
	})

	t.Run("invalid source type is an error", func(t *testing.T) {
		_, err := s.AddCard(ctx, "event", "x", nil)
		assert.Error(t, err)
	})
}

func TestStore_RemoveCard(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	card, err := s.AddCard(ctx, flashcard.SourceConcept, "attention", nil)
	require.NoError(t, err)

	require.NoError(t, s.RemoveCard(ctx, card.ID))
	assert.Empty(t, s.Cards())
	assert.False(t, s.IsCardSaved(flashcard.SourceConcept, "attention"))

	err = s.RemoveCard(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestStore_RecordReview(t *testing.T) {
	ctx := context.Background()
	s, clock, _ := newTestStore(t)

	card, err := s.AddCard(ctx, flashcard.SourceMilestone, "gpt-3", nil)
	require.NoError(t, err)

	require.NoError(t, s.RecordReview(ctx, card.ID, 5))

	reviewed, ok := s.CardByID(card.ID)
	require.True(t, ok)
	assert.InDelta(t, 2.6, reviewed.EaseFactor, 0.0001)
	assert.Equal(t, 1, reviewed.IntervalDays)
	assert.Equal(t, 1, reviewed.Repetitions)
	require.NotNil(t, reviewed.NextReviewAt)
	assert.Equal(t, clock.Now().AddDate(0, 0, 1), *reviewed.NextReviewAt)

	stats := s.Stats()
	assert.Equal(t, 1, stats.ReviewedToday)
	assert.Equal(t, 1, stats.CorrectToday)
	assert.Equal(t, 1, stats.CurrentStreak)

	t.Run("next-day review grows the streak and the interval", func(t *testing.T) {
		clock.Advance(24 * time.Hour)
		require.NoError(t, s.RecordReview(ctx, card.ID, 5))

		reviewed, ok := s.CardByID(card.ID)
		require.True(t, ok)
		assert.Equal(t, 6, reviewed.IntervalDays)
		assert.Equal(t, 2, reviewed.Repetitions)

		stats := s.Stats()
		assert.Equal(t, 2, stats.CurrentStreak)
		assert.Equal(t, 2, stats.LongestStreak)
	})

	t.Run("skipping a day resets the current streak", func(t *testing.T) {
		clock.Advance(48 * time.Hour)
		require.NoError(t, s.RecordReview(ctx, card.ID, 2))

		stats := s.Stats()
		assert.Equal(t, 1, stats.CurrentStreak)
		assert.Equal(t, 2, stats.LongestStreak)
	})

	t.Run("unknown card", func(t *testing.T) {
		assert.ErrorIs(t, s.RecordReview(ctx, "nope", 4), store.ErrCardNotFound)
	})

	t.Run("quality out of range", func(t *testing.T) {
		assert.ErrorIs(t, s.RecordReview(ctx, card.ID, 6), store.ErrInvalidQuality)
	})
}

func TestStore_UndoLastReview(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	card, err := s.AddCard(ctx, flashcard.SourceMilestone, "alexnet", nil)
	require.NoError(t, err)

	t.Run("nothing to undo yet", func(t *testing.T) {
		assert.False(t, s.UndoLastReview(ctx, card.ID))
	})

	require.NoError(t, s.RecordReview(ctx, card.ID, 4))

	t.Run("wrong card does not undo", func(t *testing.T) {
		assert.False(t, s.UndoLastReview(ctx, "other-card"))
	})

	t.Run("undo restores scheduling, ledger and streak", func(t *testing.T) {
		require.True(t, s.UndoLastReview(ctx, card.ID))

		restored, ok := s.CardByID(card.ID)
		require.True(t, ok)
		assert.Equal(t, 0, restored.Repetitions)
		assert.Equal(t, 0, restored.IntervalDays)
		assert.Nil(t, restored.LastReviewedAt)

		stats := s.Stats()
		assert.Zero(t, stats.ReviewedToday)
		assert.Zero(t, stats.CurrentStreak)
	})

	t.Run("the slot only holds one review", func(t *testing.T) {
		assert.False(t, s.UndoLastReview(ctx, card.ID))
	})

	t.Run("an intervening mutation clears the slot", func(t *testing.T) {
		require.NoError(t, s.RecordReview(ctx, card.ID, 4))
		_, err := s.CreatePack(ctx, "Vision", "", "")
		require.NoError(t, err)
		assert.False(t, s.UndoLastReview(ctx, card.ID))
	})
}

func TestStore_PackOperations(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	pack, err := s.CreatePack(ctx, "Symbolic AI", "The pre-connectionist era", "#ef4444")
	require.NoError(t, err)

	card, err := s.AddCard(ctx, flashcard.SourceMilestone, "shrdlu", []string{pack.ID})
	require.NoError(t, err)

	t.Run("invalid pack attributes are rejected", func(t *testing.T) {
		_, err := s.CreatePack(ctx, "", "", "")
		assert.Error(t, err)
	})

	t.Run("rename user pack", func(t *testing.T) {
		require.NoError(t, s.RenamePack(ctx, pack.ID, "Classic AI"))
		packs := s.Packs()
		index := indexOfPack(packs, pack.ID)
		require.GreaterOrEqual(t, index, 0)
		assert.Equal(t, "Classic AI", packs[index].Name)
	})

	t.Run("rename default pack is a silent no-op", func(t *testing.T) {
		require.NoError(t, s.RenamePack(ctx, flashcard.PackAllID, "Everything"))
		packs := s.Packs()
		index := indexOfPack(packs, flashcard.PackAllID)
		require.GreaterOrEqual(t, index, 0)
		assert.Equal(t, "All Cards", packs[index].Name)
	})

	t.Run("remove card from user pack", func(t *testing.T) {
		require.NoError(t, s.RemoveCardFromPack(ctx, card.ID, pack.ID))
		got, ok := s.CardByID(card.ID)
		require.True(t, ok)
		assert.NotContains(t, got.PackIDs, pack.ID)
	})

	t.Run("remove card from default pack is a silent no-op", func(t *testing.T) {
		require.NoError(t, s.RemoveCardFromPack(ctx, card.ID, flashcard.PackAllID))
		got, ok := s.CardByID(card.ID)
		require.True(t, ok)
		assert.Contains(t, got.PackIDs, flashcard.PackAllID)
	})

	t.Run("move card to pack is idempotent", func(t *testing.T) {
		require.NoError(t, s.MoveCardToPack(ctx, card.ID, pack.ID))
		require.NoError(t, s.MoveCardToPack(ctx, card.ID, pack.ID))
		got, ok := s.CardByID(card.ID)
		require.True(t, ok)
		assert.Equal(t, 1, countOf(got.PackIDs, pack.ID))
	})

	t.Run("delete user pack strips membership but keeps cards", func(t *testing.T) {
		require.NoError(t, s.DeletePack(ctx, pack.ID))
		assert.Len(t, s.Cards(), 1)
		got, ok := s.CardByID(card.ID)
		require.True(t, ok)
		assert.NotContains(t, got.PackIDs, pack.ID)
	})

	t.Run("delete default pack is a silent no-op", func(t *testing.T) {
		before := len(s.Packs())
		require.NoError(t, s.DeletePack(ctx, flashcard.PackAllID))
		assert.Len(t, s.Packs(), before)
	})

	t.Run("reorder packs", func(t *testing.T) {
		require.NoError(t, s.ReorderPacks(ctx, []string{flashcard.PackRecentID, flashcard.PackAllID}))
		packs := s.Packs()
		assert.Equal(t, flashcard.PackRecentID, packs[0].ID)
		assert.Equal(t, flashcard.PackAllID, packs[1].ID)
	})
}

func TestStore_DueCards(t *testing.T) {
	ctx := context.Background()
	s, clock, _ := newTestStore(t)

	first, err := s.AddCard(ctx, flashcard.SourceMilestone, "gpt-3", nil)
	require.NoError(t, err)
	second, err := s.AddCard(ctx, flashcard.SourceConcept, "attention", nil)
	require.NoError(t, err)

	require.NoError(t, s.RecordReview(ctx, first.ID, 5))

	due := s.DueCards("")
	require.Len(t, due, 1, "the reviewed card moved a day out")
	assert.Equal(t, second.ID, due[0].ID)

	clock.Advance(25 * time.Hour)
	assert.Len(t, s.DueCards(""), 2)
	assert.Len(t, s.DueCards(flashcard.PackAllID), 2)
	assert.Empty(t, s.DueCards("no-such-pack"))
}

func TestStore_ResetAll(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	_, err := s.AddCard(ctx, flashcard.SourceMilestone, "gpt-3", nil)
	require.NoError(t, err)
	pack, err := s.CreatePack(ctx, "Era", "", "")
	require.NoError(t, err)
	card, _ := s.CardBySource(flashcard.SourceMilestone, "gpt-3")
	require.NoError(t, s.RecordReview(ctx, card.ID, 5))

	require.NoError(t, s.ResetAll(ctx))

	assert.Empty(t, s.Cards())
	packs := s.Packs()
	require.Len(t, packs, 2)
	assert.True(t, packs[0].IsDefault)
	assert.Negative(t, indexOfPack(packs, pack.ID))

	stats := s.Stats()
	assert.Equal(t, 1, stats.ReviewedToday, "ledger survives a reset")
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, clock, kvStore := newTestStore(t)

	card, err := s.AddCard(ctx, flashcard.SourceMilestone, "gpt-3", nil)
	require.NoError(t, err)
	_, err = s.CreatePack(ctx, "LLMs", "Large language models", "#3b82f6")
	require.NoError(t, err)
	require.NoError(t, s.RecordReview(ctx, card.ID, 5))
	require.NoError(t, s.AddStudyTime(ctx, 7))

	reopened, err := Open(ctx, kvStore, WithClock(clock.Now))
	require.NoError(t, err)

	assert.Len(t, reopened.Cards(), 1)
	assert.Len(t, reopened.Packs(), 3)
	got, ok := reopened.CardBySource(flashcard.SourceMilestone, "gpt-3")
	require.True(t, ok)
	assert.Equal(t, 1, got.Repetitions)

	stats := reopened.Stats()
	assert.Equal(t, 1, stats.ReviewedToday)
	assert.Equal(t, 7, stats.StudyMinutesToday)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func indexOfPack(packs []flashcard.Pack, id string) int {
	for i, pack := range packs {
		if pack.ID == id {
			return i
		}
	}
	return -1
}

func countOf(values []string, target string) int {
	count := 0
	for _, v := range values {
		if v == target {
			count++
		}
	}
	return count
}
