package localstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/kv"
	mock_kv "github.com/wyliebrown1990/ai-timeline/internal/mocks/kv"
	"github.com/wyliebrown1990/ai-timeline/internal/store"
)

func TestOpen_UnreadableStorageFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	kvStore := mock_kv.NewMockStore(ctrl)
	kvStore.EXPECT().Get(gomock.Any(), store.KeySchemaVersion).
		Return("", false, errors.New("disk failure"))

	s, err := Open(ctx, kvStore, WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err, "an unreadable store still yields a working session")
	assert.True(t, s.Degraded())

	packs := s.Packs()
	require.Len(t, packs, 2, "the in-memory session starts from the default packs")
	assert.Equal(t, flashcard.PackAllID, packs[0].ID)

	// The session stays fully usable: no further calls reach the broken store.
	card, err := s.AddCard(ctx, flashcard.SourceMilestone, "transformer", nil)
	require.NoError(t, err)
	require.NotNil(t, card)
	require.NoError(t, s.RecordReview(ctx, card.ID, 4))
	assert.Equal(t, 1, s.Stats().ReviewedToday)
}

// flakyKV serves reads from a real in-memory store but can start failing
// writes mid-session.
type flakyKV struct {
	kv.Store
	failWrites bool
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failWrites {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestStore_WriteFailureFlipsToMemory(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyKV{Store: kv.NewMemoryStore()}

	s, err := Open(ctx, flaky, WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	require.False(t, s.Degraded())

	_, err = s.AddCard(ctx, flashcard.SourceMilestone, "transformer", nil)
	require.NoError(t, err)
	require.False(t, s.Degraded(), "healthy writes keep the persistent backing")

	flaky.failWrites = true

	card, err := s.AddCard(ctx, flashcard.SourceConcept, "attention", nil)
	require.NoError(t, err, "a failed write degrades instead of erroring")
	require.NotNil(t, card)
	assert.True(t, s.Degraded())

	// Operation continues against the in-memory fallback.
	require.NoError(t, s.RecordReview(ctx, card.ID, 5))
	assert.Equal(t, 1, s.Stats().ReviewedToday)
	assert.Len(t, s.Cards(), 2)
}

func TestStore_SnapshotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	pack, err := s.CreatePack(ctx, "Foundations", "", "")
	require.NoError(t, err)
	card, err := s.AddCard(ctx, flashcard.SourceMilestone, "transformer", []string{pack.ID})
	require.NoError(t, err)

	snapshot := s.Cards()
	require.Len(t, snapshot, 1)
	require.Contains(t, snapshot[0].PackIDs, pack.ID)

	byID, ok := s.CardByID(card.ID)
	require.True(t, ok)

	require.NoError(t, s.DeletePack(ctx, pack.ID))

	assert.Contains(t, snapshot[0].PackIDs, pack.ID, "a snapshot taken earlier keeps its membership")
	assert.Contains(t, byID.PackIDs, pack.ID)

	current := s.Cards()
	require.Len(t, current, 1)
	assert.NotContains(t, current[0].PackIDs, pack.ID)
}
