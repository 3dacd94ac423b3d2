package datasync

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/kv"
	"github.com/wyliebrown1990/ai-timeline/internal/store/localstore"
)

var syncNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func newSyncStore(t *testing.T) *localstore.Store {
	t.Helper()
	ctx := context.Background()

	next := 0
	s, err := localstore.Open(ctx, kv.NewMemoryStore(),
		localstore.WithClock(func() time.Time { return syncNow }),
		localstore.WithIDGenerator(func() string {
			next++
			return []string{"card-1", "card-2", "pack-1"}[next-1]
		}))
	require.NoError(t, err)
	return s
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newSyncStore(t)

	_, err := src.AddCard(ctx, flashcard.SourceMilestone, "transformer", nil)
	require.NoError(t, err)
	_, err = src.AddCard(ctx, flashcard.SourceConcept, "attention", nil)
	require.NoError(t, err)
	_, err = src.CreatePack(ctx, "Foundations", "the early years", "#10b981")
	require.NoError(t, err)
	require.NoError(t, src.RecordReview(ctx, "card-1", 5))
	require.NoError(t, src.AddStudyTime(ctx, 12))

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, Export(src, syncNow)))

	snapshot, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Len(t, snapshot.Cards, 2)
	assert.Len(t, snapshot.Packs, 3)

	dst := newSyncStore(t)
	result, err := Import(ctx, dst, snapshot, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Cards)
	assert.Equal(t, 3, result.Packs)

	card, ok := dst.CardByID("card-1")
	require.True(t, ok)
	assert.Equal(t, 1, card.Repetitions, "scheduling state survives the round trip")
	require.NotNil(t, card.NextReviewAt)

	stats := dst.Stats()
	assert.Equal(t, 1, stats.ReviewedToday)
	assert.Equal(t, 12, stats.StudyMinutesToday)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestImport_DryRunLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	src := newSyncStore(t)
	_, err := src.AddCard(ctx, flashcard.SourceMilestone, "transformer", nil)
	require.NoError(t, err)

	snapshot := Export(src, syncNow)

	dst := newSyncStore(t)
	result, err := Import(ctx, dst, snapshot, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Cards)
	assert.Empty(t, dst.Cards())
}

func TestImport_RejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	dst := newSyncStore(t)

	snapshot := &Snapshot{
		Cards: []flashcard.Card{{ID: "c1", SourceType: "video", SourceID: "x"}},
	}
	_, err := Import(ctx, dst, snapshot, ImportOptions{})
	require.Error(t, err)
	assert.Empty(t, dst.Cards())
}

func TestReadSnapshot_RejectsMalformedYAML(t *testing.T) {
	_, err := ReadSnapshot(strings.NewReader("cards: [[[not yaml"))
	require.Error(t, err)
}
