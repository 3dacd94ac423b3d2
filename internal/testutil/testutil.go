// Package testutil provides shared test helpers for config files and seeded
// stores.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/kv"
	"github.com/wyliebrown1990/ai-timeline/internal/store/localstore"
)

// SetupTestConfig writes a minimal local-backend config file into tmpDir and
// returns its path.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`study:
  backend: local
storage:
  path: %s
`,
		filepath.Join(tmpDir, "study.db"),
	)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	return configPath
}

// NewSeededStore opens an in-memory local store at a fixed clock with one due
// card per given source id.
func NewSeededStore(t *testing.T, now time.Time, sourceIDs ...string) *localstore.Store {
	t.Helper()
	ctx := context.Background()

	next := 0
	s, err := localstore.Open(ctx, kv.NewMemoryStore(),
		localstore.WithClock(func() time.Time { return now }),
		localstore.WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("id-%d", next)
		}))
	require.NoError(t, err)

	for _, sourceID := range sourceIDs {
		_, err := s.AddCard(ctx, flashcard.SourceMilestone, sourceID, nil)
		require.NoError(t, err)
	}
	return s
}
