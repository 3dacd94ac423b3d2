package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyliebrown1990/ai-timeline/internal/config"
)

func TestSetupTestConfig(t *testing.T) {
	configPath := SetupTestConfig(t, t.TempDir())

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Study.Backend)
	assert.NotEmpty(t, cfg.Storage.Path)
}

func TestNewSeededStore(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	s := NewSeededStore(t, now, "transformer", "alexnet")

	assert.Len(t, s.Cards(), 2)
	assert.Len(t, s.DueCards(""), 2)
}
