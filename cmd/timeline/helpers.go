package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wyliebrown1990/ai-timeline/internal/config"
	"github.com/wyliebrown1990/ai-timeline/internal/kv"
	"github.com/wyliebrown1990/ai-timeline/internal/remote"
	"github.com/wyliebrown1990/ai-timeline/internal/store"
	"github.com/wyliebrown1990/ai-timeline/internal/store/localstore"
	"github.com/wyliebrown1990/ai-timeline/internal/store/remotestore"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openStore builds the configured store backend. The returned closer must be
// called once the command is done.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	switch cfg.Study.Backend {
	case "remote":
		return openRemoteStore(ctx, cfg)
	default:
		return openLocalStore(ctx, cfg)
	}
}

func openLocalStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	kvStore, err := openKV(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}

	s, err := localstore.Open(ctx, kvStore)
	if err != nil {
		_ = kvStore.Close()
		return nil, nil, fmt.Errorf("localstore.Open() > %w", err)
	}
	return s, kvStore.Close, nil
}

func openRemoteStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	// The ledger and streak stay local even with the remote backend.
	kvStore, err := openKV(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}

	client := remote.NewClient(
		cfg.Remote.BaseURL,
		cfg.Remote.SessionID,
		time.Duration(cfg.Remote.TimeoutSeconds)*time.Second,
		uint(cfg.Remote.MaxRetries),
	)
	s := remotestore.New(client, kvStore,
		remotestore.WithListCacheTTL(time.Duration(cfg.Remote.CacheTTLSeconds)*time.Second))
	if err := s.Load(ctx); err != nil {
		_ = kvStore.Close()
		return nil, nil, fmt.Errorf("remotestore.Load() > %w", err)
	}
	return s, kvStore.Close, nil
}

func openKV(path string) (kv.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}
	kvStore, err := kv.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("kv.OpenSQLite(%s) > %w", path, err)
	}
	return kvStore, nil
}
