// Package datasync provides export/import of the whole study state as a YAML
// snapshot, for backups and for moving a local store between machines.
package datasync

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/history"
)

// Snapshot is the exported study state.
type Snapshot struct {
	ExportedAt   time.Time        `yaml:"exported_at"`
	Cards        []flashcard.Card `yaml:"cards"`
	Packs        []flashcard.Pack `yaml:"packs"`
	DailyReviews history.Ledger   `yaml:"daily_reviews"`
	Streak       history.Streak   `yaml:"streak"`
}

// Source is the read side of a store a snapshot can be taken from. Both store
// backends satisfy it.
type Source interface {
	Cards() []flashcard.Card
	Packs() []flashcard.Pack
	History() (history.Ledger, history.Streak)
}

// Restorer is a store whose whole state can be replaced by a snapshot. Only
// the local backend supports this; imported scheduling state would diverge
// from a remote server.
type Restorer interface {
	Restore(ctx context.Context, cards []flashcard.Card, packs []flashcard.Pack, ledger history.Ledger, streak history.Streak) error
}

// Export takes a snapshot of src at now.
func Export(src Source, now time.Time) *Snapshot {
	ledger, streak := src.History()
	return &Snapshot{
		ExportedAt:   now,
		Cards:        src.Cards(),
		Packs:        src.Packs(),
		DailyReviews: ledger,
		Streak:       streak,
	}
}

// WriteSnapshot writes the snapshot as YAML.
func WriteSnapshot(w io.Writer, snapshot *Snapshot) error {
	encoder := yaml.NewEncoder(w)
	defer func() {
		_ = encoder.Close()
	}()

	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("yaml.Encode() > %w", err)
	}
	return nil
}

// ReadSnapshot parses a YAML snapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snapshot Snapshot
	if err := yaml.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("yaml.Decode() > %w", err)
	}
	return &snapshot, nil
}

// ImportResult tracks what an import applied.
type ImportResult struct {
	Cards int
	Packs int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	// DryRun parses and validates without touching the store.
	DryRun bool
}

// Import replaces dst's state with the snapshot. The store re-validates every
// record, so a hand-edited file fails cleanly instead of half-applying.
func Import(ctx context.Context, dst Restorer, snapshot *Snapshot, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{
		Cards: len(snapshot.Cards),
		Packs: len(snapshot.Packs),
	}
	if opts.DryRun {
		return result, nil
	}

	if err := dst.Restore(ctx, snapshot.Cards, snapshot.Packs, snapshot.DailyReviews, snapshot.Streak); err != nil {
		return nil, fmt.Errorf("store.Restore() > %w", err)
	}
	return result, nil
}
