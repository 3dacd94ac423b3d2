package localstore

import "time"

// SchemaVersion is the current on-disk schema. Older stored shapes are
// coerced forward by the migration chain below before typed decoding.
const SchemaVersion = 2

// rawState is the leniently decoded persisted state the migrations operate
// on. Typed decoding and per-item validation happen after the chain ran.
type rawState struct {
	Cards []map[string]any
	Packs []map[string]any
}

type migration struct {
	from  int
	apply func(st *rawState)
}

// The chain is keyed by source version and applied in sequence, so a future
// schema bump only appends one entry.
var migrations = []migration{
	{from: 0, apply: migrateSeedPackMembership},
	{from: 1, apply: migrateNextReviewToTimestamp},
}

func applyMigrations(st *rawState, fromVersion int) {
	for _, m := range migrations {
		if m.from >= fromVersion {
			m.apply(st)
		}
	}
}

// v0 predates packs: cards carried no membership and counted successes under
// "success_count".
func migrateSeedPackMembership(st *rawState) {
	for _, card := range st.Cards {
		if _, ok := card["pack_ids"]; !ok {
			card["pack_ids"] = []any{"pack-all", "pack-recent"}
		}
		if count, ok := card["success_count"]; ok {
			if _, exists := card["repetitions"]; !exists {
				card["repetitions"] = count
			}
			delete(card, "success_count")
		}
	}
}

// v1 stored next_review_at as Unix milliseconds; v2 uses RFC 3339.
func migrateNextReviewToTimestamp(st *rawState) {
	for _, card := range st.Cards {
		millis, ok := card["next_review_at"].(float64)
		if !ok {
			continue
		}
		card["next_review_at"] = time.UnixMilli(int64(millis)).UTC().Format(time.RFC3339)
	}
}
