// Package bin is the recycle bin for calendar entries: a session-scoped
// ledger of removed event ids that hides events from aggregation without
// ever mutating campus data.
package bin

import (
	"encoding/json"
	"time"

	"github.com/tupine/lifegear/storage/session"
)

// StorageKey is the namespaced session-storage key holding the ledger.
// Exported so store watchers can tell ledger mutations from other writes.
const StorageKey = "lg:removedEntries"

var nowFunc = time.Now // for tests

type Service struct {
	store session.Store
}

func NewService(store session.Store) *Service {
	return &Service{store: store}
}

// Entries returns the session's current ledger. An absent or corrupt value
// reads as an empty ledger.
func (svc *Service) Entries(sessionID string) []RemovedEntry {
	raw, ok := svc.store.Get(sessionID, StorageKey)
	if !ok {
		return []RemovedEntry{}
	}
	var entries []RemovedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []RemovedEntry{}
	}
	return entries
}

// IDs returns just the hidden event ids.
func (svc *Service) IDs(sessionID string) []string {
	entries := svc.Entries(sessionID)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// Add records an entry, stamping DeletedAt with the current time when unset.
// The id is the dedup key: re-adding an id overwrites the existing entry,
// refreshing its title, kind and timestamp.
func (svc *Service) Add(sessionID string, entry RemovedEntry) {
	if entry.DeletedAt == 0 {
		entry.DeletedAt = nowFunc().UnixNano() / int64(time.Millisecond)
	}

	entries := svc.Entries(sessionID)
	replaced := false
	for i, e := range entries {
		if e.ID == entry.ID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	svc.write(sessionID, entries)
}

// RestoreOne removes the id from the ledger, un-hiding the event on the next
// aggregation pass.
func (svc *Service) RestoreOne(sessionID, id string) {
	entries := svc.Entries(sessionID)
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	svc.write(sessionID, kept)
}

// RestoreAll empties the session's ledger.
func (svc *Service) RestoreAll(sessionID string) {
	svc.store.Remove(sessionID, StorageKey)
}

// PurgeExpired drops entries recorded more than maxAgeDays ago. Idempotent:
// running it twice leaves the same ledger as running it once.
func (svc *Service) PurgeExpired(sessionID string, maxAgeDays int) int {
	ttl := time.Duration(maxAgeDays) * 24 * time.Hour
	deadline := nowFunc().Add(-ttl).UnixNano() / int64(time.Millisecond)

	entries := svc.Entries(sessionID)
	kept := entries[:0]
	for _, e := range entries {
		if e.DeletedAt > deadline {
			kept = append(kept, e)
		}
	}
	dropped := len(entries) - len(kept)
	if dropped > 0 {
		svc.write(sessionID, kept)
	}
	return dropped
}

// PurgeAllExpired runs PurgeExpired on every live session and returns the ids
// of sessions whose ledger changed.
func (svc *Service) PurgeAllExpired(maxAgeDays int) []string {
	var changed []string
	for _, sid := range svc.store.Sessions() {
		if svc.PurgeExpired(sid, maxAgeDays) > 0 {
			changed = append(changed, sid)
		}
	}
	return changed
}

func (svc *Service) write(sessionID string, entries []RemovedEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	svc.store.Set(sessionID, StorageKey, raw)
}
