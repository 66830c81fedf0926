package inmem

import (
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	store := Open()

	if _, ok := store.Get("sid", "key"); ok {
		t.Error("Get() on empty store reported a value")
	}

	store.Set("sid", "key", []byte("value"))
	val, ok := store.Get("sid", "key")
	if !ok || string(val) != "value" {
		t.Errorf("Get() = %q, %v; want %q, true", val, ok, "value")
	}

	// sessions do not leak into each other
	if _, ok = store.Get("other", "key"); ok {
		t.Error("Get() crossed session boundaries")
	}

	store.Remove("sid", "key")
	if _, ok = store.Get("sid", "key"); ok {
		t.Error("Get() after Remove() reported a value")
	}
}

func TestStoreDrop(t *testing.T) {
	store := Open()
	store.Set("sid", "a", []byte("1"))
	store.Set("sid", "b", []byte("2"))

	store.Drop("sid")

	if _, ok := store.Get("sid", "a"); ok {
		t.Error("Get() after Drop() reported a value")
	}
	if got := store.Sessions(); len(got) != 0 {
		t.Errorf("Sessions() = %v, want none", got)
	}
}

func TestStoreWatch(t *testing.T) {
	store := Open()
	changes, cancel := store.Watch()
	defer cancel()

	store.Set("sid", "removed-entries", []byte("[]"))

	select {
	case chg := <-changes:
		if chg.SessionID != "sid" || chg.Key != "removed-entries" {
			t.Errorf("Watch() change = %+v", chg)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch() did not deliver the change")
	}

	// removing an existing key also notifies
	store.Remove("sid", "removed-entries")
	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("Watch() did not deliver the removal")
	}

	// removing from an unknown session does not
	store.Remove("ghost", "key")
	select {
	case chg := <-changes:
		t.Errorf("Watch() delivered unexpected change %+v", chg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStorePurgeIdle(t *testing.T) {
	store := Open()
	store.Set("old", "k", []byte("v"))
	store.Set("fresh", "k", []byte("v"))

	// age the old session directly
	store.mu.Lock()
	store.sessions["old"].lastSeen = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()

	if dropped := store.PurgeIdle(time.Hour); dropped != 1 {
		t.Errorf("PurgeIdle() = %d, want 1", dropped)
	}
	if _, ok := store.Get("old", "k"); ok {
		t.Error("Get() found purged session")
	}
	if _, ok := store.Get("fresh", "k"); !ok {
		t.Error("Get() lost live session")
	}
}
