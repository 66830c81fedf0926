package inmem

import (
	"sync"
	"time"

	"github.com/tupine/lifegear/storage/session"
)

type (
	sessionData struct {
		values   map[string][]byte
		lastSeen time.Time
	}

	Store struct {
		mu       sync.RWMutex
		sessions map[string]*sessionData

		subMu sync.Mutex
		subs  map[chan session.Change]struct{}
	}
)

var _ session.Store = (*Store)(nil)

func Open() *Store {
	return &Store{
		sessions: make(map[string]*sessionData),
		subs:     make(map[chan session.Change]struct{}),
	}
}

func (s *Store) Get(sessionID, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	val, ok := sess.values[key]
	return val, ok
}

func (s *Store) Set(sessionID, key string, value []byte) {
	s.mu.Lock()
	sess := s.session(sessionID)
	sess.values[key] = value
	sess.lastSeen = time.Now()
	s.mu.Unlock()

	s.notify(session.Change{SessionID: sessionID, Key: key})
}

func (s *Store) Remove(sessionID, key string) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(sess.values, key)
		sess.lastSeen = time.Now()
	}
	s.mu.Unlock()

	if ok {
		s.notify(session.Change{SessionID: sessionID, Key: key})
	}
}

func (s *Store) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(sessionID).lastSeen = time.Now()
}

func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *Store) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) Watch() (<-chan session.Change, func()) {
	ch := make(chan session.Change, 16)

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		delete(s.subs, ch)
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) PurgeIdle(ttl time.Duration) int {
	deadline := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var dropped int
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// session returns the session's data, creating it if needed. Caller holds mu.
func (s *Store) session(sessionID string) *sessionData {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &sessionData{values: make(map[string][]byte)}
		s.sessions[sessionID] = sess
	}
	return sess
}

func (s *Store) notify(chg session.Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- chg:
		default: // subscriber lagging, skip
		}
	}
}
