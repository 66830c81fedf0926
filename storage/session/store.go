// Package session defines the session-scoped storage port: a key/value store
// whose entries live and die with a browser session, never touching durable
// storage. It is the server-side stand-in for the browser's session storage,
// change notifications included.
package session

import "time"

type (
	// Change describes a mutation to a session's stored value.
	Change struct {
		SessionID string
		Key       string
	}

	Store interface {
		// Get returns the value stored under key for the session.
		Get(sessionID, key string) ([]byte, bool)
		// Set stores value under key for the session, marking it live.
		Set(sessionID, key string, value []byte)
		// Remove deletes key for the session.
		Remove(sessionID, key string)
		// Touch marks the session live without mutating it.
		Touch(sessionID string)
		// Drop discards a session and everything stored under it.
		Drop(sessionID string)
		// Sessions lists the ids of all live sessions.
		Sessions() []string
		// Watch subscribes to mutations across all sessions; the returned
		// cancel func must be called when done. Slow subscribers miss
		// changes rather than block writers.
		Watch() (<-chan Change, func())
		// PurgeIdle drops sessions untouched for longer than ttl and
		// returns how many were dropped.
		PurgeIdle(ttl time.Duration) int
	}
)
