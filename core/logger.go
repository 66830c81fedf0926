package core

// SessionInfo tags a log entry with the session it belongs to.
type SessionInfo struct {
	ID       string
	Username string
}

// Logger is any leveled logger the app can report through.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
