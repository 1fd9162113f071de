package transcript

import (
	"sync"
	"time"
)

// Role identifies who authored a chat entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "coach"
)

// Entry is one line of the session chat. The transcript is append-only
// during a session and never persisted.
type Entry struct {
	Role    Role
	Content string
	At      time.Time
}

// Log holds the session chat transcript and the latest audit result.
// Overlapping coach requests race to fill the last slot; the last one
// to resolve wins.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	audit   string
	hasAud  bool
}

func New() *Log {
	return &Log{}
}

// Append adds an entry to the end of the transcript.
func (l *Log) Append(role Role, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Role: role, Content: content, At: time.Now()})
}

// ReplaceLast overwrites the content of the most recent entry. Used to
// fill the pending coach slot as chunks arrive. No-op on an empty log.
func (l *Log) ReplaceLast(content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return
	}
	l.entries[len(l.entries)-1].Content = content
}

// Entries returns a copy of the transcript.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops the whole transcript.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// SetAudit stores the latest holistic review, overwriting any previous one.
func (l *Log) SetAudit(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.audit = text
	l.hasAud = true
}

// Audit returns the current holistic review, if present.
func (l *Log) Audit() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.audit, l.hasAud
}

// ClearAudit dismisses the holistic review panel.
func (l *Log) ClearAudit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.audit = ""
	l.hasAud = false
}
