package mood

import (
	"sync"
	"time"
)

const DefaultCap = 30

// Entry is one point of the mood timeline.
type Entry struct {
	Time time.Time `json:"time"`
	Mood Label     `json:"mood"`
}

// TimeSeriesLog keeps the most recent M entries in chronological order.
// Time and mood are stored together so the two tracks cannot drift apart.
type TimeSeriesLog struct {
	mu      sync.Mutex
	cap     int
	entries []Entry
}

// NewTimeSeriesLog returns a log capped at m entries. m <= 0 selects
// DefaultCap.
func NewTimeSeriesLog(m int) *TimeSeriesLog {
	if m <= 0 {
		m = DefaultCap
	}
	return &TimeSeriesLog{cap: m, entries: make([]Entry, 0, m+1)}
}

// Append adds an entry at the end, dropping the oldest once the log holds
// more than its cap. Timestamps are truncated to the second.
func (l *TimeSeriesLog) Append(t time.Time, mood Label) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{Time: t.Truncate(time.Second), Mood: mood})
	if over := len(l.entries) - l.cap; over > 0 {
		n := copy(l.entries, l.entries[over:])
		l.entries = l.entries[:n]
	}
}

// Snapshot returns a copy of the entries, oldest first. It is never nil.
func (l *TimeSeriesLog) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *TimeSeriesLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *TimeSeriesLog) Cap() int { return l.cap }
