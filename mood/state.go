package mood

import (
	"fmt"
	"sync"
	"time"
)

// Status is what the mood label display needs.
type Status struct {
	Mood      Label     `json:"mood"`
	Emoji     string    `json:"emoji"`
	Text      string    `json:"text"`
	Degraded  bool      `json:"degraded"`
	LastError string    `json:"last_error,omitempty"`
	Samples   int       `json:"samples"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// State is the mood state shared between the pipeline that feeds it and the
// displays that read it. Observe applies the smoother and the log under one
// lock so readers never see one updated without the other.
type State struct {
	mu        sync.RWMutex
	smoother  *Smoother
	log       *TimeSeriesLog
	degraded  bool
	lastErr   error
	updatedAt time.Time
}

func NewState(window, logCap int) *State {
	return &State{
		smoother: NewSmoother(window),
		log:      NewTimeSeriesLog(logCap),
	}
}

// Observe pushes a raw label and records the resulting mood at time at.
// Unknown is not an observation: it leaves the state untouched and returns
// the current mood.
func (s *State) Observe(label Label, at time.Time) Label {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label == Unknown {
		return s.smoother.Mood()
	}
	m := s.smoother.Push(label)
	s.log.Append(at, m)
	s.lastErr = nil
	s.updatedAt = at
	return m
}

// Fail records a failed cycle. The mood and the log are left as they were.
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *State) SetDegraded(degraded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded = degraded
}

func (s *State) Mood() Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.smoother.Mood()
}

func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.smoother.Mood()
	st := Status{
		Mood:      m,
		Emoji:     m.Emoji(),
		Text:      statusText(m, s.degraded),
		Degraded:  s.degraded,
		Samples:   s.smoother.Len(),
	}
	if !s.updatedAt.IsZero() {
		at := s.updatedAt
		st.UpdatedAt = &at
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *State) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Snapshot()
}

func statusText(m Label, degraded bool) string {
	text := "Mood: Detecting..."
	if m != Unknown {
		text = fmt.Sprintf("Mood: %s %s", m, m.Emoji())
	}
	if degraded {
		text += " (camera unavailable)"
	}
	return text
}
