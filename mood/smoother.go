package mood

import "sync"

const DefaultWindow = 15

// Smoother reduces a noisy stream of per-frame labels to the most frequent
// label over the last N pushes.
//
// Ties go to the label whose first occurrence in the current window is the
// oldest, so an oscillating input keeps showing whichever mood was there
// first until another one strictly outnumbers it.
type Smoother struct {
	mu     sync.Mutex
	window []Label
	next   int
	count  int
	mode   Label
}

// NewSmoother returns a smoother over the last n labels. n <= 0 selects
// DefaultWindow.
func NewSmoother(n int) *Smoother {
	if n <= 0 {
		n = DefaultWindow
	}
	return &Smoother{window: make([]Label, n)}
}

// Push records label, evicting the oldest entry when the window is full, and
// returns the new mode. Unknown is ignored so it never takes a window slot.
func (s *Smoother) Push(label Label) Label {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label == Unknown {
		return s.mode
	}
	s.window[s.next] = label
	s.next = (s.next + 1) % len(s.window)
	if s.count < len(s.window) {
		s.count++
	}
	s.mode = modeOf(s.ordered())
	return s.mode
}

// Mood returns the current mode, or Unknown before the first Push.
func (s *Smoother) Mood() Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Smoother) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Size is the configured window length N.
func (s *Smoother) Size() int { return len(s.window) }

// Window returns a copy of the history, oldest first.
func (s *Smoother) Window() []Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordered()
}

// ordered must be called with mu held.
func (s *Smoother) ordered() []Label {
	out := make([]Label, 0, s.count)
	start := 0
	if s.count == len(s.window) {
		start = s.next
	}
	for i := 0; i < s.count; i++ {
		out = append(out, s.window[(start+i)%len(s.window)])
	}
	return out
}

func modeOf(labels []Label) Label {
	counts := make(map[Label]int, len(Vocabulary))
	var order []Label
	for _, l := range labels {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}
	best, bestN := Unknown, 0
	for _, l := range order {
		if n := counts[l]; n > bestN {
			best, bestN = l, n
		}
	}
	return best
}
