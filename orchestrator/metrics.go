package orchestrator

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/maastricht-university/moodtrack/clients"
	"github.com/maastricht-university/moodtrack/mood"
)

const outcomeLabel = "outcome"

type metrics struct {
	framesCaptured prometheus.Counter
	captureMisses  prometheus.Counter
	framesDropped  prometheus.Counter
	inferences     *prometheus.CounterVec // outcome
	mood           *prometheus.GaugeVec   // mood
	degraded       prometheus.Gauge
}

func newMetrics(namespace string, reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		framesCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_captured_total",
			Help:      "Number of frames read from the camera",
		}),
		captureMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_misses_total",
			Help:      "Number of failed camera reads",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Frames skipped because an inference was already in flight",
		}),
		inferences: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inferences_total",
				Help:      "Emotion inferences by outcome",
			},
			[]string{outcomeLabel},
		),
		mood: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mood",
				Help:      "1 for the current stable mood, 0 otherwise",
			},
			[]string{"mood"},
		),
		degraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "capture_degraded",
			Help:      "1 while the camera has been failing for too long",
		}),
	}
	return m, errors.Join(
		reg.Register(m.framesCaptured),
		reg.Register(m.captureMisses),
		reg.Register(m.framesDropped),
		reg.Register(m.inferences),
		reg.Register(m.mood),
		reg.Register(m.degraded),
	)
}

func (m *metrics) setMood(current mood.Label) {
	for _, l := range mood.Vocabulary {
		v := 0.0
		if l == current {
			v = 1
		}
		m.mood.WithLabelValues(string(l)).Set(v)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, clients.ErrNoFace):
		return "no_face"
	case errors.Is(err, mood.ErrUnknownLabel):
		return "unknown_label"
	default:
		return "error"
	}
}
