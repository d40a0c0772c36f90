package orchestrator

import (
	"context"
	"time"

	"github.com/maastricht-university/moodtrack/mood"
)

// FrameSource yields encoded camera frames.
type FrameSource interface {
	Frame(ctx context.Context) ([]byte, error)
}

// Classifier labels the dominant emotion of the face in a frame.
type Classifier interface {
	Classify(ctx context.Context, frame []byte) (mood.Label, error)
}

// ChartPublisher receives the timeline whenever it changes.
type ChartPublisher interface {
	PublishTimeline(ctx context.Context, cs mood.ChartSeries) error
}

type eventKind int

const (
	frameCaptured eventKind = iota
	frameMissed
	frameClassified
	classifyFailed
)

func (k eventKind) String() string {
	switch k {
	case frameCaptured:
		return "captured"
	case frameMissed:
		return "missed"
	case frameClassified:
		return "classified"
	case classifyFailed:
		return "classify_failed"
	default:
		return "unknown"
	}
}

// event is everything the producers tell the apply loop.
type event struct {
	kind  eventKind
	label mood.Label
	err   error
	at    time.Time
}
