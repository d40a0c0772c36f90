package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/maastricht-university/moodtrack/clients"
	cfg "github.com/maastricht-university/moodtrack/config"
	"github.com/maastricht-university/moodtrack/mood"
)

const (
	namespace   = "moodtrack"
	eventBuffer = 16
)

// Pipeline captures frames, classifies them one at a time and folds the
// results into a mood.State. A single apply loop is the only writer of the
// state; capture and inference talk to it through a channel.
type Pipeline struct {
	cfg     *cfg.Root
	log     logrus.FieldLogger
	camera  FrameSource
	model   Classifier
	chart   ChartPublisher
	charts  chan mood.ChartSeries // latest unpublished timeline, at most one
	state   *mood.State
	metrics *metrics
	busy    *semaphore.Weighted
	now     func() time.Time
}

type Option func(*Pipeline)

func WithFrameSource(f FrameSource) Option { return func(p *Pipeline) { p.camera = f } }

func WithClassifier(c Classifier) Option { return func(p *Pipeline) { p.model = c } }

// WithChartPublisher overrides the visualization service; nil disables it.
func WithChartPublisher(c ChartPublisher) Option { return func(p *Pipeline) { p.chart = c } }

func WithState(s *mood.State) Option { return func(p *Pipeline) { p.state = s } }

func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// NewPipeline wires the HTTP collaborators named in c. Options replace any of
// them.
func NewPipeline(c *cfg.Root, log logrus.FieldLogger, reg prometheus.Registerer, opts ...Option) (*Pipeline, error) {
	h := clients.NewHTTP(c.Inference.Timeout)
	p := &Pipeline{
		cfg:    c,
		log:    log.WithField("component", "pipeline"),
		camera: h.Camera(c.Services.Camera.URL),
		model:  h.EmotionService(c.Services.Emotion.URL),
		busy:   semaphore.NewWeighted(1),
		now:    time.Now,
	}
	if c.Services.Visualization.URL != "" {
		p.chart = h.Visualization(c.Services.Visualization.URL)
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.state == nil {
		p.state = mood.NewState(c.Mood.Window, c.Mood.Cap)
	}
	if p.chart != nil {
		p.charts = make(chan mood.ChartSeries, 1)
	}

	m, err := newMetrics(namespace, reg)
	if err != nil {
		return nil, err
	}
	p.metrics = m
	return p, nil
}

func (p *Pipeline) State() *mood.State { return p.state }

// Run blocks until ctx is cancelled. Results of inferences still in flight at
// that point are discarded.
func (p *Pipeline) Run(ctx context.Context) error {
	p.log.WithFields(logrus.Fields{
		"interval": p.cfg.Capture.Interval,
		"window":   p.cfg.Mood.Window,
		"cap":      p.cfg.Mood.Cap,
	}).Info("pipeline starting")

	events := make(chan event, eventBuffer)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		p.capture(ctx, events)
		return nil
	})
	g.Go(func() error {
		p.apply(ctx, events)
		return nil
	})
	if p.charts != nil {
		g.Go(func() error {
			p.publishLoop(ctx)
			return nil
		})
	}
	err := g.Wait()
	p.log.Info("pipeline stopped")
	return err
}

func (p *Pipeline) capture(ctx context.Context, events chan<- event) {
	var inflight sync.WaitGroup
	defer inflight.Wait()

	t := time.NewTicker(p.cfg.Capture.Interval)
	defer t.Stop()
	for {
		p.tick(ctx, events, &inflight)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (p *Pipeline) tick(ctx context.Context, events chan<- event, inflight *sync.WaitGroup) {
	fctx, cancel := context.WithTimeout(ctx, p.cfg.Capture.Timeout)
	frame, err := p.camera.Frame(fctx)
	cancel()
	if err != nil {
		if ctx.Err() == nil {
			p.emit(ctx, events, event{kind: frameMissed, err: err, at: p.now()})
		}
		return
	}
	p.emit(ctx, events, event{kind: frameCaptured, at: p.now()})

	if !p.busy.TryAcquire(1) {
		p.metrics.framesDropped.Inc()
		return
	}
	inflight.Add(1)
	go func() {
		defer inflight.Done()
		defer p.busy.Release(1)
		p.emit(ctx, events, p.classify(ctx, frame))
	}()
}

func (p *Pipeline) classify(ctx context.Context, frame []byte) event {
	ictx, cancel := context.WithTimeout(ctx, p.cfg.Inference.Timeout)
	defer cancel()

	label, err := p.model.Classify(ictx, frame)
	if err != nil {
		return event{kind: classifyFailed, err: err, at: p.now()}
	}
	return event{kind: frameClassified, label: label, at: p.now()}
}

func (p *Pipeline) emit(ctx context.Context, events chan<- event, ev event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func (p *Pipeline) apply(ctx context.Context, events <-chan event) {
	misses := 0
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				return
			}
			misses = p.handle(ctx, ev, misses)
		}
	}
}

// handle applies one event and returns the updated count of consecutive
// capture misses.
func (p *Pipeline) handle(ctx context.Context, ev event, misses int) int {
	switch ev.kind {
	case frameMissed:
		p.metrics.captureMisses.Inc()
		misses++
		p.log.WithError(ev.err).WithField("misses", misses).Debug("camera read failed")
		if misses == p.cfg.Capture.MaxMisses {
			p.log.WithError(ev.err).WithField("misses", misses).Error("camera unavailable")
			p.state.SetDegraded(true)
			p.metrics.degraded.Set(1)
		}
		return misses

	case frameCaptured:
		p.metrics.framesCaptured.Inc()
		if misses >= p.cfg.Capture.MaxMisses {
			p.log.WithField("misses", misses).Info("camera recovered")
			p.state.SetDegraded(false)
			p.metrics.degraded.Set(0)
		}
		return 0

	case classifyFailed:
		p.metrics.inferences.WithLabelValues(outcome(ev.err)).Inc()
		p.state.Fail(ev.err)
		p.log.WithError(ev.err).WithField("mood", p.state.Mood()).Warn("detection failed, keeping mood")

	case frameClassified:
		p.metrics.inferences.WithLabelValues(outcome(nil)).Inc()
		m := p.state.Observe(ev.label, ev.at)
		p.metrics.setMood(m)
		p.log.WithFields(logrus.Fields{"raw": ev.label, "mood": m}).Debug("mood updated")
		p.offerChart()
	}
	return misses
}

// offerChart hands the current timeline to publishLoop without blocking. A
// timeline still waiting to be sent is replaced by the newer one. Only the
// apply loop calls it.
func (p *Pipeline) offerChart() {
	if p.charts == nil {
		return
	}
	cs, ok := mood.Chart(p.state.Snapshot())
	if !ok {
		return
	}
	select {
	case <-p.charts:
	default:
	}
	p.charts <- cs
}

func (p *Pipeline) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cs := <-p.charts:
			pctx, cancel := context.WithTimeout(ctx, p.cfg.Inference.Timeout)
			if err := p.chart.PublishTimeline(pctx, cs); err != nil && ctx.Err() == nil {
				p.log.WithError(err).Warn("publish timeline failed")
			}
			cancel()
		}
	}
}
