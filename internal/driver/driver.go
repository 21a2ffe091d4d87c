package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aschey/stopwatch/internal/stopwatch"
	"go.uber.org/zap"
)

const DefaultInterval = 10 * time.Millisecond

var (
	ErrStopped         = errors.New("driver stopped")
	ErrInvalidInterval = errors.New("invalid interval")
)

type Intent int

const (
	IntentStart Intent = iota
	IntentPause
	IntentToggle
	IntentReset
	IntentLap
)

func (i Intent) String() string {
	switch i {
	case IntentStart:
		return "start"
	case IntentPause:
		return "pause"
	case IntentToggle:
		return "toggle"
	case IntentReset:
		return "reset"
	case IntentLap:
		return "lap"
	default:
		return fmt.Sprintf("intent(%d)", int(i))
	}
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.ticker.C }
func (t timeTicker) Stop()               { t.ticker.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{ticker: time.NewTicker(d)}
}

type request struct {
	intent Intent
	reply  chan stopwatch.Snapshot
}

type Option func(*Driver)

func WithInterval(interval time.Duration) Option {
	return func(d *Driver) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(d *Driver) {
		d.newTicker = newTicker
	}
}

// Driver owns a Stopwatch and samples its clock while it runs. All access to
// the stopwatch goes through the event loop started by Run.
type Driver struct {
	stopwatch  *stopwatch.Stopwatch
	clock      stopwatch.Clock
	logger     *zap.Logger
	interval   time.Duration
	newTicker  func(time.Duration) Ticker
	requestCh  chan request
	intervalCh chan time.Duration
	snapshotCh chan stopwatch.Snapshot
	done       chan struct{}

	// only touched by the event loop
	ticker Ticker
	tickCh <-chan time.Time
}

func New(sw *stopwatch.Stopwatch, clock stopwatch.Clock, logger *zap.Logger, opts ...Option) *Driver {
	d := &Driver{
		stopwatch:  sw,
		clock:      clock,
		logger:     logger,
		interval:   DefaultInterval,
		newTicker:  newTimeTicker,
		requestCh:  make(chan request),
		intervalCh: make(chan time.Duration),
		snapshotCh: make(chan stopwatch.Snapshot, 1),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Snapshots receives the state after every change. Only the newest snapshot
// is kept if the receiver falls behind.
func (d *Driver) Snapshots() <-chan stopwatch.Snapshot {
	return d.snapshotCh
}

func (d *Driver) Done() <-chan struct{} {
	return d.done
}

func (d *Driver) Run(ctx context.Context) {
	defer close(d.done)
	defer d.stopTicker()

	d.logger.Info("Starting event loop", zap.Duration("interval", d.interval))
	d.publish(d.stopwatch.Snapshot())

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Stopping event loop", zap.Error(ctx.Err()))
			return
		case req := <-d.requestCh:
			snap := d.apply(req.intent)
			d.syncTicker(snap.Status)
			d.publish(snap)
			req.reply <- snap
		case interval := <-d.intervalCh:
			d.logger.Info("Sampling interval changed",
				zap.Duration("old", d.interval), zap.Duration("new", interval))
			d.interval = interval
			if d.ticker != nil {
				d.stopTicker()
				d.startTicker()
			}
		case <-d.tickCh:
			d.publish(d.stopwatch.Tick(d.clock.Now()))
		}
	}
}

func (d *Driver) apply(intent Intent) stopwatch.Snapshot {
	var snap stopwatch.Snapshot
	switch intent {
	case IntentStart:
		snap = d.stopwatch.Start()
	case IntentPause:
		snap = d.stopwatch.Pause()
	case IntentToggle:
		snap = d.stopwatch.Toggle()
	case IntentReset:
		snap = d.stopwatch.Reset()
	case IntentLap:
		snap = d.stopwatch.Lap()
	default:
		d.logger.Warn("Ignoring unknown intent", zap.Stringer("intent", intent))
		return d.stopwatch.Snapshot()
	}
	d.logger.Debug("Applied intent",
		zap.Stringer("intent", intent),
		zap.Stringer("status", snap.Status),
		zap.Int64("elapsedMs", snap.ElapsedMs),
		zap.Int("laps", len(snap.Laps)))
	return snap
}

func (d *Driver) syncTicker(status stopwatch.Status) {
	switch {
	case status == stopwatch.Running && d.ticker == nil:
		d.startTicker()
	case status != stopwatch.Running && d.ticker != nil:
		d.stopTicker()
	}
}

func (d *Driver) startTicker() {
	d.ticker = d.newTicker(d.interval)
	d.tickCh = d.ticker.C()
}

func (d *Driver) stopTicker() {
	if d.ticker == nil {
		return
	}
	d.ticker.Stop()
	d.ticker = nil
	d.tickCh = nil
}

func (d *Driver) publish(snap stopwatch.Snapshot) {
	select {
	case <-d.snapshotCh:
	default:
	}
	select {
	case d.snapshotCh <- snap:
	default:
	}
}

// Send forwards an intent to the event loop and waits for the resulting state.
func (d *Driver) Send(ctx context.Context, intent Intent) (stopwatch.Snapshot, error) {
	req := request{intent: intent, reply: make(chan stopwatch.Snapshot, 1)}
	select {
	case d.requestCh <- req:
	case <-d.done:
		return stopwatch.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return stopwatch.Snapshot{}, ctx.Err()
	}

	select {
	case snap := <-req.reply:
		return snap, nil
	case <-ctx.Done():
		return stopwatch.Snapshot{}, ctx.Err()
	}
}

func (d *Driver) SetInterval(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("set interval %s: %w", interval, ErrInvalidInterval)
	}
	select {
	case d.intervalCh <- interval:
		return nil
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
