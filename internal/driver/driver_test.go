package driver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/aschey/stopwatch/internal/stopwatch"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	now atomic.Int64
}

func (c *fakeClock) Now() int64 { return c.now.Load() }

type fakeTicker struct {
	interval time.Duration
	ch       chan time.Time
	stopped  atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

type harness struct {
	driver  *Driver
	clock   *fakeClock
	tickers chan *fakeTicker
	cancel  context.CancelFunc
}

func newHarness(t *testing.T, opts ...Option) *harness {
	h := &harness{
		clock:   &fakeClock{},
		tickers: make(chan *fakeTicker, 8),
	}
	opts = append(opts, WithTicker(func(d time.Duration) Ticker {
		ticker := &fakeTicker{interval: d, ch: make(chan time.Time)}
		h.tickers <- ticker
		return ticker
	}))
	h.driver = New(stopwatch.New(h.clock), h.clock, zaptest.NewLogger(t), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.driver.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.driver.Done()
	})
	return h
}

func (h *harness) send(t *testing.T, intent Intent) stopwatch.Snapshot {
	t.Helper()
	snap, err := h.driver.Send(context.Background(), intent)
	testza.AssertNoError(t, err)
	return snap
}

func (h *harness) nextTicker(t *testing.T) *fakeTicker {
	t.Helper()
	select {
	case ticker := <-h.tickers:
		return ticker
	case <-time.After(time.Second):
		t.Fatal("ticker was not started")
		return nil
	}
}

func (h *harness) tick(ticker *fakeTicker, now int64) {
	h.clock.now.Store(now)
	ticker.ch <- time.Now()
}

func TestEndToEnd(t *testing.T) {
	h := newHarness(t)

	testza.AssertEqual(t, stopwatch.Running, h.send(t, IntentStart).Status)
	ticker := h.nextTicker(t)
	testza.AssertEqual(t, DefaultInterval, ticker.interval)

	h.tick(ticker, 500)
	testza.AssertEqual(t, []int64{500}, h.send(t, IntentLap).Laps)

	h.tick(ticker, 1500)
	snap := h.send(t, IntentPause)
	testza.AssertEqual(t, stopwatch.Paused, snap.Status)
	testza.AssertEqual(t, int64(1500), snap.ElapsedMs)
	testza.AssertTrue(t, ticker.stopped.Load())

	snap = h.send(t, IntentReset)
	testza.AssertEqual(t, stopwatch.Idle, snap.Status)
	testza.AssertEqual(t, int64(0), snap.ElapsedMs)
	testza.AssertLen(t, snap.Laps, 0)
}

func TestTickerOnlyWhileRunning(t *testing.T) {
	h := newHarness(t)

	h.send(t, IntentLap)
	h.send(t, IntentPause)
	h.send(t, IntentReset)
	testza.AssertEqual(t, 0, len(h.tickers))

	h.send(t, IntentToggle)
	first := h.nextTicker(t)
	h.send(t, IntentStart)
	testza.AssertEqual(t, 0, len(h.tickers))

	h.send(t, IntentToggle)
	testza.AssertTrue(t, first.stopped.Load())

	h.send(t, IntentStart)
	second := h.nextTicker(t)
	h.send(t, IntentReset)
	testza.AssertTrue(t, second.stopped.Load())
}

func TestSnapshotsPublishesNewest(t *testing.T) {
	h := newHarness(t)

	h.send(t, IntentStart)
	ticker := h.nextTicker(t)
	h.tick(ticker, 120)
	h.tick(ticker, 340)
	expected := h.send(t, IntentLap)

	select {
	case snap := <-h.driver.Snapshots():
		testza.AssertEqual(t, expected, snap)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

func TestSetInterval(t *testing.T) {
	h := newHarness(t, WithInterval(50*time.Millisecond))

	h.send(t, IntentStart)
	first := h.nextTicker(t)
	testza.AssertEqual(t, 50*time.Millisecond, first.interval)

	testza.AssertNoError(t, h.driver.SetInterval(context.Background(), 20*time.Millisecond))
	second := h.nextTicker(t)
	testza.AssertEqual(t, 20*time.Millisecond, second.interval)
	testza.AssertTrue(t, first.stopped.Load())

	h.tick(second, 75)
	testza.AssertEqual(t, []int64{75}, h.send(t, IntentLap).Laps)
}

func TestSetIntervalWhileIdle(t *testing.T) {
	h := newHarness(t)

	testza.AssertNoError(t, h.driver.SetInterval(context.Background(), time.Second))
	testza.AssertEqual(t, 0, len(h.tickers))

	h.send(t, IntentStart)
	testza.AssertEqual(t, time.Second, h.nextTicker(t).interval)
}

func TestSetIntervalInvalid(t *testing.T) {
	h := newHarness(t)
	err := h.driver.SetInterval(context.Background(), 0)
	testza.AssertErrorIs(t, err, ErrInvalidInterval)
}

func TestSendAfterStop(t *testing.T) {
	h := newHarness(t)
	h.cancel()
	<-h.driver.Done()

	_, err := h.driver.Send(context.Background(), IntentStart)
	testza.AssertErrorIs(t, err, ErrStopped)
	testza.AssertErrorIs(t, h.driver.SetInterval(context.Background(), time.Second), ErrStopped)
}

func TestSendCancelled(t *testing.T) {
	d := New(stopwatch.New(&fakeClock{}), &fakeClock{}, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Send(ctx, IntentStart)
	testza.AssertErrorIs(t, err, context.Canceled)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	d := New(stopwatch.New(&fakeClock{}), &fakeClock{}, zaptest.NewLogger(t), WithInterval(-time.Second))
	testza.AssertEqual(t, DefaultInterval, d.interval)
}

func TestRealTicker(t *testing.T) {
	clock := stopwatch.NewSystemClock()
	d := New(stopwatch.New(clock), clock, zaptest.NewLogger(t), WithInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	defer func() {
		cancel()
		<-d.Done()
	}()

	_, err := d.Send(ctx, IntentStart)
	testza.AssertNoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-d.Snapshots():
			if snap.ElapsedMs >= 20 {
				return
			}
		case <-deadline:
			t.Fatal("elapsed time never advanced")
		}
	}
}

func TestIntentString(t *testing.T) {
	testza.AssertEqual(t, "lap", IntentLap.String())
	testza.AssertEqual(t, "toggle", IntentToggle.String())
	testza.AssertEqual(t, "intent(9)", Intent(9).String())
}
