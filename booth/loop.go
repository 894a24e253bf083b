package booth

import (
	"context"
	"errors"
	"time"

	"github.com/moyoez/photobooth-go/tool"
)

// DefaultPollInterval is the watcher cadence while capturing.
const DefaultPollInterval = 250 * time.Millisecond

// ErrLoopStopped is returned by Do after Run has returned.
var ErrLoopStopped = errors.New("event loop stopped")

// Loop runs every action and every poll tick on one goroutine. It also implements
// Ticker: Start and Stop must be called from the loop itself.
type Loop struct {
	interval time.Duration
	actions  chan func()
	done     chan struct{}
	onTick   func(time.Time)

	ticker *time.Ticker
	tickC  <-chan time.Time
}

// NewLoop creates a loop ticking every interval while started.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Loop{
		interval: interval,
		actions:  make(chan func()),
		done:     make(chan struct{}),
	}
}

// OnTick sets the tick handler. Call before Run.
func (l *Loop) OnTick(fn func(time.Time)) {
	l.onTick = fn
}

// Start begins ticking.
func (l *Loop) Start() {
	if l.ticker != nil {
		return
	}
	l.ticker = time.NewTicker(l.interval)
	l.tickC = l.ticker.C
	tool.DefaultLogger.Debugf("[Loop] Polling every %s", l.interval)
}

// Stop ends ticking. A tick already queued is dropped.
func (l *Loop) Stop() {
	if l.ticker == nil {
		return
	}
	l.ticker.Stop()
	l.ticker = nil
	l.tickC = nil
	tool.DefaultLogger.Debug("[Loop] Polling stopped")
}

// Run processes actions and ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.actions:
			fn()
		case now := <-l.tickC:
			if l.onTick != nil {
				l.onTick(now)
			}
		}
	}
}

// Do runs fn on the loop and waits for it to finish. ctx only bounds the wait for
// the loop to accept fn; once accepted, fn always runs to completion before Do returns.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case l.actions <- func() { defer close(finished); fn() }:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}
