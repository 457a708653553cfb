package soccer

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Runner drives a Match in real time on its own goroutine and publishes a
// Snapshot after every tick. The Match is touched only by the goroutine
// running Run; other goroutines talk to it through Latest and the command
// methods.
type Runner struct {
	match  *Match
	period time.Duration
	latest atomic.Pointer[Snapshot]
	cmds   chan func(*Match)
}

// snapshotEvents is how many trailing log events each snapshot carries.
const snapshotEvents = 256

// NewRunner wraps m. The first snapshot is published immediately so
// Latest never returns nil.
func NewRunner(m *Match) *Runner {
	r := &Runner{
		match:  m,
		period: m.FrameDuration(),
		cmds:   make(chan func(*Match), 16),
	}
	r.publish()
	return r
}

// Latest returns the most recent snapshot. It never blocks.
func (r *Runner) Latest() *Snapshot { return r.latest.Load() }

// SetPaused pauses or resumes the match on the next tick.
func (r *Runner) SetPaused(v bool) { r.send(func(m *Match) { m.SetPaused(v) }) }

// TogglePause flips the pause flag on the next tick.
func (r *Runner) TogglePause() { r.send(func(m *Match) { m.TogglePause() }) }

// send queues a command; a full queue drops it rather than block the caller.
func (r *Runner) send(fn func(*Match)) {
	select {
	case r.cmds <- fn:
	default:
		r.match.log.Warn("runner command queue full, dropping command")
	}
}

// Run ticks the match at its frame rate until ctx is cancelled. A cancelled
// context is a normal stop and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	r.match.log.Info("runner started", zap.Duration("period", r.period))
	defer func() {
		r.match.log.Info("runner stopped", zap.Int("tick", r.match.Tick()))
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-r.cmds:
			fn(r.match)
			r.publish()
		case <-ticker.C:
			r.match.Update()
			r.publish()
		}
	}
}

func (r *Runner) publish() {
	r.latest.Store(r.match.Snapshot(snapshotEvents))
}
