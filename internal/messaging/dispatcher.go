package messaging

import (
	"container/heap"
	"time"

	"go.uber.org/zap"

	"github.com/Garsondee/Soccer-Sense/internal/logging"
)

// Clock reports the current simulation time.
type Clock interface {
	Now() time.Duration
}

// Dispatcher routes telegrams to receivers found in a Directory.
type Dispatcher struct {
	dir   Directory
	clock Clock
	log   *zap.Logger
	queue telegramQueue
	seq   uint64

	// literalDue keeps the legacy loop condition, see WithLiteralDueCheck.
	literalDue bool

	delivered int
	dropped   int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dropped and delayed telegrams.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithLiteralDueCheck makes DispatchDelayedMessages pop telegrams while the
// earliest dispatch time is at or after now, instead of at or before it.
// Not-yet-due telegrams then go out on the next call and overdue ones stall
// the queue.
func WithLiteralDueCheck() Option {
	return func(d *Dispatcher) { d.literalDue = true }
}

func NewDispatcher(dir Directory, clock Clock, opts ...Option) *Dispatcher {
	d := &Dispatcher{dir: dir, clock: clock, log: logging.Nop()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch sends msg from sender to receiver. Delays under SmallestDelay are
// delivered before Dispatch returns; longer ones are queued. Unknown
// receivers are logged and dropped.
func (d *Dispatcher) Dispatch(delay time.Duration, sender, receiver EntityID, msg MessageType, payload Payload) {
	r, ok := d.dir.Find(receiver)
	if !ok {
		d.dropped++
		d.log.Warn("telegram to unknown receiver dropped",
			zap.Stringer("msg", msg),
			zap.Int("sender", int(sender)),
			zap.Int("receiver", int(receiver)))
		return
	}

	t := Telegram{Sender: sender, Receiver: receiver, Msg: msg, Payload: payload}
	if delay < SmallestDelay {
		t.DispatchTime = d.clock.Now()
		d.discharge(r, t)
		return
	}

	t.DispatchTime = d.clock.Now() + delay
	for _, q := range d.queue {
		if q.Equal(t) {
			return
		}
	}
	d.seq++
	heap.Push(&d.queue, queuedTelegram{Telegram: t, seq: d.seq})
	d.log.Debug("telegram queued", zap.Stringer("telegram", t))
}

// DispatchDelayedMessages delivers every queued telegram that is due, in
// dispatch-time order. Call it once per tick.
func (d *Dispatcher) DispatchDelayedMessages() {
	now := d.clock.Now()
	for d.queue.Len() > 0 && d.due(d.queue[0].DispatchTime, now) {
		t := heap.Pop(&d.queue).(queuedTelegram).Telegram
		r, ok := d.dir.Find(t.Receiver)
		if !ok {
			d.dropped++
			d.log.Warn("queued telegram receiver gone",
				zap.Stringer("msg", t.Msg),
				zap.Int("receiver", int(t.Receiver)))
			continue
		}
		d.discharge(r, t)
	}
}

func (d *Dispatcher) due(at, now time.Duration) bool {
	if d.literalDue {
		return at >= now
	}
	return at <= now
}

func (d *Dispatcher) discharge(r Receiver, t Telegram) {
	d.delivered++
	if !r.HandleMessage(t) {
		d.log.Debug("telegram not handled", zap.Stringer("telegram", t))
	}
}

// Pending is the number of queued telegrams.
func (d *Dispatcher) Pending() int { return d.queue.Len() }

// Delivered counts telegrams handed to a receiver.
func (d *Dispatcher) Delivered() int { return d.delivered }

// Dropped counts telegrams whose receiver could not be found.
func (d *Dispatcher) Dropped() int { return d.dropped }

// Clear discards all queued telegrams.
func (d *Dispatcher) Clear() { d.queue = d.queue[:0] }

type queuedTelegram struct {
	Telegram
	seq uint64
}

// telegramQueue is a min-heap on dispatch time, ties broken by send order.
type telegramQueue []queuedTelegram

func (q telegramQueue) Len() int { return len(q) }
func (q telegramQueue) Less(i, j int) bool {
	if q[i].DispatchTime != q[j].DispatchTime {
		return q[i].DispatchTime < q[j].DispatchTime
	}
	return q[i].seq < q[j].seq
}
func (q telegramQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *telegramQueue) Push(x any)   { *q = append(*q, x.(queuedTelegram)) }
func (q *telegramQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
