package soccer

import (
	"math"
	"math/rand"
	"time"

	"github.com/Garsondee/Soccer-Sense/internal/messaging"
)

const (
	// regulatorJitter is the maximum random offset added to each period.
	regulatorJitter = 10 * time.Millisecond
	// regulatorFirstWindow bounds the random delay before the first firing.
	regulatorFirstWindow = time.Second
)

// Regulator rate-limits an expensive recomputation to a frequency in
// firings per second of simulation time. A zero frequency is always ready,
// a negative one never is.
type Regulator struct {
	period time.Duration
	next   time.Duration
	clock  messaging.Clock
	rng    *rand.Rand
}

func NewRegulator(frequency float64, clock messaging.Clock, rng *rand.Rand) *Regulator {
	r := &Regulator{clock: clock, rng: rng}
	switch {
	case frequency > 0:
		r.period = time.Duration(float64(time.Second) / frequency)
	case math.Abs(frequency) < 1e-12:
		r.period = 0
	default:
		r.period = -1
	}
	r.next = clock.Now() + time.Duration(rng.Float64()*float64(regulatorFirstWindow))
	return r
}

// IsReady reports whether the gate is open now, and if so schedules the
// next opening one period (plus jitter) later.
func (r *Regulator) IsReady() bool {
	if r.period == 0 {
		return true
	}
	if r.period < 0 {
		return false
	}
	now := r.clock.Now()
	if now < r.next {
		return false
	}
	jitter := time.Duration((r.rng.Float64()*2 - 1) * float64(regulatorJitter))
	r.next = now + r.period + jitter
	return true
}

// Period is the nominal interval between firings.
func (r *Regulator) Period() time.Duration { return r.period }
