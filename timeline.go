package moonphase

import "time"

// EffectQueue holds the delayed effects of the running transition, keyed by the elapsed
// time of its animation. It is driven by Advance and never looks at the wall clock.
type EffectQueue struct {
	pending []Effect // sorted by At
	elapsed time.Duration
}

// Start replaces the pending effects with the provided ones and restarts the elapsed time.
// It returns the effects which were superseded before firing.
func (q *EffectQueue) Start(effects []Effect) (canceled []Effect) {
	canceled = q.Cancel()
	q.pending = append(q.pending, effects...)
	for i := 1; i < len(q.pending); i++ {
		for j := i; j > 0 && q.pending[j].At < q.pending[j-1].At; j-- {
			q.pending[j], q.pending[j-1] = q.pending[j-1], q.pending[j]
		}
	}
	return
}

// Cancel drops all pending effects and returns them.
func (q *EffectQueue) Cancel() []Effect {
	canceled := q.pending
	q.pending = nil
	q.elapsed = 0
	return canceled
}

// Advance moves the elapsed time forward and returns the effects which became due, in order.
// A zero step only fires the effects due at the current elapsed time.
func (q *EffectQueue) Advance(dt time.Duration) []Effect {
	if dt > 0 {
		q.elapsed += dt
	}
	n := 0
	for n < len(q.pending) && q.pending[n].At <= q.elapsed {
		n++
	}
	if n == 0 {
		return nil
	}
	fired := make([]Effect, n)
	copy(fired, q.pending[:n])
	q.pending = q.pending[n:]
	return fired
}

// Pending returns the number of effects which have not fired yet.
func (q *EffectQueue) Pending() int {
	return len(q.pending)
}

// Elapsed returns the elapsed animation time since the last Start.
func (q *EffectQueue) Elapsed() time.Duration {
	return q.elapsed
}
