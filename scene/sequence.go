package scene

import (
	"fmt"
	"time"

	"github.com/milk9111/twentytwenty/ecs/system"
)

// Sequence hands out queued items one per interval, newest first, then
// runs a final action once the queue has run dry.
type Sequence[T any] struct {
	items      []T
	interval   time.Duration
	timer      *system.Timer
	onTick     func(T)
	onComplete func()
	done       bool
	cancelled  bool
}

// StartSequence spreads items evenly over total. Each tick pops the last
// item and passes it to onTick; the first tick that finds nothing left
// stops the timer and calls onComplete. The caller's slice is not modified.
func StartSequence[T any](timers Scheduler, items []T, total time.Duration, onTick func(T), onComplete func()) (*Sequence[T], error) {
	if timers == nil {
		return nil, fmt.Errorf("%w: nil scheduler", ErrInvalidArgument)
	}
	if len(items) == 0 {
		return nil, ErrEmptySequence
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: duration %v", ErrInvalidArgument, total)
	}

	seq := &Sequence[T]{
		items:      append([]T(nil), items...),
		interval:   total / time.Duration(len(items)),
		onTick:     onTick,
		onComplete: onComplete,
	}
	seq.timer = timers.Every(seq.interval, seq.tick)
	return seq, nil
}

func (q *Sequence[T]) tick() {
	if q.done {
		return
	}
	if len(q.items) == 0 {
		q.done = true
		q.timer.Remove()
		if q.onComplete != nil {
			q.onComplete()
		}
		return
	}

	last := len(q.items) - 1
	item := q.items[last]
	var zero T
	q.items[last] = zero
	q.items = q.items[:last]
	if q.onTick != nil {
		q.onTick(item)
	}
}

// Cancel stops the sequence without calling onComplete. It does nothing
// once the sequence has finished.
func (q *Sequence[T]) Cancel() {
	if q == nil || q.done {
		return
	}
	q.done = true
	q.cancelled = true
	q.timer.Remove()
}

// Remaining returns how many items are still queued.
func (q *Sequence[T]) Remaining() int {
	return len(q.items)
}

// Done reports whether the sequence completed or was cancelled.
func (q *Sequence[T]) Done() bool {
	return q.done
}

// Cancelled reports whether Cancel stopped the sequence early.
func (q *Sequence[T]) Cancelled() bool {
	return q.cancelled
}

// Interval returns the time between ticks.
func (q *Sequence[T]) Interval() time.Duration {
	return q.interval
}
