package scene

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/milk9111/twentytwenty/ecs/system"
)

func TestSequenceTicksNewestFirstThenCompletes(t *testing.T) {
	timers := system.NewTimerSystem(0)
	items := []string{"a", "b", "c"}
	var got []string
	completed := 0

	seq, err := StartSequence(timers, items, 3000*time.Millisecond,
		func(item string) { got = append(got, item) },
		func() { completed++ },
	)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if seq.Interval() != time.Second {
		t.Fatalf("expected 1s interval, got %v", seq.Interval())
	}

	timers.Advance(999 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("expected no tick before the first interval, got %v", got)
	}
	timers.Advance(time.Millisecond)
	if !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("expected [c] after 1s, got %v", got)
	}

	timers.Advance(2 * time.Second)
	if !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Fatalf("expected [c b a] after 3s, got %v", got)
	}
	if completed != 0 || seq.Done() {
		t.Fatalf("sequence must complete on the tick after the last item")
	}

	timers.Advance(time.Second)
	if completed != 1 || !seq.Done() || seq.Cancelled() {
		t.Fatalf("expected completion at 4s, completed=%d done=%v", completed, seq.Done())
	}

	timers.Advance(10 * time.Second)
	seq.Cancel()
	if completed != 1 || seq.Cancelled() {
		t.Fatalf("expected no further effects after completion")
	}
	if timers.Pending() != 0 {
		t.Fatalf("expected timer removed, %d pending", timers.Pending())
	}
	if !reflect.DeepEqual(items, []string{"a", "b", "c"}) {
		t.Fatalf("caller slice modified: %v", items)
	}
}

func TestSequenceCancelStopsEarly(t *testing.T) {
	timers := system.NewTimerSystem(0)
	ticks := 0
	completed := false

	seq, err := StartSequence(timers, []int{1, 2, 3}, 3*time.Second,
		func(int) { ticks++ },
		func() { completed = true },
	)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	timers.Advance(time.Second)
	seq.Cancel()
	seq.Cancel()
	timers.Advance(10 * time.Second)

	if ticks != 1 || completed {
		t.Fatalf("expected one tick and no completion, got ticks=%d completed=%v", ticks, completed)
	}
	if !seq.Cancelled() || seq.Remaining() != 2 {
		t.Fatalf("expected cancelled with 2 remaining, got cancelled=%v remaining=%d", seq.Cancelled(), seq.Remaining())
	}
}

func TestSequenceSingleItem(t *testing.T) {
	timers := system.NewTimerSystem(0)
	var order []string
	_, err := StartSequence(timers, []string{"only"}, 500*time.Millisecond,
		func(s string) { order = append(order, s) },
		func() { order = append(order, "done") },
	)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	timers.Advance(time.Second)
	if !reflect.DeepEqual(order, []string{"only", "done"}) {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestStartSequenceRejectsBadInput(t *testing.T) {
	timers := system.NewTimerSystem(0)
	noop := func(int) {}

	tests := []struct {
		name   string
		timers Scheduler
		items  []int
		total  time.Duration
		want   error
	}{
		{name: "empty", timers: timers, items: nil, total: time.Second, want: ErrEmptySequence},
		{name: "zero duration", timers: timers, items: []int{1}, total: 0, want: ErrInvalidArgument},
		{name: "negative duration", timers: timers, items: []int{1}, total: -time.Second, want: ErrInvalidArgument},
		{name: "nil scheduler", timers: nil, items: []int{1}, total: time.Second, want: ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := StartSequence(tt.timers, tt.items, tt.total, noop, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected every input error to be ErrInvalidArgument, got %v", err)
			}
			if seq != nil {
				t.Fatalf("expected no sequence on error")
			}
		})
	}
	if timers.Pending() != 0 {
		t.Fatalf("rejected sequences must not schedule timers")
	}
}
