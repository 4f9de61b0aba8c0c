package view

import (
	"sync"
	"testing"
	"time"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

// manualScheduler queues timer callbacks for the test to fire explicitly.
// The machine schedules at most one timer per sequence at a time, so firing
// always pops the sole pending callback.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(_ time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// fire runs the oldest live pending callback. Returns false when none remain.
func (s *manualScheduler) fire() bool {
	s.mu.Lock()
	var next *manualTimer
	for len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		if !t.stopped {
			next = t
			break
		}
	}
	s.mu.Unlock()

	if next == nil {
		return false
	}
	next.fn()
	return true
}

func (s *manualScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// machineHarness records every observable effect of a sequence.
type machineHarness struct {
	mu       sync.Mutex
	month    time.Time
	steps    []int
	pulses   []bool
	selected []time.Time
	done     []domain.HighlightTarget
	hasEvent func(time.Time) bool
}

func newHarness(month time.Time) *machineHarness {
	return &machineHarness{month: month, hasEvent: func(time.Time) bool { return true }}
}

func (h *machineHarness) hooks() Hooks {
	return Hooks{
		DisplayedMonth: func() time.Time {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.month
		},
		AdvanceMonth: func(step int) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.month = h.month.AddDate(0, step, 0)
			h.steps = append(h.steps, step)
		},
		DayHasEvents: func(date time.Time) bool { return h.hasEvent(date) },
		SetPulsing: func(_ time.Time, on bool) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.pulses = append(h.pulses, on)
		},
		SelectDay: func(date time.Time) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.selected = append(h.selected, date)
		},
		Done: func(target domain.HighlightTarget) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.done = append(h.done, target)
		},
	}
}

func march() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) }

func TestNavigateThreeMonthsAheadTakesExactlyThreeSlides(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	target := &domain.HighlightTarget{Date: time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)}
	if !m.Navigate(target, nil) {
		t.Fatal("navigate should be accepted from idle")
	}
	if !target.Processed {
		t.Error("navigate must mark the target processed")
	}

	for i := 0; i < 3; i++ {
		if m.Phase() != PhaseTransitioning {
			t.Fatalf("slide %d: expected transitioning, got %s", i, m.Phase())
		}
		sched.fire()
	}
	if len(h.steps) != 3 {
		t.Fatalf("expected exactly 3 single-month steps, got %d", len(h.steps))
	}
	for _, s := range h.steps {
		if s != 1 {
			t.Errorf("forward navigation must step +1, got %d", s)
		}
	}
	if m.Phase() != PhaseArrived {
		t.Fatalf("expected arrived after last slide, got %s", m.Phase())
	}

	sched.fire() // stagger -> confirming, pulse on
	if m.Phase() != PhaseConfirming {
		t.Fatalf("expected confirming, got %s", m.Phase())
	}
	sched.fire() // pulse -> select
	sched.fire() // hold -> clear, done

	if len(h.selected) != 1 || h.selected[0].Day() != 15 {
		t.Errorf("expected day 15 selected once, got %v", h.selected)
	}
	if len(h.pulses) != 2 || !h.pulses[0] || h.pulses[1] {
		t.Errorf("expected pulse on then off, got %v", h.pulses)
	}
	if len(h.done) != 1 {
		t.Fatalf("expected one completion signal, got %d", len(h.done))
	}
	if m.Phase() != PhaseIdle {
		t.Errorf("machine must return to idle after done, got %s", m.Phase())
	}
}

func TestNavigateBackwardStepsMinusOne(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	m.Navigate(&domain.HighlightTarget{Date: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)}, nil)

	sched.fire()
	sched.fire()
	if len(h.steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(h.steps))
	}
	for _, s := range h.steps {
		if s != -1 {
			t.Errorf("backward navigation must step -1, got %d", s)
		}
	}
	if h.month.Month() != time.January {
		t.Errorf("expected january displayed, got %s", h.month.Month())
	}
}

func TestNavigateSameMonthSkipsTransitioning(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	m.Navigate(&domain.HighlightTarget{Date: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)}, nil)

	if len(h.steps) != 0 {
		t.Errorf("same-month navigation must not slide, got %d steps", len(h.steps))
	}
	if m.Phase() != PhaseConfirming {
		t.Fatalf("expected confirming immediately, got %s", m.Phase())
	}
	sched.fire()
	sched.fire()
	if len(h.done) != 1 {
		t.Errorf("expected completion, got %d", len(h.done))
	}
}

func TestNavigateReentrancyGuard(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	first := &domain.HighlightTarget{Date: time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)}
	second := &domain.HighlightTarget{Date: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)}

	if !m.Navigate(first, nil) {
		t.Fatal("first request should be accepted")
	}
	if m.Navigate(second, nil) {
		t.Fatal("second request mid-sequence must be dropped")
	}
	if second.Processed {
		t.Error("a dropped request must not be marked processed")
	}

	// Drain the whole first sequence: 2 slides, stagger, pulse, hold.
	for sched.fire() {
	}

	if len(h.done) != 1 {
		t.Fatalf("only the first sequence may complete, got %d", len(h.done))
	}
	if h.month.Month() != time.May {
		t.Errorf("displayed month must follow the first target, got %s", h.month.Month())
	}

	// Once idle again, a fresh request is accepted.
	if !m.Navigate(second, nil) {
		t.Error("machine must accept a new request after done")
	}
}

func TestNavigateDroppedRequestNeverDisplacesCallback(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	var firstDone, secondDone int
	first := &domain.HighlightTarget{Date: time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)}
	second := &domain.HighlightTarget{Date: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)}

	if !m.Navigate(first, func(domain.HighlightTarget) { firstDone++ }) {
		t.Fatal("first request should be accepted")
	}
	if m.Navigate(second, func(domain.HighlightTarget) { secondDone++ }) {
		t.Fatal("second request mid-sequence must be dropped")
	}

	for sched.fire() {
	}

	if firstDone != 1 {
		t.Fatalf("accepted request's callback must fire exactly once, got %d", firstDone)
	}
	if secondDone != 0 {
		t.Fatalf("dropped request's callback must never fire, got %d", secondDone)
	}
}

func TestSlideReaimsWhenMonthMovesUnderneath(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	m.Navigate(&domain.HighlightTarget{Date: time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)}, nil)

	sched.fire() // march -> april

	// The displayed month moves without the machine's knowledge. Arrival is
	// "displayed month equals target month", so the walk self-corrects.
	h.mu.Lock()
	h.month = h.month.AddDate(0, -2, 0) // back to february
	h.mu.Unlock()

	for m.Phase() == PhaseTransitioning {
		sched.fire()
	}

	if h.month.Month() != time.May {
		t.Fatalf("walk must land on the target month regardless, got %s", h.month.Month())
	}
	if m.Phase() != PhaseArrived {
		t.Errorf("expected arrived at the target month, got %s", m.Phase())
	}
}

func TestNavigateIgnoresAlreadyProcessedTarget(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	target := &domain.HighlightTarget{
		Date:      time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
		Processed: true,
	}
	if m.Navigate(target, nil) {
		t.Error("a processed target must never re-trigger the sequence")
	}
}

func TestVanishedTargetSkipsConfirm(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	h.hasEvent = func(time.Time) bool { return false } // event list lost the day mid-flight
	m := NewMachine(sched, DefaultTimings, h.hooks())

	m.Navigate(&domain.HighlightTarget{Date: time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC)}, nil)

	sched.fire() // slide
	sched.fire() // stagger -> guard trips, straight to done

	if len(h.pulses) != 0 || len(h.selected) != 0 {
		t.Errorf("confirm must be skipped for a vanished target: pulses=%v selected=%v", h.pulses, h.selected)
	}
	if len(h.done) != 1 {
		t.Fatalf("machine must still reach done, got %d signals", len(h.done))
	}
}

func TestStopInvalidatesPendingTimers(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	m.Navigate(&domain.HighlightTarget{Date: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)}, nil)
	sched.fire() // one slide happens
	m.Stop()

	// Whatever was pending must be dead: firing changes nothing.
	for sched.fire() {
	}

	if len(h.steps) != 1 {
		t.Errorf("no step may land after stop, got %d", len(h.steps))
	}
	if len(h.done) != 0 {
		t.Errorf("a stopped sequence must not signal completion, got %d", len(h.done))
	}
	if m.Navigate(&domain.HighlightTarget{Date: march()}, nil) {
		t.Error("a stopped machine must reject new requests")
	}
}

func TestSlideTimersAreSerialized(t *testing.T) {
	sched := &manualScheduler{}
	h := newHarness(march())
	m := NewMachine(sched, DefaultTimings, h.hooks())

	m.Navigate(&domain.HighlightTarget{Date: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)}, nil)

	for i := 0; i < 3; i++ {
		if n := sched.pendingCount(); n != 1 {
			t.Fatalf("step %d: expected exactly one pending timer, got %d", i, n)
		}
		sched.fire()
	}
}
