package view

import (
	"sync"
	"time"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

// Phase is the highlight machine's current state.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseTransitioning Phase = "transitioning"
	PhaseArrived       Phase = "arrived"
	PhaseConfirming    Phase = "confirming"
	PhaseDone          Phase = "done"
)

// Direction of a month slide.
type Direction int

const (
	DirForward  Direction = 1
	DirBackward Direction = -1
)

// Timings groups the animation durations. Slide is shared with manual
// next/previous navigation so driven and manual month changes feel the same.
type Timings struct {
	Slide   time.Duration // one single-month slide
	Stagger time.Duration // gap between arrival and the confirm phase
	Pulse   time.Duration // pulse before the day is selected
	Hold    time.Duration // pulse held after selection before clearing
}

// DefaultTimings are the UX tuning defaults; config overrides them.
var DefaultTimings = Timings{
	Slide:   350 * time.Millisecond,
	Stagger: 50 * time.Millisecond,
	Pulse:   600 * time.Millisecond,
	Hold:    900 * time.Millisecond,
}

// Timer is a cancelable pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler schedules a function after a delay. Production uses wall-clock
// timers; tests substitute a manual scheduler to drive phases synchronously.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewClockScheduler returns the wall-clock Scheduler.
func NewClockScheduler() Scheduler { return clockScheduler{} }

// Hooks connect the machine to the state it is allowed to drive. All of the
// hooks mutate or read coordinator-owned state; the machine itself owns
// nothing beyond its phase and the active target.
type Hooks struct {
	// DisplayedMonth returns the currently displayed month (first of month).
	DisplayedMonth func() time.Time
	// AdvanceMonth moves the displayed month by exactly one step.
	AdvanceMonth func(step int)
	// DayHasEvents reports whether the date still has at least one visible
	// event; the confirm phase is skipped when it does not.
	DayHasEvents func(date time.Time) bool
	// SetPulsing flips the pulse flag for the target day.
	SetPulsing func(date time.Time, on bool)
	// SelectDay marks the day selected, opening its detail panel.
	SelectDay func(date time.Time)
	// Done signals completion, exactly once per accepted request.
	Done func(target domain.HighlightTarget)
}

// Machine walks the calendar to a target date one animated month at a time,
// then confirms arrival with a pulse-and-select sequence. It processes one
// request at a time; requests arriving mid-sequence are dropped.
//
// Every phase change is triggered by exactly one timer completion, and the
// next timer is scheduled only after the phase's own work is done, so no two
// timers for a sequence are ever pending at once.
type Machine struct {
	mu sync.Mutex

	phase     Phase
	direction Direction
	target    domain.HighlightTarget

	// onDone is the accepted request's completion callback. It lives on the
	// machine, not the caller, so accepting a sequence and storing its
	// callback are one atomic step; a rejected request can never displace it.
	onDone func(domain.HighlightTarget)

	timer   Timer
	stopped bool

	sched Scheduler
	t     Timings
	hooks Hooks
}

// NewMachine builds an idle machine. A nil scheduler gets the wall clock.
func NewMachine(sched Scheduler, t Timings, hooks Hooks) *Machine {
	if sched == nil {
		sched = NewClockScheduler()
	}
	return &Machine{phase: PhaseIdle, sched: sched, t: t, hooks: hooks}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Transitioning reports whether a month slide is in flight. Manual month
// navigation must be refused while it is; the confirm phases do not block it.
func (m *Machine) Transitioning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == PhaseTransitioning
}

// Navigate accepts a highlight request. The request is ignored when the
// machine is mid-sequence (re-entrancy guard) or when the target was already
// processed: the processed flag is what keeps a snapshot refresh from
// reissuing the same request while the sequence is running. A dropped
// request has no observable effect; in particular its done callback is
// never stored and never fires.
//
// done, if non-nil, is invoked exactly once when the accepted sequence
// completes. Returns true if the request was accepted.
func (m *Machine) Navigate(target *domain.HighlightTarget, done func(domain.HighlightTarget)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || target == nil || target.Processed {
		return false
	}
	if m.phase != PhaseIdle {
		return false
	}

	target.Processed = true
	m.target = *target
	m.onDone = done

	months := m.monthsToTargetLocked()
	if months == 0 {
		m.beginConfirmLocked()
		return true
	}

	m.direction = directionOf(months)
	m.phase = PhaseTransitioning
	m.timer = m.sched.AfterFunc(m.t.Slide, m.onSlide)
	return true
}

// monthsToTargetLocked reads the displayed month and returns the signed
// distance to the target month.
func (m *Machine) monthsToTargetLocked() int {
	displayed := m.hooks.DisplayedMonth()
	targetMonth := MonthOf(m.target.Date, m.target.Date.Location())
	return MonthsBetween(displayed, targetMonth)
}

func directionOf(months int) Direction {
	if months < 0 {
		return DirBackward
	}
	return DirForward
}

// onSlide fires when one single-month slide finishes. The remaining distance
// is re-read from the displayed month on every step rather than counted
// down, so arrival is "displayed month equals target month" even if the
// month moved underneath the sequence.
func (m *Machine) onSlide() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.phase != PhaseTransitioning {
		return
	}

	m.hooks.AdvanceMonth(int(m.direction))

	if months := m.monthsToTargetLocked(); months != 0 {
		m.direction = directionOf(months)
		m.timer = m.sched.AfterFunc(m.t.Slide, m.onSlide)
		return
	}

	m.phase = PhaseArrived
	m.timer = m.sched.AfterFunc(m.t.Stagger, m.onArrived)
}

func (m *Machine) onArrived() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.phase != PhaseArrived {
		return
	}
	m.beginConfirmLocked()
}

// beginConfirmLocked starts the two-phase confirmation, unless the target
// day lost its last visible event mid-sequence; then the sequence completes
// without pulsing or selecting anything.
func (m *Machine) beginConfirmLocked() {
	if m.hooks.DayHasEvents != nil && !m.hooks.DayHasEvents(m.target.Date) {
		m.finishLocked()
		return
	}

	m.phase = PhaseConfirming
	m.hooks.SetPulsing(m.target.Date, true)
	m.timer = m.sched.AfterFunc(m.t.Pulse, m.onPulse)
}

// onPulse ends phase one of the confirmation: the day becomes selected
// while the pulse flag is held a further Hold duration.
func (m *Machine) onPulse() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.phase != PhaseConfirming {
		return
	}

	m.hooks.SelectDay(m.target.Date)
	m.timer = m.sched.AfterFunc(m.t.Hold, m.onHold)
}

func (m *Machine) onHold() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.phase != PhaseConfirming {
		return
	}

	m.hooks.SetPulsing(m.target.Date, false)
	m.finishLocked()
}

// finishLocked reaches Done, signals completion, and returns to Idle so the
// next request can be accepted. The target and its callback are discarded
// with the sequence.
func (m *Machine) finishLocked() {
	m.phase = PhaseDone
	m.timer = nil
	target := m.target
	done := m.onDone
	m.target = domain.HighlightTarget{}
	m.onDone = nil

	if m.hooks.Done != nil {
		m.hooks.Done(target)
	}
	if done != nil {
		done(target)
	}
	m.phase = PhaseIdle
}

// Stop invalidates any pending timer and parks the machine. It is required
// on unmount of the calendar view so a late timer cannot mutate state that
// no longer exists; a stopped machine rejects all further requests.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.phase = PhaseIdle
	m.target = domain.HighlightTarget{}
	// A stopped sequence never completes, so its callback is dropped unfired.
	m.onDone = nil
}
