package view

import (
	"sync"
	"time"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

// CoordinatorOptions configure a viewer's calendar session.
type CoordinatorOptions struct {
	Location   *time.Location
	WeekStart  time.Weekday
	DisplayCap int
	Precision  int
	Fit        FitOptions
	Timings    Timings
	Scheduler  Scheduler        // nil = wall clock
	Now        func() time.Time // nil = time.Now
}

// Coordinator owns the view state for one viewer: filter state, displayed
// month, day selection, and the active highlight target. The derived views
// (visible list, month grid, marker groups) are recomputed from the snapshot
// on every read; they have no lifecycle of their own.
//
// Lock ordering: the coordinator never calls into the highlight machine
// while holding its own mutex. The machine's hooks call back into the
// coordinator and take the mutex themselves.
type Coordinator struct {
	mu sync.Mutex

	loc      *time.Location
	pipeline *Pipeline
	gridOpts GridOptions
	fit      FitOptions

	precision int

	snapshot   []domain.Event
	registered map[int64]struct{}

	filters  domain.FilterState
	month    time.Time // first of the displayed month, in loc
	selected *time.Time
	pulsing  *time.Time

	seeded bool

	machine *Machine
	target  *domain.HighlightTarget

	now func() time.Time
}

func NewCoordinator(opts CoordinatorOptions) *Coordinator {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DisplayCap == 0 {
		opts.DisplayCap = 2
	}
	if opts.Precision == 0 {
		opts.Precision = DefaultClusterPrecision
	}
	if opts.Fit == (FitOptions{}) {
		opts.Fit = DefaultFitOptions
	}
	if opts.Timings == (Timings{}) {
		opts.Timings = DefaultTimings
	}

	c := &Coordinator{
		loc:       opts.Location,
		pipeline:  NewPipeline(opts.Location, opts.WeekStart),
		fit:       opts.Fit,
		precision: opts.Precision,
		filters:   domain.DefaultFilters(),
		now:       opts.Now,
	}
	c.gridOpts = GridOptions{
		Location:   opts.Location,
		WeekStart:  opts.WeekStart,
		DisplayCap: opts.DisplayCap,
	}
	c.month = MonthOf(c.now(), c.loc)

	c.machine = NewMachine(opts.Scheduler, opts.Timings, Hooks{
		DisplayedMonth: c.displayedMonthHook,
		AdvanceMonth:   c.advanceMonthHook,
		DayHasEvents:   c.dayHasEventsHook,
		SetPulsing:     c.setPulsingHook,
		SelectDay:      c.selectDayHook,
		Done:           c.doneHook,
	})
	return c
}

// --- snapshot ingestion ---

// SetSnapshot replaces the catalogue snapshot wholesale. Selection survives
// the refresh; the derived views pick up the new data on the next read.
func (c *Coordinator) SetSnapshot(events []domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = events
}

// SetRegistered replaces the viewer's registered-event-id set. A nil set is
// valid and reads as "nothing registered" until the fetch resolves.
func (c *Coordinator) SetRegistered(ids map[int64]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registered = ids
}

// Seed applies navigation parameters exactly once, at first render. Later
// snapshot refreshes must not re-fire the seeding, so repeat calls are no-ops.
// The returned target, if any, should be handed to RequestHighlight by the
// caller once its first snapshot is in place.
func (c *Coordinator) Seed(requestedType *domain.EventType, highlight *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seeded {
		return
	}
	c.seeded = true

	if requestedType != nil && domain.ValidEventType(*requestedType) {
		c.filters.Types = []domain.EventType{*requestedType}
	}
	if highlight != nil {
		d := highlight.In(c.loc)
		date := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc)
		c.target = &domain.HighlightTarget{Date: date}
	}
}

// PendingTarget returns the seeded highlight target, if one is waiting.
func (c *Coordinator) PendingTarget() *domain.HighlightTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// --- filter actions ---

func (c *Coordinator) SetWindow(w domain.TimeWindow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Window = w
}

func (c *Coordinator) ToggleType(t domain.EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.ToggleType(t)
}

func (c *Coordinator) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Query = q
}

func (c *Coordinator) SetSort(s domain.SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Sort = s
}

// ClearFilters resets filter state to the defaults.
func (c *Coordinator) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = domain.DefaultFilters()
}

// Filters returns a copy of the current filter state.
func (c *Coordinator) Filters() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// --- month navigation & selection ---

// DisplayedMonth returns the first of the currently displayed month.
func (c *Coordinator) DisplayedMonth() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.month
}

// NextMonth advances the displayed month by one. Refused while a highlight
// slide is in flight, so manual and driven animations never interleave.
func (c *Coordinator) NextMonth() bool { return c.stepMonth(1) }

// PrevMonth moves the displayed month back by one, under the same guard.
func (c *Coordinator) PrevMonth() bool { return c.stepMonth(-1) }

func (c *Coordinator) stepMonth(step int) bool {
	if c.machine.Transitioning() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.month = c.month.AddDate(0, step, 0)
	c.selected = nil
	return true
}

// SelectDay marks a calendar day selected. Empty days are inert: selection
// requires at least one visible event on the date.
func (c *Coordinator) SelectDay(date time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := date.In(c.loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc)
	if len(c.eventsOnLocked(day)) == 0 {
		return false
	}
	c.selected = &day
	return true
}

// ClearSelection drops the day selection.
func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// SelectedDate returns the selected day, or nil.
func (c *Coordinator) SelectedDate() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Pulsing reports whether date is currently pulsing from a highlight confirm.
func (c *Coordinator) Pulsing(date time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pulsing != nil && sameDate(*c.pulsing, date, c.loc)
}

// --- derived views ---

// VisibleEvents runs the filter/sort pipeline over the current snapshot.
func (c *Coordinator) VisibleEvents() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

// Calendar builds the month grid for the displayed month.
func (c *Coordinator) Calendar() []domain.CalendarDay {
	c.mu.Lock()
	defer c.mu.Unlock()

	opts := c.gridOpts
	opts.Now = c.now()
	return BuildMonthGrid(c.visibleLocked(), c.month, opts)
}

// Markers clusters the visible events for the map.
func (c *Coordinator) Markers() []domain.LocationGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Cluster(c.visibleLocked(), c.precision)
}

// FocusEvents is the selected day's event list, or empty when nothing is
// selected. This is the single typed channel between calendar selection and
// the map; the map never reaches into calendar state directly.
func (c *Coordinator) FocusEvents() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected == nil {
		return nil
	}
	return c.eventsOnLocked(*c.selected)
}

// Viewport computes the map viewport request for the current focus set.
func (c *Coordinator) Viewport() domain.ViewportRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := c.visibleLocked()
	var focus []domain.Event
	if c.selected != nil {
		focus = eventsOn(visible, *c.selected, c.loc)
	}
	return FitViewport(focus, visible, c.fit)
}

func (c *Coordinator) visibleLocked() []domain.Event {
	return c.pipeline.Apply(c.snapshot, c.registered, c.filters, c.now())
}

func (c *Coordinator) eventsOnLocked(day time.Time) []domain.Event {
	return eventsOn(c.visibleLocked(), day, c.loc)
}

func eventsOn(visible []domain.Event, day time.Time, loc *time.Location) []domain.Event {
	var out []domain.Event
	for _, ev := range visible {
		if sameDate(ev.StartTime, day, loc) {
			out = append(out, ev)
		}
	}
	return out
}

func sameDate(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// --- highlight navigation ---

// RequestHighlight starts the animated walk to date. done, if non-nil, is
// invoked exactly once when the sequence completes; a request issued while
// another is mid-sequence is dropped and done is never called for it.
//
// The callback travels into the machine with the request, where acceptance
// and callback storage happen under one lock: a dropped request can never
// displace the in-flight sequence's callback. Only the pending-target
// bookkeeping lives here, and a rejection restores what was in flight.
func (c *Coordinator) RequestHighlight(date time.Time, eventID int64, done func(domain.HighlightTarget)) bool {
	d := date.In(c.loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc)
	target := &domain.HighlightTarget{Date: day, EventID: eventID}

	c.mu.Lock()
	prevTarget := c.target
	c.target = target
	c.mu.Unlock()

	accepted := c.machine.Navigate(target, done)
	if !accepted {
		c.mu.Lock()
		if c.target == target {
			c.target = prevTarget
		}
		c.mu.Unlock()
	}
	return accepted
}

// HighlightPhase exposes the machine phase for rendering.
func (c *Coordinator) HighlightPhase() Phase { return c.machine.Phase() }

// Stop invalidates all pending highlight timers. Required when the calendar
// view unmounts; no timer may mutate coordinator state afterwards.
func (c *Coordinator) Stop() { c.machine.Stop() }

// --- machine hooks (each takes the coordinator mutex itself) ---

func (c *Coordinator) displayedMonthHook() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.month
}

func (c *Coordinator) advanceMonthHook(step int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.month = c.month.AddDate(0, step, 0)
}

func (c *Coordinator) dayHasEventsHook(date time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.eventsOnLocked(date)) > 0
}

func (c *Coordinator) setPulsingHook(date time.Time, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		d := date
		c.pulsing = &d
	} else {
		c.pulsing = nil
	}
}

func (c *Coordinator) selectDayHook(date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := date
	c.selected = &d
	c.month = MonthOf(date, c.loc)
}

func (c *Coordinator) doneHook(domain.HighlightTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = nil
}
