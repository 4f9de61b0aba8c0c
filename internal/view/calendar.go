package view

import (
	"sort"
	"time"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

// GridOptions controls month-grid layout.
type GridOptions struct {
	Location   *time.Location
	WeekStart  time.Weekday
	DisplayCap int       // max events rendered inline per day before "+N more"
	Now        time.Time // reference instant for the IsToday flag
}

// BuildMonthGrid projects the visible events onto a month grid. The grid
// runs from the week-start on or before the first of the month through the
// week-end on or after the last day, so the cell count is always a multiple
// of seven. Padding cells outside the month are kept for layout but flagged.
//
// The function is pure and holds no state; callers rebuild the whole grid
// whenever the visible list or the displayed month changes. There is no
// incremental path on purpose: a full rebuild is what keeps buckets from
// going stale after a filter change.
func BuildMonthGrid(visible []domain.Event, month time.Time, opts GridOptions) []domain.CalendarDay {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -weekdayOffset(first.Weekday(), opts.WeekStart))
	gridEnd := last.AddDate(0, 0, 6-weekdayOffset(last.Weekday(), opts.WeekStart))

	buckets := bucketByDate(visible, loc)

	today := time.Date(opts.Now.In(loc).Year(), opts.Now.In(loc).Month(), opts.Now.In(loc).Day(), 0, 0, 0, 0, loc)

	days := make([]domain.CalendarDay, 0, 42)
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		events := buckets[dateKey(d)]
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].StartTime.Before(events[j].StartTime)
		})

		var counts map[domain.EventType]int
		if len(events) > 0 {
			counts = make(map[domain.EventType]int, len(events))
			for _, ev := range events {
				counts[ev.Type]++
			}
		}

		inline := len(events)
		if opts.DisplayCap > 0 && inline > opts.DisplayCap {
			inline = opts.DisplayCap
		}

		days = append(days, domain.CalendarDay{
			Date:          d,
			InMonth:       d.Month() == first.Month(),
			IsToday:       d.Equal(today),
			Events:        events,
			TypeCounts:    counts,
			InlineCount:   inline,
			OverflowCount: len(events) - inline,
			Selectable:    len(events) > 0,
		})
	}
	return days
}

// weekdayOffset is the number of days from weekStart up to wd, in [0,6].
func weekdayOffset(wd, weekStart time.Weekday) int {
	return (int(wd) - int(weekStart) + 7) % 7
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func bucketByDate(events []domain.Event, loc *time.Location) map[string][]domain.Event {
	buckets := make(map[string][]domain.Event)
	for _, ev := range events {
		key := dateKey(ev.StartTime.In(loc))
		buckets[key] = append(buckets[key], ev)
	}
	return buckets
}

// MonthOf truncates t to the first of its month in loc. The coordinator and
// the highlight machine both key navigation on this form.
func MonthOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// MonthsBetween returns the signed number of single-month steps from a to b.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
