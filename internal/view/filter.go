package view

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

// Pipeline turns the catalogue snapshot into the ordered visible list.
// It is a pure function of its inputs: no caching, no mutation of the
// snapshot, cheap enough to re-run on every keystroke of the text query.
type Pipeline struct {
	collator  *collate.Collator
	loc       *time.Location
	weekStart time.Weekday
}

func NewPipeline(loc *time.Location, weekStart time.Weekday) *Pipeline {
	return &Pipeline{
		collator:  collate.New(language.English, collate.IgnoreCase),
		loc:       loc,
		weekStart: weekStart,
	}
}

// Apply filters and sorts the snapshot. registered may be nil while the
// viewer's registration fetch is still in flight; "not yet known" reads as
// "not registered". The returned slice is freshly allocated.
func (p *Pipeline) Apply(snapshot []domain.Event, registered map[int64]struct{}, f domain.FilterState, now time.Time) []domain.Event {
	out := make([]domain.Event, 0, len(snapshot))
	query := strings.ToLower(strings.TrimSpace(f.Query))

	for _, ev := range snapshot {
		if !p.inWindow(&ev, registered, f.Window, now) {
			continue
		}
		if !f.HasType(ev.Type) {
			continue
		}
		if query != "" && !matchesQuery(&ev, query) {
			continue
		}
		out = append(out, ev)
	}

	p.sortEvents(out, f.Sort)
	return out
}

func (p *Pipeline) inWindow(ev *domain.Event, registered map[int64]struct{}, w domain.TimeWindow, now time.Time) bool {
	switch w {
	case domain.WindowAll:
		return true
	case domain.WindowUpcoming:
		return !ev.StartTime.Before(now)
	case domain.WindowThisWeek:
		return !ev.StartTime.Before(now) && ev.StartTime.Before(p.endOfWeek(now))
	case domain.WindowThisMonth:
		return !ev.StartTime.Before(now) && ev.StartTime.Before(p.endOfMonth(now))
	case domain.WindowMyEvents:
		// Registration status takes precedence, but past registered events
		// stay out of this view.
		if ev.StartTime.Before(now) {
			return false
		}
		_, ok := registered[ev.ID]
		return ok
	default:
		return true
	}
}

// endOfWeek returns the first instant after the current week, i.e. midnight
// of the next week-start day.
func (p *Pipeline) endOfWeek(now time.Time) time.Time {
	t := now.In(p.loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.loc)
	days := (int(p.weekStart) - int(day.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return day.AddDate(0, 0, days)
}

// endOfMonth returns midnight of the first day of the next calendar month.
func (p *Pipeline) endOfMonth(now time.Time) time.Time {
	t := now.In(p.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, p.loc).AddDate(0, 1, 0)
}

func matchesQuery(ev *domain.Event, query string) bool {
	return strings.Contains(strings.ToLower(ev.Title), query) ||
		strings.Contains(strings.ToLower(ev.Description), query) ||
		strings.Contains(strings.ToLower(ev.Location), query)
}

// sortEvents sorts in place. Sorting is stable so that snapshot order acts
// as the tiebreak for identical keys.
func (p *Pipeline) sortEvents(events []domain.Event, key domain.SortKey) {
	switch key {
	case domain.SortDateDesc:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].StartTime.After(events[j].StartTime)
		})
	case domain.SortNameAsc:
		sort.SliceStable(events, func(i, j int) bool {
			return p.collator.CompareString(events[i].Title, events[j].Title) < 0
		})
	case domain.SortNameDesc:
		sort.SliceStable(events, func(i, j int) bool {
			return p.collator.CompareString(events[i].Title, events[j].Title) > 0
		})
	default: // date_asc
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].StartTime.Before(events[j].StartTime)
		})
	}
}
