package view

import (
	"math"
	"strconv"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

// DefaultClusterPrecision is the decimal-place rounding applied to
// coordinates before grouping (4 decimals is roughly 11 meters). It is a
// tunable display granularity, not a precision guarantee; config overrides it.
const DefaultClusterPrecision = 4

// FitOptions controls viewport requests produced by FitViewport.
type FitOptions struct {
	Padding   int // pixel margin for bounds fits
	CloseZoom int // zoom level used when centering on a single event
}

// DefaultFitOptions mirror the map layer's tuning.
var DefaultFitOptions = FitOptions{Padding: 48, CloseZoom: 15}

// ClusterKey renders the rounded coordinate pair as the grouping key.
// Two events share a marker if and only if their keys match exactly; there
// is no distance-based merging across the rounding boundary.
//
// Rounding formats the float directly rather than going through
// math.Round(v*1e4)/1e4: multiplying first manufactures exact .5 ties out
// of values that are actually just below them, splitting coordinates that
// differ only in noise beyond the precision.
func ClusterKey(lat, lng float64, precision int) string {
	return strconv.FormatFloat(lat, 'f', precision, 64) +
		"_" +
		strconv.FormatFloat(lng, 'f', precision, 64)
}

func roundTo(v float64, places int) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return r
}

// Cluster collapses mappable events onto markers keyed by rounded
// coordinates. Events without a complete coordinate pair stay out of the
// map entirely (they remain in the list and calendar views). Groups come
// back in first-appearance order of the visible list, so the pipeline's
// sort carries through; each group's members are ordered by start time
// with the cursor reset to 0.
func Cluster(visible []domain.Event, precision int) []domain.LocationGroup {
	if precision <= 0 {
		precision = DefaultClusterPrecision
	}

	index := make(map[string]int)
	groups := make([]domain.LocationGroup, 0)

	for _, ev := range visible {
		if !ev.Mappable() {
			continue
		}
		key := ClusterKey(*ev.Latitude, *ev.Longitude, precision)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.LocationGroup{
				Key:       key,
				Latitude:  roundTo(*ev.Latitude, precision),
				Longitude: roundTo(*ev.Longitude, precision),
			})
		}
		groups[i].Events = insertByStart(groups[i].Events, ev)
	}
	return groups
}

// insertByStart keeps the member list ordered by start time ascending,
// preserving input order on ties.
func insertByStart(events []domain.Event, ev domain.Event) []domain.Event {
	i := len(events)
	for ; i > 0; i-- {
		if !events[i-1].StartTime.After(ev.StartTime) {
			break
		}
	}
	events = append(events, domain.Event{})
	copy(events[i+1:], events[i:])
	events[i] = ev
	return events
}

// FitViewport computes the viewport request for a focus set (typically the
// selected day's events) against all currently visible events.
//
//   - empty focus: fit everything mappable, unless there is at most one
//     mappable event in total, in which case the last fitted view stands.
//   - one focus event: center close on its coordinate.
//   - several: fit bounds around every focus coordinate with padding.
func FitViewport(focus, visible []domain.Event, opts FitOptions) domain.ViewportRequest {
	mapped := mappableOnly(focus)

	switch len(mapped) {
	case 0:
		all := mappableOnly(visible)
		if len(all) <= 1 {
			return domain.ViewportRequest{Kind: domain.ViewportNone}
		}
		b := boundsOf(all)
		return domain.ViewportRequest{Kind: domain.ViewportFitAll, Bounds: &b, Padding: opts.Padding}
	case 1:
		return domain.ViewportRequest{
			Kind:   domain.ViewportCenter,
			Center: &domain.LatLng{Lat: *mapped[0].Latitude, Lng: *mapped[0].Longitude},
			Zoom:   opts.CloseZoom,
		}
	default:
		b := boundsOf(mapped)
		return domain.ViewportRequest{Kind: domain.ViewportFitBounds, Bounds: &b, Padding: opts.Padding}
	}
}

func mappableOnly(events []domain.Event) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		if ev.Mappable() {
			out = append(out, ev)
		}
	}
	return out
}

func boundsOf(events []domain.Event) domain.Bounds {
	b := domain.Bounds{
		South: *events[0].Latitude, North: *events[0].Latitude,
		West: *events[0].Longitude, East: *events[0].Longitude,
	}
	for _, ev := range events[1:] {
		b.South = math.Min(b.South, *ev.Latitude)
		b.North = math.Max(b.North, *ev.Latitude)
		b.West = math.Min(b.West, *ev.Longitude)
		b.East = math.Max(b.East, *ev.Longitude)
	}
	return b
}
