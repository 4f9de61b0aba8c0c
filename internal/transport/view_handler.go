package transport

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
	"github.com/Abepena/nj-stars-sub000/internal/service"
	"github.com/Abepena/nj-stars-sub000/internal/view"
)

// ViewOptions carries the tuning the view endpoints and sessions share.
type ViewOptions struct {
	Location   *time.Location
	WeekStart  time.Weekday
	DisplayCap int
	Precision  int
	Fit        view.FitOptions
	Timings    view.Timings
}

// ViewHandler serves the stateless derived views: the visible list, the
// month grid, and the map markers. Each request recomputes from a fresh
// snapshot; filter state travels in the query string.
type ViewHandler struct {
	catalog  service.CatalogService
	pipeline *view.Pipeline
	opts     ViewOptions
}

func NewViewHandler(catalog service.CatalogService, opts ViewOptions) *ViewHandler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &ViewHandler{
		catalog:  catalog,
		pipeline: view.NewPipeline(opts.Location, opts.WeekStart),
		opts:     opts,
	}
}

func (h *ViewHandler) eventsMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleEvents)
	mux.HandleFunc("GET /{slug}", h.handleEventBySlug)
	return mux
}

func (h *ViewHandler) calendarMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleCalendar)
	return mux
}

func (h *ViewHandler) markersMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleMarkers)
	return mux
}

// visible fetches the snapshot and runs the filter/sort pipeline over it.
func (h *ViewHandler) visible(r *http.Request) ([]domain.Event, domain.FilterState, error) {
	filters := parseFilters(r)

	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		return nil, filters, err
	}

	var registered map[int64]struct{}
	if filters.Window == domain.WindowMyEvents {
		// A failed or missing registration fetch degrades to "none", it
		// never fails the view.
		registered, _ = h.catalog.RegisteredIDs(r.Context(), UserID(r.Context()))
	}

	return h.pipeline.Apply(snapshot, registered, filters, time.Now()), filters, nil
}

// handleEvents lists the filtered, sorted visible events
// @Summary List visible events
// @Description Apply the viewer's filters and sort to the event catalogue
// @Tags views
// @Produce json
// @Param window query string false "Time window (all|upcoming|this_week|this_month|my_events)"
// @Param types query string false "Comma-separated event types"
// @Param q query string false "Free-text query"
// @Param sort query string false "Sort key (date_asc|date_desc|name_asc|name_desc)"
// @Success 200 {object} domain.APIResponse{data=[]domain.Event}
// @Router /events [get]
func (h *ViewHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, _, err := h.visible(r)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: events})
}

// handleEventBySlug returns one event by its slug
// @Summary Get an event
// @Tags views
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} domain.APIResponse{data=domain.Event}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /events/{slug} [get]
func (h *ViewHandler) handleEventBySlug(w http.ResponseWriter, r *http.Request) {
	ev, err := h.catalog.EventBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: ev})
}

// handleCalendar builds the month grid for the visible events
// @Summary Month grid
// @Description Project the visible events onto a month calendar grid
// @Tags views
// @Produce json
// @Param month query string false "Target month (YYYY-MM, default current)"
// @Success 200 {object} domain.APIResponse{data=[]domain.CalendarDay}
// @Router /calendar [get]
func (h *ViewHandler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	events, _, err := h.visible(r)
	if err != nil {
		respondError(w, err)
		return
	}

	month := view.MonthOf(time.Now(), h.opts.Location)
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := time.ParseInLocation("2006-01", m, h.opts.Location)
		if err != nil {
			respondError(w, domain.ErrValidation("month must look like 2026-03"))
			return
		}
		month = parsed
	}

	grid := view.BuildMonthGrid(events, month, view.GridOptions{
		Location:   h.opts.Location,
		WeekStart:  h.opts.WeekStart,
		DisplayCap: h.opts.DisplayCap,
		Now:        time.Now(),
	})
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: grid})
}

// handleMarkers clusters the visible events for the map
// @Summary Map markers
// @Description Group visible events sharing a rounded coordinate into markers
// @Tags views
// @Produce json
// @Param focus_date query string false "Focus day (YYYY-MM-DD) for the viewport request"
// @Success 200 {object} domain.APIResponse{data=transport.MarkersResponse}
// @Router /markers [get]
func (h *ViewHandler) handleMarkers(w http.ResponseWriter, r *http.Request) {
	events, _, err := h.visible(r)
	if err != nil {
		respondError(w, err)
		return
	}

	groups := view.Cluster(events, h.opts.Precision)

	var focus []domain.Event
	if fd := r.URL.Query().Get("focus_date"); fd != "" {
		day, err := time.ParseInLocation("2006-01-02", fd, h.opts.Location)
		if err != nil {
			respondError(w, domain.ErrValidation("focus_date must look like 2026-03-14"))
			return
		}
		for _, ev := range events {
			if ev.StartDate(h.opts.Location).Equal(day) {
				focus = append(focus, ev)
			}
		}
	}

	writeJSON(w, http.StatusOK, domain.APIResponse{Data: MarkersResponse{
		Groups:   groups,
		Focus:    focus,
		Viewport: view.FitViewport(focus, events, h.opts.Fit),
	}})
}

// MarkersResponse bundles the marker groups with the focus set and the
// viewport request computed for it.
type MarkersResponse struct {
	Groups   []domain.LocationGroup `json:"groups"`
	Focus    []domain.Event         `json:"focus,omitempty"`
	Viewport domain.ViewportRequest `json:"viewport"`
}

func parseFilters(r *http.Request) domain.FilterState {
	q := r.URL.Query()
	filters := domain.DefaultFilters()

	switch w := domain.TimeWindow(q.Get("window")); w {
	case domain.WindowAll, domain.WindowUpcoming, domain.WindowThisWeek,
		domain.WindowThisMonth, domain.WindowMyEvents:
		filters.Window = w
	}

	if raw := q.Get("types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if t := domain.EventType(strings.TrimSpace(part)); domain.ValidEventType(t) {
				filters.Types = append(filters.Types, t)
			}
		}
	}

	filters.Query = q.Get("q")

	switch s := domain.SortKey(q.Get("sort")); s {
	case domain.SortDateAsc, domain.SortDateDesc, domain.SortNameAsc, domain.SortNameDesc:
		filters.Sort = s
	}

	return filters
}
