package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
	"github.com/Abepena/nj-stars-sub000/internal/service"
	"github.com/Abepena/nj-stars-sub000/internal/view"
)

// session pairs a coordinator with its completion bookkeeping. The
// coordinator's Done callback runs on a timer goroutine; completed targets
// are parked here and handed out once on the next state read.
type session struct {
	id    string
	coord *view.Coordinator

	mu        sync.Mutex
	completed *domain.HighlightTarget
}

func (s *session) takeCompleted() *domain.HighlightTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.completed
	s.completed = nil
	return t
}

// SessionHandler owns the per-viewer coordinator sessions: filter state,
// displayed month, selection, and highlight navigation all live server-side
// for the lifetime of a session.
type SessionHandler struct {
	catalog service.CatalogService
	opts    ViewOptions
	mux     *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionHandler(catalog service.CatalogService, opts ViewOptions) *SessionHandler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	h := &SessionHandler{
		catalog:  catalog,
		opts:     opts,
		mux:      http.NewServeMux(),
		sessions: make(map[string]*session),
	}
	h.routes()
	return h
}

func (h *SessionHandler) routes() {
	h.mux.HandleFunc("POST /{$}", h.handleCreate)
	h.mux.HandleFunc("GET /{id}", h.handleState)
	h.mux.HandleFunc("DELETE /{id}", h.handleClose)
	h.mux.HandleFunc("POST /{id}/refresh", h.handleRefresh)
	h.mux.HandleFunc("POST /{id}/filters", h.handleFilters)
	h.mux.HandleFunc("POST /{id}/month", h.handleMonth)
	h.mux.HandleFunc("POST /{id}/select", h.handleSelect)
	h.mux.HandleFunc("POST /{id}/highlight", h.handleHighlight)
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *SessionHandler) get(id string) *session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[id]
}

// createRequest optionally seeds the session from navigation parameters.
// Seeding happens exactly once, at creation; later refreshes cannot re-fire it.
type createRequest struct {
	RequestedType string `json:"requested_type,omitempty"`
	HighlightDate string `json:"highlight_date,omitempty"`
}

// handleCreate opens a calendar session
// @Summary Open a view session
// @Description Create a server-side coordinator seeded from optional navigation params
// @Tags sessions
// @Accept json
// @Produce json
// @Param seed body transport.createRequest false "Navigation seed"
// @Success 201 {object} domain.APIResponse{data=string} "Returns the session id"
// @Router /sessions [post]
func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, domain.ErrValidation("invalid JSON body"))
			return
		}
	}

	coord := view.NewCoordinator(view.CoordinatorOptions{
		Location:   h.opts.Location,
		WeekStart:  h.opts.WeekStart,
		DisplayCap: h.opts.DisplayCap,
		Precision:  h.opts.Precision,
		Fit:        h.opts.Fit,
		Timings:    h.opts.Timings,
	})

	var seedType *domain.EventType
	if t := domain.EventType(req.RequestedType); domain.ValidEventType(t) {
		seedType = &t
	}
	var seedDate *time.Time
	if req.HighlightDate != "" {
		d, err := time.ParseInLocation("2006-01-02", req.HighlightDate, h.opts.Location)
		if err != nil {
			respondError(w, domain.ErrValidation("highlight_date must look like 2026-03-14"))
			return
		}
		seedDate = &d
	}
	coord.Seed(seedType, seedDate)

	s := &session{id: uuid.New().String(), coord: coord}
	if err := h.load(r, s); err != nil {
		respondError(w, err)
		return
	}

	// A seeded highlight starts its walk once the first snapshot is in.
	if target := coord.PendingTarget(); target != nil && !target.Processed {
		coord.RequestHighlight(target.Date, target.EventID, func(t domain.HighlightTarget) {
			s.mu.Lock()
			s.completed = &t
			s.mu.Unlock()
		})
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, domain.APIResponse{Data: s.id})
}

// load pulls a fresh snapshot and registration set into the coordinator.
// The two fetches are independent: a failed registration fetch leaves the
// previous set in place rather than failing the refresh.
func (h *SessionHandler) load(r *http.Request, s *session) error {
	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		return err
	}
	s.coord.SetSnapshot(snapshot)

	if uid := UserID(r.Context()); uid != "" {
		if registered, err := h.catalog.RegisteredIDs(r.Context(), uid); err == nil {
			s.coord.SetRegistered(registered)
		}
	}
	return nil
}

// sessionState is the full view model a renderer needs for one frame.
type sessionState struct {
	ID        string                  `json:"id"`
	Filters   domain.FilterState      `json:"filters"`
	Month     time.Time               `json:"month"`
	Phase     view.Phase              `json:"phase"`
	Selected  *time.Time              `json:"selected,omitempty"`
	Events    []domain.Event          `json:"events"`
	Calendar  []domain.CalendarDay    `json:"calendar"`
	Markers   []domain.LocationGroup  `json:"markers"`
	Focus     []domain.Event          `json:"focus,omitempty"`
	Viewport  domain.ViewportRequest  `json:"viewport"`
	Completed *domain.HighlightTarget `json:"highlight_completed,omitempty"`
}

// handleState returns the session's derived views
// @Summary Read session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.APIResponse{data=transport.sessionState}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /sessions/{id} [get]
func (h *SessionHandler) handleState(w http.ResponseWriter, r *http.Request) {
	s := h.get(r.PathValue("id"))
	if s == nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, domain.APIResponse{Data: sessionState{
		ID:        s.id,
		Filters:   s.coord.Filters(),
		Month:     s.coord.DisplayedMonth(),
		Phase:     s.coord.HighlightPhase(),
		Selected:  s.coord.SelectedDate(),
		Events:    s.coord.VisibleEvents(),
		Calendar:  s.coord.Calendar(),
		Markers:   s.coord.Markers(),
		Focus:     s.coord.FocusEvents(),
		Viewport:  s.coord.Viewport(),
		Completed: s.takeCompleted(),
	}})
}

// handleClose tears the session down, invalidating pending highlight timers.
// @Summary Close a view session
// @Tags sessions
// @Param id path string true "Session id"
// @Success 200 {object} domain.APIResponse{data=string}
// @Router /sessions/{id} [delete]
func (h *SessionHandler) handleClose(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.mu.Lock()
	s := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if s == nil {
		respondError(w, domain.ErrNotFound)
		return
	}
	// No timer may fire into a closed session.
	s.coord.Stop()
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: "closed"})
}

// handleRefresh replaces the session's snapshot wholesale.
// @Summary Refresh the session snapshot
// @Tags sessions
// @Param id path string true "Session id"
// @Success 200 {object} domain.APIResponse{data=string}
// @Router /sessions/{id}/refresh [post]
func (h *SessionHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s := h.get(r.PathValue("id"))
	if s == nil {
		respondError(w, domain.ErrNotFound)
		return
	}
	if err := h.load(r, s); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: "refreshed"})
}

// filterRequest applies explicit filter actions. Absent fields leave the
// current state alone; Clear resets everything first.
type filterRequest struct {
	Clear      bool    `json:"clear,omitempty"`
	Window     *string `json:"window,omitempty"`
	ToggleType *string `json:"toggle_type,omitempty"`
	Query      *string `json:"query,omitempty"`
	Sort       *string `json:"sort,omitempty"`
}

// handleFilters mutates the session's filter state
// @Summary Update filters
// @Tags sessions
// @Accept json
// @Param id path string true "Session id"
// @Param actions body transport.filterRequest true "Filter actions"
// @Success 200 {object} domain.APIResponse{data=domain.FilterState}
// @Router /sessions/{id}/filters [post]
func (h *SessionHandler) handleFilters(w http.ResponseWriter, r *http.Request) {
	s := h.get(r.PathValue("id"))
	if s == nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	if req.Clear {
		s.coord.ClearFilters()
	}
	if req.Window != nil {
		switch win := domain.TimeWindow(*req.Window); win {
		case domain.WindowAll, domain.WindowUpcoming, domain.WindowThisWeek,
			domain.WindowThisMonth, domain.WindowMyEvents:
			s.coord.SetWindow(win)
		default:
			respondError(w, domain.ErrValidation("unknown time window"))
			return
		}
	}
	if req.ToggleType != nil {
		t := domain.EventType(*req.ToggleType)
		if !domain.ValidEventType(t) {
			respondError(w, domain.ErrValidation("unknown event type"))
			return
		}
		s.coord.ToggleType(t)
	}
	if req.Query != nil {
		s.coord.SetQuery(*req.Query)
	}
	if req.Sort != nil {
		switch key := domain.SortKey(*req.Sort); key {
		case domain.SortDateAsc, domain.SortDateDesc, domain.SortNameAsc, domain.SortNameDesc:
			s.coord.SetSort(key)
		default:
			respondError(w, domain.ErrValidation("unknown sort key"))
			return
		}
	}

	writeJSON(w, http.StatusOK, domain.APIResponse{Data: s.coord.Filters()})
}

type monthRequest struct {
	Step int `json:"step"` // +1 or -1
}

// handleMonth steps the displayed month manually
// @Summary Manual month navigation
// @Description Step the displayed month; refused while a highlight slide is in flight
// @Tags sessions
// @Accept json
// @Param id path string true "Session id"
// @Param step body transport.monthRequest true "Direction"
// @Success 200 {object} domain.APIResponse{data=string}
// @Failure 409 {object} domain.APIResponse{error=string}
// @Router /sessions/{id}/month [post]
func (h *SessionHandler) handleMonth(w http.ResponseWriter, r *http.Request) {
	s := h.get(r.PathValue("id"))
	if s == nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	var req monthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	var ok bool
	switch req.Step {
	case 1:
		ok = s.coord.NextMonth()
	case -1:
		ok = s.coord.PrevMonth()
	default:
		respondError(w, domain.ErrValidation("step must be 1 or -1"))
		return
	}
	if !ok {
		writeJSON(w, http.StatusConflict, domain.APIResponse{Error: "navigation is animating"})
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: s.coord.DisplayedMonth().Format("2006-01")})
}

type selectRequest struct {
	Date string `json:"date,omitempty"` // empty clears the selection
}

// handleSelect sets or clears the day selection
// @Summary Select a calendar day
// @Tags sessions
// @Accept json
// @Param id path string true "Session id"
// @Param day body transport.selectRequest true "Day to select, empty to clear"
// @Success 200 {object} domain.APIResponse{data=[]domain.Event} "The new focus set"
// @Router /sessions/{id}/select [post]
func (h *SessionHandler) handleSelect(w http.ResponseWriter, r *http.Request) {
	s := h.get(r.PathValue("id"))
	if s == nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	if req.Date == "" {
		s.coord.ClearSelection()
		writeJSON(w, http.StatusOK, domain.APIResponse{Data: []domain.Event{}})
		return
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, h.opts.Location)
	if err != nil {
		respondError(w, domain.ErrValidation("date must look like 2026-03-14"))
		return
	}
	if !s.coord.SelectDay(day) {
		respondError(w, domain.ErrValidation("day has no events"))
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: s.coord.FocusEvents()})
}

// handleHighlight starts the animated walk to a date
// @Summary Request highlight navigation
// @Description Walk the calendar month by month to the target date and confirm arrival
// @Tags sessions
// @Accept json
// @Param id path string true "Session id"
// @Param target body domain.HighlightRequestDTO true "Target"
// @Success 202 {object} domain.APIResponse{data=string}
// @Failure 409 {object} domain.APIResponse{error=string} "A sequence is already running"
// @Router /sessions/{id}/highlight [post]
func (h *SessionHandler) handleHighlight(w http.ResponseWriter, r *http.Request) {
	s := h.get(r.PathValue("id"))
	if s == nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	var req domain.HighlightRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	if err := domain.Validate.Struct(&req); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, h.opts.Location)
	if err != nil {
		respondError(w, domain.ErrValidation("date must look like 2026-03-14"))
		return
	}

	accepted := s.coord.RequestHighlight(day, req.EventID, func(t domain.HighlightTarget) {
		s.mu.Lock()
		s.completed = &t
		s.mu.Unlock()
	})
	if !accepted {
		writeJSON(w, http.StatusConflict, domain.APIResponse{Error: "a highlight sequence is already running"})
		return
	}
	writeJSON(w, http.StatusAccepted, domain.APIResponse{Data: "navigating"})
}
