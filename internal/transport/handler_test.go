package transport_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
	"github.com/Abepena/nj-stars-sub000/internal/transport"
)

// MockCatalogService implements CatalogService for handler testing
type MockCatalogService struct {
	SnapshotFunc    func(ctx context.Context) ([]domain.Event, error)
	EventBySlugFunc func(ctx context.Context, slug string) (*domain.Event, error)
	RegisteredFunc  func(ctx context.Context, userID string) (map[int64]struct{}, error)
}

func (m *MockCatalogService) Snapshot(ctx context.Context) ([]domain.Event, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx)
	}
	return nil, nil
}
func (m *MockCatalogService) EventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if m.EventBySlugFunc != nil {
		return m.EventBySlugFunc(ctx, slug)
	}
	return nil, domain.ErrNotFound
}
func (m *MockCatalogService) RegisteredIDs(ctx context.Context, userID string) (map[int64]struct{}, error) {
	if m.RegisteredFunc != nil {
		return m.RegisteredFunc(ctx, userID)
	}
	return nil, nil
}

type MockRegistrationService struct {
	RegisterFunc func(ctx context.Context, userID string, req *domain.RegistrationDTO) (*domain.Registration, error)
}

func (m *MockRegistrationService) Register(ctx context.Context, userID string, req *domain.RegistrationDTO) (*domain.Registration, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, userID, req)
	}
	return &domain.Registration{}, nil
}

func fixtureEvent(id int64, title string, eventType domain.EventType, start time.Time) domain.Event {
	lat, lng := 40.7357, -74.1724
	return domain.Event{
		ID:                 id,
		Slug:               fmt.Sprintf("evt-%d", id),
		Title:              title,
		Type:               eventType,
		StartTime:          start,
		EndTime:            start.Add(2 * time.Hour),
		Location:           "Newark Gym",
		Latitude:           &lat,
		Longitude:          &lng,
		Price:              "25",
		IsRegistrationOpen: true,
	}
}

// Dates sit far in the future so the default "upcoming" window keeps them
// visible regardless of the wall clock.
var (
	day1 = time.Date(2099, 3, 14, 10, 0, 0, 0, time.UTC)
	day2 = time.Date(2099, 3, 15, 18, 0, 0, 0, time.UTC)
)

func fixtureCatalog() *MockCatalogService {
	return &MockCatalogService{
		SnapshotFunc: func(ctx context.Context) ([]domain.Event, error) {
			return []domain.Event{
				fixtureEvent(1, "Spring Tryout", domain.TypeTryout, day1),
				fixtureEvent(2, "Open Gym Night", domain.TypeOpenGym, day1),
				fixtureEvent(3, "Skills Clinic", domain.TypeSkills, day2),
			}, nil
		},
	}
}

func newTestRouter(catalog *MockCatalogService, regs *MockRegistrationService) http.Handler {
	opts := transport.ViewOptions{Location: time.UTC, DisplayCap: 2, Precision: 4}
	return transport.NewRouter(
		transport.NewViewHandler(catalog, opts),
		transport.NewSessionHandler(catalog, opts),
		transport.NewRegistrationHandler(regs),
	)
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.Data
}

func TestViewHandler_Events_TypeFilter(t *testing.T) {
	router := newTestRouter(fixtureCatalog(), &MockRegistrationService{})

	req := httptest.NewRequest(http.MethodGet, "/events/?types=tryout&sort=date_asc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	events := decodeData[[]domain.Event](t, w)
	if len(events) != 1 || events[0].ID != 1 {
		t.Errorf("Expected only the tryout, got %+v", events)
	}
}

func TestViewHandler_Events_MyEventsQueriesRegistrations(t *testing.T) {
	catalog := fixtureCatalog()
	called := false
	catalog.RegisteredFunc = func(ctx context.Context, userID string) (map[int64]struct{}, error) {
		called = true
		return map[int64]struct{}{3: {}}, nil
	}
	router := newTestRouter(catalog, &MockRegistrationService{})

	req := httptest.NewRequest(http.MethodGet, "/events/?window=my_events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if !called {
		t.Fatal("Expected the my_events window to fetch registered ids")
	}
	events := decodeData[[]domain.Event](t, w)
	if len(events) != 1 || events[0].ID != 3 {
		t.Errorf("Expected only the registered event, got %+v", events)
	}
}

func TestViewHandler_Events_SnapshotFailure(t *testing.T) {
	catalog := &MockCatalogService{
		SnapshotFunc: func(ctx context.Context) ([]domain.Event, error) {
			return nil, fmt.Errorf("%w: firestore unreachable", domain.ErrSnapshotUnavailable)
		},
	}
	router := newTestRouter(catalog, &MockRegistrationService{})

	req := httptest.NewRequest(http.MethodGet, "/events/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Result().StatusCode)
	}
}

func TestViewHandler_EventBySlug(t *testing.T) {
	catalog := fixtureCatalog()
	catalog.EventBySlugFunc = func(ctx context.Context, slug string) (*domain.Event, error) {
		if slug != "evt-1" {
			return nil, fmt.Errorf("event %q: %w", slug, domain.ErrNotFound)
		}
		ev := fixtureEvent(1, "Spring Tryout", domain.TypeTryout, day1)
		return &ev, nil
	}
	router := newTestRouter(catalog, &MockRegistrationService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/evt-1", nil))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	ev := decodeData[domain.Event](t, w)
	if ev.Slug != "evt-1" {
		t.Errorf("Expected slug evt-1, got %q", ev.Slug)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/missing", nil))
	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Result().StatusCode)
	}
}

func TestViewHandler_Calendar_BadMonth(t *testing.T) {
	router := newTestRouter(fixtureCatalog(), &MockRegistrationService{})

	req := httptest.NewRequest(http.MethodGet, "/calendar/?month=March", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
	}
}

func TestViewHandler_Calendar_GridShape(t *testing.T) {
	router := newTestRouter(fixtureCatalog(), &MockRegistrationService{})

	req := httptest.NewRequest(http.MethodGet, "/calendar/?month=2099-03", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	grid := decodeData[[]domain.CalendarDay](t, w)
	if len(grid)%7 != 0 {
		t.Errorf("Expected whole weeks, got %d cells", len(grid))
	}
	var withEvents int
	for _, day := range grid {
		if len(day.Events) > 0 {
			withEvents++
		}
	}
	if withEvents != 2 {
		t.Errorf("Expected 2 days with events, got %d", withEvents)
	}
}

func TestViewHandler_Markers_SharedVenueClusters(t *testing.T) {
	router := newTestRouter(fixtureCatalog(), &MockRegistrationService{})

	req := httptest.NewRequest(http.MethodGet, "/markers/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	markers := decodeData[transport.MarkersResponse](t, w)
	if len(markers.Groups) != 1 {
		t.Fatalf("Expected one marker for the shared venue, got %d", len(markers.Groups))
	}
	if len(markers.Groups[0].Events) != 3 {
		t.Errorf("Expected 3 events in the group, got %d", len(markers.Groups[0].Events))
	}
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	router := newTestRouter(fixtureCatalog(), &MockRegistrationService{})

	// Create
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/", strings.NewReader(`{}`)))
	if w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Result().StatusCode)
	}
	id := decodeData[string](t, w)
	if id == "" {
		t.Fatal("Expected a session id")
	}

	// Toggle a type filter
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/filters",
		strings.NewReader(`{"toggle_type": "tryout"}`)))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	filters := decodeData[domain.FilterState](t, w)
	if len(filters.Types) != 1 || filters.Types[0] != domain.TypeTryout {
		t.Errorf("Expected tryout selected, got %+v", filters.Types)
	}

	// State reflects the filter
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	state := decodeData[map[string]json.RawMessage](t, w)
	var events []domain.Event
	if err := json.Unmarshal(state["events"], &events); err != nil {
		t.Fatalf("failed to decode events: %v", err)
	}
	if len(events) != 1 || events[0].Type != domain.TypeTryout {
		t.Errorf("Expected only the tryout visible, got %+v", events)
	}

	// Select a day with events
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/select",
		strings.NewReader(`{"date": "2099-03-14"}`)))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}

	// Selecting an empty day is refused
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/select",
		strings.NewReader(`{"date": "2099-03-20"}`)))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an empty day, got %d", w.Result().StatusCode)
	}

	// Close, then the session is gone
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 after close, got %d", w.Result().StatusCode)
	}
}

func TestSessionHandler_MonthStep(t *testing.T) {
	router := newTestRouter(fixtureCatalog(), &MockRegistrationService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/", strings.NewReader(`{}`)))
	id := decodeData[string](t, w)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/month",
		strings.NewReader(`{"step": 1}`)))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/month",
		strings.NewReader(`{"step": 5}`)))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a bad step, got %d", w.Result().StatusCode)
	}
}

func TestSessionHandler_BadSeedDate(t *testing.T) {
	router := newTestRouter(fixtureCatalog(), &MockRegistrationService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/",
		strings.NewReader(`{"highlight_date": "next tuesday"}`)))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
	}
}

func TestRegistrationHandler_Create(t *testing.T) {
	mockRegs := &MockRegistrationService{
		RegisterFunc: func(ctx context.Context, userID string, req *domain.RegistrationDTO) (*domain.Registration, error) {
			if req.EventID != 7 {
				t.Errorf("Expected event id 7, got %d", req.EventID)
			}
			return &domain.Registration{EventID: req.EventID, Name: req.Name}, nil
		},
	}
	router := newTestRouter(fixtureCatalog(), mockRegs)

	body := `{"event_id": 7, "name": "Jordan Teller", "email": "jordan@example.com"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/registrations/", strings.NewReader(body)))

	if w.Result().StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Result().StatusCode)
	}
}

func TestRegistrationHandler_ValidationError(t *testing.T) {
	mockRegs := &MockRegistrationService{
		RegisterFunc: func(ctx context.Context, userID string, req *domain.RegistrationDTO) (*domain.Registration, error) {
			return nil, domain.ErrValidation("a viewer session is required to register")
		},
	}
	router := newTestRouter(fixtureCatalog(), mockRegs)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/registrations/", strings.NewReader(`{"event_id": 7, "name": "x"}`)))

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
	}
}
