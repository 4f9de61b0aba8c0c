package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
	"github.com/Abepena/nj-stars-sub000/internal/service"
)

// MockEventRepository manually implements repository.EventRepository.
type MockEventRepository struct {
	ListAllFunc   func(ctx context.Context) ([]domain.EventDTO, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*domain.EventDTO, error)
}

func (m *MockEventRepository) ListAll(ctx context.Context) ([]domain.EventDTO, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockEventRepository) GetBySlug(ctx context.Context, slug string) (*domain.EventDTO, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, nil
}

// MockRegistrationRepository manually implements repository.RegistrationRepository.
type MockRegistrationRepository struct {
	SaveFunc         func(ctx context.Context, reg *domain.Registration) error
	ListEventIDsFunc func(ctx context.Context, userID string) ([]int64, error)
}

func (m *MockRegistrationRepository) Save(ctx context.Context, reg *domain.Registration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, reg)
	}
	return nil
}

func (m *MockRegistrationRepository) ListEventIDs(ctx context.Context, userID string) ([]int64, error) {
	if m.ListEventIDsFunc != nil {
		return m.ListEventIDsFunc(ctx, userID)
	}
	return nil, nil
}

func validDTO(id int64, slug string) domain.EventDTO {
	return domain.EventDTO{
		ID:        id,
		Slug:      slug,
		Title:     "Spring Tryout",
		EventType: "tryout",
		StartTime: "2026-04-04T10:00:00Z",
		EndTime:   "2026-04-04T12:00:00Z",
		Price:     "25.00",
	}
}

func TestSnapshotIngestsValidEvents(t *testing.T) {
	repo := &MockEventRepository{
		ListAllFunc: func(ctx context.Context) ([]domain.EventDTO, error) {
			return []domain.EventDTO{validDTO(1, "spring-tryout")}, nil
		},
	}
	svc := service.NewCatalogService(repo, &MockRegistrationRepository{})

	events, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Type != domain.TypeTryout || ev.Slug != "spring-tryout" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.StartTime.IsZero() || !ev.EndTime.After(ev.StartTime) {
		t.Errorf("times not parsed: start=%v end=%v", ev.StartTime, ev.EndTime)
	}
}

func TestSnapshotDropsMalformedEvents(t *testing.T) {
	badDate := validDTO(2, "bad-date")
	badDate.StartTime = "not-a-date"

	badType := validDTO(3, "bad-type")
	badType.EventType = "bake_sale"

	reversed := validDTO(4, "reversed")
	reversed.StartTime = "2026-04-04T12:00:00Z"
	reversed.EndTime = "2026-04-04T10:00:00Z"

	repo := &MockEventRepository{
		ListAllFunc: func(ctx context.Context) ([]domain.EventDTO, error) {
			return []domain.EventDTO{validDTO(1, "ok"), badDate, badType, reversed}, nil
		},
	}
	svc := service.NewCatalogService(repo, &MockRegistrationRepository{})

	events, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("malformed records must not fail the snapshot: %v", err)
	}
	if len(events) != 1 || events[0].ID != 1 {
		t.Errorf("expected only the valid event to survive, got %+v", events)
	}
}

func TestSnapshotUnmapsPartialCoordinates(t *testing.T) {
	lat := 40.1234
	half := validDTO(1, "half")
	half.Latitude = &lat

	repo := &MockEventRepository{
		ListAllFunc: func(ctx context.Context) ([]domain.EventDTO, error) {
			return []domain.EventDTO{half}, nil
		},
	}
	svc := service.NewCatalogService(repo, &MockRegistrationRepository{})

	events, err := svc.Snapshot(context.Background())
	if err != nil || len(events) != 1 {
		t.Fatalf("partial coordinates must not drop the event: %v %d", err, len(events))
	}
	if events[0].Mappable() || events[0].Latitude != nil {
		t.Errorf("expected an unmapped event, got lat=%v lng=%v", events[0].Latitude, events[0].Longitude)
	}
}

func TestSnapshotSurfacesFetchFailure(t *testing.T) {
	repo := &MockEventRepository{
		ListAllFunc: func(ctx context.Context) ([]domain.EventDTO, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc := service.NewCatalogService(repo, &MockRegistrationRepository{})

	_, err := svc.Snapshot(context.Background())
	if !errors.Is(err, domain.ErrSnapshotUnavailable) {
		t.Errorf("expected ErrSnapshotUnavailable, got %v", err)
	}
}

func TestEventBySlug(t *testing.T) {
	repo := &MockEventRepository{
		GetBySlugFunc: func(ctx context.Context, slug string) (*domain.EventDTO, error) {
			if slug != "spring-tryout" {
				return nil, domain.ErrNotFound
			}
			dto := validDTO(1, slug)
			return &dto, nil
		},
	}
	svc := service.NewCatalogService(repo, &MockRegistrationRepository{})

	ev, err := svc.EventBySlug(context.Background(), "spring-tryout")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if ev.Slug != "spring-tryout" || ev.Type != domain.TypeTryout {
		t.Errorf("unexpected event: %+v", ev)
	}

	if _, err := svc.EventBySlug(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisteredIDsBuildsSet(t *testing.T) {
	regs := &MockRegistrationRepository{
		ListEventIDsFunc: func(ctx context.Context, userID string) ([]int64, error) {
			if userID != "viewer-1" {
				t.Errorf("unexpected user id %q", userID)
			}
			return []int64{4, 7, 4}, nil
		},
	}
	svc := service.NewCatalogService(&MockEventRepository{}, regs)

	set, err := svc.RegisteredIDs(context.Background(), "viewer-1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(set) != 2 {
		t.Errorf("expected deduplicated set of 2, got %v", set)
	}
	if _, ok := set[7]; !ok {
		t.Error("expected event 7 in the set")
	}
}

func TestRegisteredIDsWithoutSession(t *testing.T) {
	svc := service.NewCatalogService(&MockEventRepository{}, &MockRegistrationRepository{
		ListEventIDsFunc: func(ctx context.Context, userID string) ([]int64, error) {
			t.Error("no fetch should happen without a session")
			return nil, nil
		},
	})

	set, err := svc.RegisteredIDs(context.Background(), "")
	if err != nil || set != nil {
		t.Errorf("expected nil set without session, got %v %v", set, err)
	}
}
