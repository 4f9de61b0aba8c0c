package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
	"github.com/Abepena/nj-stars-sub000/internal/repository"
)

// CatalogService hands the view engine its inputs: the event snapshot and
// the viewer's registered-event-id set. The two fetches are independent and
// unsequenced; callers must tolerate the registration set lagging behind
// the snapshot.
type CatalogService interface {
	Snapshot(ctx context.Context) ([]domain.Event, error)
	EventBySlug(ctx context.Context, slug string) (*domain.Event, error)
	RegisteredIDs(ctx context.Context, userID string) (map[int64]struct{}, error)
}

type catalogService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
}

func NewCatalogService(events repository.EventRepository, registrations repository.RegistrationRepository) CatalogService {
	return &catalogService{events: events, registrations: registrations}
}

// Snapshot fetches the full catalogue and ingests it. Defensive validation
// happens here, once per fetch, so the pure view functions downstream never
// have to re-check event shapes. Records that fail validation are dropped
// with a warning rather than failing the whole snapshot.
func (s *catalogService) Snapshot(ctx context.Context) ([]domain.Event, error) {
	dtos, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}

	events := make([]domain.Event, 0, len(dtos))
	for _, dto := range dtos {
		ev, err := ingestEvent(&dto)
		if err != nil {
			slog.Warn("dropping malformed catalogue event", "id", dto.ID, "slug", dto.Slug, "err", err)
			continue
		}
		events = append(events, *ev)
	}
	return events, nil
}

// EventBySlug fetches and ingests a single catalogue record. Unlike the
// snapshot path, a malformed record here is the caller's problem.
func (s *catalogService) EventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	dto, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return ingestEvent(dto)
}

// RegisteredIDs fetches the viewer's registered event ids. Only meaningful
// when a viewer session exists; an error here is not fatal to the views,
// "not yet known" simply reads as "not registered".
func (s *catalogService) RegisteredIDs(ctx context.Context, userID string) (map[int64]struct{}, error) {
	if userID == "" {
		return nil, nil
	}
	ids, err := s.registrations.ListEventIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registered event ids: %w", err)
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// ingestEvent validates one raw catalogue record and builds the domain
// event. The lat/lng pairing invariant is enforced here: an event with
// only one coordinate keeps its list/calendar presence but is unmapped.
func ingestEvent(dto *domain.EventDTO) (*domain.Event, error) {
	if err := domain.Validate.Struct(dto); err != nil {
		return nil, err
	}

	eventType := domain.EventType(dto.EventType)
	if !domain.ValidEventType(eventType) {
		return nil, fmt.Errorf("unknown event type %q", dto.EventType)
	}

	start, err := time.Parse(time.RFC3339, dto.StartTime)
	if err != nil {
		return nil, fmt.Errorf("bad start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, dto.EndTime)
	if err != nil {
		return nil, fmt.Errorf("bad end time: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("event ends before it starts")
	}

	lat, lng := dto.Latitude, dto.Longitude
	if (lat == nil) != (lng == nil) {
		slog.Warn("event has a partial coordinate pair, treating as unmapped", "id", dto.ID, "slug", dto.Slug)
		lat, lng = nil, nil
	}

	price := dto.Price
	if price == "" {
		price = "0"
	}

	isFull := dto.SpotsRemaining != nil && *dto.SpotsRemaining == 0

	return &domain.Event{
		ID:                 dto.ID,
		Slug:               dto.Slug,
		Title:              dto.Title,
		Description:        dto.Description,
		ImageURL:           dto.ImageURL,
		Type:               eventType,
		StartTime:          start,
		EndTime:            end,
		MaxParticipants:    dto.MaxParticipants,
		SpotsRemaining:     dto.SpotsRemaining,
		IsFull:             isFull,
		IsRegistrationOpen: dto.IsRegistrationOpen,
		Location:           dto.Location,
		Latitude:           lat,
		Longitude:          lng,
		Price:              price,
		RequiresPayment:    dto.RequiresPayment,
	}, nil
}
