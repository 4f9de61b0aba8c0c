package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

const CollectionEvents = "events"

// EventRepository is the read side of the external event catalogue. The view
// engine consumes it as a full-replacement snapshot; there is no incremental
// diffing and no pagination.
type EventRepository interface {
	ListAll(ctx context.Context) ([]domain.EventDTO, error)
	GetBySlug(ctx context.Context, slug string) (*domain.EventDTO, error)
}

type eventRepo struct {
	client *firestore.Client
}

func NewEventRepository(client *firestore.Client) EventRepository {
	return &eventRepo{client: client}
}

func (r *eventRepo) ListAll(ctx context.Context) ([]domain.EventDTO, error) {
	iter := r.client.Collection(CollectionEvents).OrderBy("start_time", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var events []domain.EventDTO
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		var e domain.EventDTO
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *eventRepo) GetBySlug(ctx context.Context, slug string) (*domain.EventDTO, error) {
	doc, err := r.client.Collection(CollectionEvents).Doc(slug).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("event %q: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var e domain.EventDTO
	if err := doc.DataTo(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
