package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

const CollectionRegistrations = "registrations"

// RegistrationRepository persists registration submissions and answers the
// "which event ids is this viewer registered for" fetch.
type RegistrationRepository interface {
	Save(ctx context.Context, reg *domain.Registration) error
	ListEventIDs(ctx context.Context, userID string) ([]int64, error)
}

type registrationRepo struct {
	client *firestore.Client
}

func NewRegistrationRepository(client *firestore.Client) RegistrationRepository {
	return &registrationRepo{client: client}
}

func (r *registrationRepo) Save(ctx context.Context, reg *domain.Registration) error {
	if reg.ID != "" {
		_, err := r.client.Collection(CollectionRegistrations).Doc(reg.ID).Set(ctx, reg)
		return err
	}
	_, _, err := r.client.Collection(CollectionRegistrations).Add(ctx, reg)
	return err
}

func (r *registrationRepo) ListEventIDs(ctx context.Context, userID string) ([]int64, error) {
	iter := r.client.Collection(CollectionRegistrations).
		Where("user_id", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	var ids []int64
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var reg domain.Registration
		if err := doc.DataTo(&reg); err != nil {
			continue
		}
		ids = append(ids, reg.EventID)
	}
	return ids, nil
}
