package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	return translateError("user", err)
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translateError("user", err)
	}
	return decode[entity.User](doc)
}

// Update merges the editable profile fields. Empty values never overwrite
// existing data.
func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	updateData := map[string]interface{}{
		"name":        user.Name,
		"phone":       user.Phone,
		"address":     user.Address,
		"city":        user.City,
		"dateOfBirth": user.DateOfBirth,
		"avatarUrl":   user.AvatarURL,
		"idFrontUrl":  user.IDFrontURL,
		"idBackUrl":   user.IDBackURL,
		"updatedAt":   time.Now(),
	}

	cleanUpdateData := make(map[string]interface{})
	for key, value := range updateData {
		if strVal, ok := value.(string); ok && strVal == "" {
			continue
		}
		if timeVal, ok := value.(time.Time); ok && timeVal.IsZero() {
			continue
		}
		cleanUpdateData[key] = value
	}

	logger.Debug("Updating user %s fields: %d", user.ID, len(cleanUpdateData))

	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, cleanUpdateData, firestore.MergeAll)
	return translateError("user", err)
}

func (r *firestoreUserRepository) Mutate(ctx context.Context, id string, fn func(*entity.User) error) (*entity.User, error) {
	return mutate(ctx, r.client, "user", r.client.Collection(usersCollection).Doc(id), fn)
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Delete(ctx, firestore.Exists)
	return translateError("user", err)
}

func (r *firestoreUserRepository) ListByRequestStatus(ctx context.Context, status entity.OnboardingStatus) ([]*entity.User, error) {
	query := r.client.Collection(usersCollection).
		Where("requestStatus", "==", string(status)).
		OrderBy("requestedAt", firestore.Asc)

	users, err := readAll[entity.User](query.Documents(ctx))
	return users, translateError("user", err)
}

func (r *firestoreUserRepository) ListProviders(ctx context.Context) ([]*entity.User, error) {
	query := r.client.Collection(usersCollection).Where("isServiceProvider", "==", true)

	users, err := readAll[entity.User](query.Documents(ctx))
	return users, translateError("user", err)
}

func (r *firestoreUserRepository) SetPresence(ctx context.Context, id string, online bool, at time.Time) error {
	updates := []firestore.Update{
		{Path: "isOnline", Value: online},
	}
	if !online {
		updates = append(updates, firestore.Update{Path: "lastSeen", Value: at})
	}

	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, updates)
	return translateError("user", err)
}

func (r *firestoreUserRepository) SubscribeByRequestStatus(ctx context.Context, status entity.OnboardingStatus) (repository.Subscription[*entity.User], error) {
	query := r.client.Collection(usersCollection).
		Where("requestStatus", "==", string(status)).
		OrderBy("requestedAt", firestore.Asc)

	return subscribe[entity.User](ctx, "user", query), nil
}
