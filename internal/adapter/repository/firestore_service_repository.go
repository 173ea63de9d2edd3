package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
)

type firestoreServiceRepository struct {
	client *firestore.Client
}

func NewFirestoreServiceRepository(client *firestore.Client) repository.ServiceRepository {
	return &firestoreServiceRepository{
		client: client,
	}
}

func (r *firestoreServiceRepository) Create(ctx context.Context, service *entity.Service) error {
	_, err := r.client.Collection(servicesCollection).Doc(service.ID).Create(ctx, service)
	return translateError("service", err)
}

func (r *firestoreServiceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	doc, err := r.client.Collection(servicesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translateError("service", err)
	}
	return decode[entity.Service](doc)
}

func (r *firestoreServiceRepository) Mutate(ctx context.Context, id string, fn func(*entity.Service) error) (*entity.Service, error) {
	return mutate(ctx, r.client, "service", r.client.Collection(servicesCollection).Doc(id), fn)
}

func (r *firestoreServiceRepository) MutateWithOwner(ctx context.Context, id string, fn func(*entity.Service, *entity.User) error) (*entity.Service, error) {
	ref := r.client.Collection(servicesCollection).Doc(id)

	var out *entity.Service
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		service, err := decode[entity.Service](doc)
		if err != nil {
			return err
		}

		var owner *entity.User
		ownerDoc, err := tx.Get(r.client.Collection(usersCollection).Doc(service.OwnerID))
		switch {
		case err == nil:
			if owner, err = decode[entity.User](ownerDoc); err != nil {
				return err
			}
		case status.Code(err) != codes.NotFound:
			return err
		}

		if err := fn(service, owner); err != nil {
			return err
		}

		out = service
		return tx.Set(ref, service)
	})
	if err != nil {
		return nil, translateError("service", err)
	}
	return out, nil
}

func (r *firestoreServiceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(servicesCollection).Doc(id).Delete(ctx, firestore.Exists)
	return translateError("service", err)
}

func (r *firestoreServiceRepository) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	iter := r.client.Collection(servicesCollection).Where("ownerId", "==", ownerID).Documents(ctx)
	docs, err := iter.GetAll()
	if err != nil {
		return 0, translateError("service", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return 0, translateError("service", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	deleted := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return deleted, translateError("service", err)
		}
		deleted++
	}
	return deleted, nil
}

func (r *firestoreServiceRepository) List(ctx context.Context, filter repository.ServiceFilter) ([]*entity.Service, error) {
	services, err := readAll[entity.Service](r.query(filter).Documents(ctx))
	return services, translateError("service", err)
}

func (r *firestoreServiceRepository) Subscribe(ctx context.Context, filter repository.ServiceFilter) (repository.Subscription[*entity.Service], error) {
	return subscribe[entity.Service](ctx, "service", r.query(filter)), nil
}

func (r *firestoreServiceRepository) query(filter repository.ServiceFilter) firestore.Query {
	query := r.client.Collection(servicesCollection).Query
	if filter.OwnerID != "" {
		query = query.Where("ownerId", "==", filter.OwnerID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}
	if filter.Category != "" {
		query = query.Where("category", "==", string(filter.Category))
	}
	if filter.City != "" {
		query = query.Where("city", "==", filter.City)
	}
	return query.OrderBy("createdAt", firestore.Desc)
}
