package memory

import (
	"context"
	"sort"

	"salonbook/database/repository"
	catalogRepo "salonbook/database/repository/catalog"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type catalogStore struct{ s *Store }

func (s *Store) Catalog() catalogRepo.CatalogRepository { return &catalogStore{s: s} }

func (r *catalogStore) ListServices(ctx context.Context, businessID string) ([]models.Service, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("catalog.ListServices"); err != nil {
		return nil, err
	}
	out := []models.Service{}
	for _, v := range r.s.services {
		if v.BusinessID == businessID {
			out = append(out, cloneService(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *catalogStore) GetService(ctx context.Context, businessID, id string) (*models.Service, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("catalog.GetService"); err != nil {
		return nil, err
	}
	v, ok := r.s.services[key(businessID, id)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	v = cloneService(v)
	return &v, nil
}

func (r *catalogStore) CreateService(ctx context.Context, svc models.Service) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("catalog.CreateService"); err != nil {
		return err
	}
	k := key(svc.BusinessID, svc.ID)
	if _, ok := r.s.services[k]; ok {
		return repository.ErrDuplicateKey
	}
	r.s.services[k] = cloneService(svc)
	return nil
}

func (r *catalogStore) UpdateService(ctx context.Context, svc models.Service) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("catalog.UpdateService"); err != nil {
		return err
	}
	k := key(svc.BusinessID, svc.ID)
	if _, ok := r.s.services[k]; !ok {
		return mongo.ErrNoDocuments
	}
	r.s.services[k] = cloneService(svc)
	return nil
}

func (r *catalogStore) DeleteService(ctx context.Context, businessID, id string) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("catalog.DeleteService"); err != nil {
		return err
	}
	k := key(businessID, id)
	if _, ok := r.s.services[k]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.s.services, k)
	return nil
}

func (r *catalogStore) GetWorkConfig(ctx context.Context, businessID string) (*models.WorkConfig, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("catalog.GetWorkConfig"); err != nil {
		return nil, err
	}
	v, ok := r.s.workConfigs[businessID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	v = cloneWorkConfig(v)
	return &v, nil
}

func (r *catalogStore) PutWorkConfig(ctx context.Context, cfg models.WorkConfig) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("catalog.PutWorkConfig"); err != nil {
		return err
	}
	r.s.workConfigs[cfg.BusinessID] = cloneWorkConfig(cfg)
	return nil
}
