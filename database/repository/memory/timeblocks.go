package memory

import (
	"context"
	"sort"

	"salonbook/database/repository"
	timeblockRepo "salonbook/database/repository/timeblock"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type timeBlockStore struct{ s *Store }

func (s *Store) TimeBlocks() timeblockRepo.TimeBlockRepository { return &timeBlockStore{s: s} }

func (r *timeBlockStore) Create(ctx context.Context, block models.TimeBlock) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("timeblock.Create"); err != nil {
		return err
	}
	k := key(block.BusinessID, block.ID)
	if _, ok := r.s.timeBlocks[k]; ok {
		return repository.ErrDuplicateKey
	}
	r.s.timeBlocks[k] = cloneTimeBlock(block)
	return nil
}

func (r *timeBlockStore) DeleteByID(ctx context.Context, businessID, id string) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("timeblock.DeleteByID"); err != nil {
		return err
	}
	k := key(businessID, id)
	if _, ok := r.s.timeBlocks[k]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.s.timeBlocks, k)
	return nil
}

func (r *timeBlockStore) List(ctx context.Context, businessID string) ([]models.TimeBlock, error) {
	return r.filter(ctx, "timeblock.List", businessID, func(models.TimeBlock) bool { return true })
}

func (r *timeBlockStore) ListStartingOnOrBefore(ctx context.Context, businessID, date string) ([]models.TimeBlock, error) {
	return r.filter(ctx, "timeblock.ListStartingOnOrBefore", businessID, func(b models.TimeBlock) bool {
		return b.Date <= date
	})
}

func (r *timeBlockStore) filter(ctx context.Context, op, businessID string, keep func(models.TimeBlock) bool) ([]models.TimeBlock, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault(op); err != nil {
		return nil, err
	}
	out := []models.TimeBlock{}
	for _, b := range r.s.timeBlocks {
		if b.BusinessID == businessID && keep(b) {
			out = append(out, cloneTimeBlock(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}
