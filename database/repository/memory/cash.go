package memory

import (
	"context"
	"sort"

	"salonbook/database/repository"
	cashRepo "salonbook/database/repository/cash"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type cashStore struct{ s *Store }

func (s *Store) Cash() cashRepo.CashRepository { return &cashStore{s: s} }

func (r *cashStore) InsertSession(ctx context.Context, session models.CashSession) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.InsertSession"); err != nil {
		return err
	}
	if session.Status == models.SessionOpen {
		for _, existing := range r.s.sessions {
			if existing.BusinessID == session.BusinessID && existing.Status == models.SessionOpen {
				return cashRepo.ErrSessionAlreadyOpen
			}
		}
	}
	k := key(session.BusinessID, session.ID)
	if _, ok := r.s.sessions[k]; ok {
		return repository.ErrDuplicateKey
	}
	r.s.sessions[k] = cloneSession(session)
	return nil
}

func (r *cashStore) GetSession(ctx context.Context, businessID, id string) (*models.CashSession, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.GetSession"); err != nil {
		return nil, err
	}
	v, ok := r.s.sessions[key(businessID, id)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	v = cloneSession(v)
	return &v, nil
}

func (r *cashStore) FindOpenSession(ctx context.Context, businessID string) (*models.CashSession, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.FindOpenSession"); err != nil {
		return nil, err
	}
	for _, v := range r.s.sessions {
		if v.BusinessID == businessID && v.Status == models.SessionOpen {
			v = cloneSession(v)
			return &v, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *cashStore) UpdateSession(ctx context.Context, session models.CashSession) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.UpdateSession"); err != nil {
		return err
	}
	k := key(session.BusinessID, session.ID)
	if _, ok := r.s.sessions[k]; !ok {
		return mongo.ErrNoDocuments
	}
	r.s.sessions[k] = cloneSession(session)
	return nil
}

func (r *cashStore) ListSessions(ctx context.Context, businessID string, status models.SessionStatus, limit int64) ([]models.CashSession, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.ListSessions"); err != nil {
		return nil, err
	}
	out := []models.CashSession{}
	for _, v := range r.s.sessions {
		if v.BusinessID != businessID || (status != "" && v.Status != status) {
			continue
		}
		out = append(out, cloneSession(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *cashStore) InsertEntry(ctx context.Context, entry models.CashEntry) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.InsertEntry"); err != nil {
		return err
	}
	k := key(entry.BusinessID, entry.ID)
	if _, ok := r.s.entries[k]; ok {
		return repository.ErrDuplicateKey
	}
	r.s.entries[k] = cloneEntry(entry)
	r.s.seq++
	r.s.entryOrder[k] = r.s.seq
	return nil
}

func (r *cashStore) GetEntry(ctx context.Context, businessID, id string) (*models.CashEntry, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.GetEntry"); err != nil {
		return nil, err
	}
	v, ok := r.s.entries[key(businessID, id)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	v = cloneEntry(v)
	return &v, nil
}

// UpdateEntry accepts only writes that append exactly one history record,
// as the Mongo repository does.
func (r *cashStore) UpdateEntry(ctx context.Context, entry models.CashEntry) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.UpdateEntry"); err != nil {
		return err
	}
	k := key(entry.BusinessID, entry.ID)
	stored, ok := r.s.entries[k]
	if !ok || len(stored.History) != len(entry.History)-1 {
		return mongo.ErrNoDocuments
	}
	r.s.entries[k] = cloneEntry(entry)
	return nil
}

func (r *cashStore) ListEntries(ctx context.Context, businessID, sessionID string) ([]models.CashEntry, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("cash.ListEntries"); err != nil {
		return nil, err
	}
	out := []models.CashEntry{}
	for _, v := range r.s.entries {
		if v.BusinessID == businessID && v.SessionID == sessionID {
			out = append(out, cloneEntry(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.s.entryOrder[key(businessID, out[i].ID)] < r.s.entryOrder[key(businessID, out[j].ID)]
	})
	return out, nil
}
