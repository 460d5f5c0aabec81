package memory

import (
	"context"
	"sort"
	"time"

	"salonbook/database/repository"
	crmRepo "salonbook/database/repository/crm"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type crmStore struct{ s *Store }

func (s *Store) CRM() crmRepo.CRMRepository { return &crmStore{s: s} }

func (r *crmStore) InsertCustomer(ctx context.Context, c models.Customer) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("crm.InsertCustomer"); err != nil {
		return err
	}
	k := key(c.BusinessID, c.ID)
	if _, ok := r.s.customers[k]; ok {
		return repository.ErrDuplicateKey
	}
	for _, existing := range r.s.customers {
		if existing.BusinessID == c.BusinessID && existing.Phone == c.Phone {
			return repository.ErrDuplicateKey
		}
	}
	r.s.customers[k] = cloneCustomer(c)
	return nil
}

func (r *crmStore) GetCustomer(ctx context.Context, businessID, id string) (*models.Customer, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("crm.GetCustomer"); err != nil {
		return nil, err
	}
	v, ok := r.s.customers[key(businessID, id)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	v = cloneCustomer(v)
	return &v, nil
}

func (r *crmStore) FindCustomerByPhone(ctx context.Context, businessID, phone string) (*models.Customer, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("crm.FindCustomerByPhone"); err != nil {
		return nil, err
	}
	for _, v := range r.s.customers {
		if v.BusinessID == businessID && v.Phone == phone {
			v = cloneCustomer(v)
			return &v, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *crmStore) UpdateCustomer(ctx context.Context, c models.Customer) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("crm.UpdateCustomer"); err != nil {
		return err
	}
	k := key(c.BusinessID, c.ID)
	if _, ok := r.s.customers[k]; !ok {
		return mongo.ErrNoDocuments
	}
	for other, existing := range r.s.customers {
		if other != k && existing.BusinessID == c.BusinessID && existing.Phone == c.Phone {
			return repository.ErrDuplicateKey
		}
	}
	r.s.customers[k] = cloneCustomer(c)
	return nil
}

func (r *crmStore) ListCustomers(ctx context.Context, businessID, tag string) ([]models.Customer, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("crm.ListCustomers"); err != nil {
		return nil, err
	}
	out := []models.Customer{}
	for _, v := range r.s.customers {
		if v.BusinessID != businessID || (tag != "" && !v.HasTag(tag)) {
			continue
		}
		out = append(out, cloneCustomer(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *crmStore) AddTag(ctx context.Context, businessID, customerID, tag string) error {
	return r.editTags(ctx, "crm.AddTag", businessID, customerID, func(c *models.Customer) {
		if !c.HasTag(tag) {
			c.Tags = append(c.Tags, tag)
		}
	})
}

func (r *crmStore) RemoveTag(ctx context.Context, businessID, customerID, tag string) error {
	return r.editTags(ctx, "crm.RemoveTag", businessID, customerID, func(c *models.Customer) {
		kept := c.Tags[:0]
		for _, t := range c.Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		c.Tags = kept
	})
}

func (r *crmStore) editTags(ctx context.Context, op, businessID, customerID string, edit func(*models.Customer)) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault(op); err != nil {
		return err
	}
	k := key(businessID, customerID)
	c, ok := r.s.customers[k]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c = cloneCustomer(c)
	edit(&c)
	c.UpdatedAt = time.Now()
	r.s.customers[k] = c
	return nil
}

func (r *crmStore) InsertEvent(ctx context.Context, e models.CRMEvent) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("crm.InsertEvent"); err != nil {
		return err
	}
	r.s.events = append(r.s.events, e)
	return nil
}

// ListEvents returns newest first; events with equal timestamps keep
// reverse insertion order.
func (r *crmStore) ListEvents(ctx context.Context, businessID, customerID string) ([]models.CRMEvent, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("crm.ListEvents"); err != nil {
		return nil, err
	}
	out := []models.CRMEvent{}
	for i := len(r.s.events) - 1; i >= 0; i-- {
		e := r.s.events[i]
		if e.BusinessID == businessID && e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *crmStore) InsertTask(ctx context.Context, t models.CRMTask) error {
	return insertInto(ctx, r.s, "crm.InsertTask", tasksOf, key(t.BusinessID, t.ID), cloneTask(t))
}

func (r *crmStore) GetTask(ctx context.Context, businessID, id string) (*models.CRMTask, error) {
	return getFrom(ctx, r.s, "crm.GetTask", tasksOf, key(businessID, id), cloneTask)
}

func (r *crmStore) UpdateTask(ctx context.Context, t models.CRMTask) error {
	return replaceIn(ctx, r.s, "crm.UpdateTask", tasksOf, key(t.BusinessID, t.ID), cloneTask(t))
}

func (r *crmStore) ListTasks(ctx context.Context, businessID string) ([]models.CRMTask, error) {
	out, err := listFrom(ctx, r.s, "crm.ListTasks", tasksOf, businessID, func(t models.CRMTask) string { return t.BusinessID }, cloneTask)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Done != b.Done {
			return !a.Done
		}
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

func (r *crmStore) InsertLead(ctx context.Context, l models.Lead) error {
	return insertInto(ctx, r.s, "crm.InsertLead", leadsOf, key(l.BusinessID, l.ID), l)
}

func (r *crmStore) GetLead(ctx context.Context, businessID, id string) (*models.Lead, error) {
	return getFrom(ctx, r.s, "crm.GetLead", leadsOf, key(businessID, id), same[models.Lead])
}

func (r *crmStore) UpdateLead(ctx context.Context, l models.Lead) error {
	return replaceIn(ctx, r.s, "crm.UpdateLead", leadsOf, key(l.BusinessID, l.ID), l)
}

func (r *crmStore) ListLeads(ctx context.Context, businessID string) ([]models.Lead, error) {
	out, err := listFrom(ctx, r.s, "crm.ListLeads", leadsOf, businessID, func(l models.Lead) string { return l.BusinessID }, same[models.Lead])
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *crmStore) InsertCampaign(ctx context.Context, c models.Campaign) error {
	return insertInto(ctx, r.s, "crm.InsertCampaign", campaignsOf, key(c.BusinessID, c.ID), cloneCampaign(c))
}

func (r *crmStore) GetCampaign(ctx context.Context, businessID, id string) (*models.Campaign, error) {
	return getFrom(ctx, r.s, "crm.GetCampaign", campaignsOf, key(businessID, id), cloneCampaign)
}

func (r *crmStore) UpdateCampaign(ctx context.Context, c models.Campaign) error {
	return replaceIn(ctx, r.s, "crm.UpdateCampaign", campaignsOf, key(c.BusinessID, c.ID), cloneCampaign(c))
}

func (r *crmStore) ListCampaigns(ctx context.Context, businessID string) ([]models.Campaign, error) {
	out, err := listFrom(ctx, r.s, "crm.ListCampaigns", campaignsOf, businessID, func(c models.Campaign) string { return c.BusinessID }, cloneCampaign)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// The generic helpers resolve the map under the lock because restore swaps
// the maps out.

func tasksOf(s *Store) map[string]models.CRMTask { return s.tasks }
func leadsOf(s *Store) map[string]models.Lead { return s.leads }
func campaignsOf(s *Store) map[string]models.Campaign { return s.campaigns }

func insertInto[T any](ctx context.Context, s *Store, op string, pick func(*Store) map[string]T, k string, v T) error {
	defer s.lock(ctx)()
	if err := s.fault(op); err != nil {
		return err
	}
	m := pick(s)
	if _, ok := m[k]; ok {
		return repository.ErrDuplicateKey
	}
	m[k] = v
	return nil
}

func getFrom[T any](ctx context.Context, s *Store, op string, pick func(*Store) map[string]T, k string, clone func(T) T) (*T, error) {
	defer s.lock(ctx)()
	if err := s.fault(op); err != nil {
		return nil, err
	}
	v, ok := pick(s)[k]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	v = clone(v)
	return &v, nil
}

func replaceIn[T any](ctx context.Context, s *Store, op string, pick func(*Store) map[string]T, k string, v T) error {
	defer s.lock(ctx)()
	if err := s.fault(op); err != nil {
		return err
	}
	m := pick(s)
	if _, ok := m[k]; !ok {
		return mongo.ErrNoDocuments
	}
	m[k] = v
	return nil
}

func listFrom[T any](ctx context.Context, s *Store, op string, pick func(*Store) map[string]T, businessID string, owner func(T) string, clone func(T) T) ([]T, error) {
	defer s.lock(ctx)()
	if err := s.fault(op); err != nil {
		return nil, err
	}
	out := []T{}
	for _, v := range pick(s) {
		if owner(v) == businessID {
			out = append(out, clone(v))
		}
	}
	return out, nil
}
