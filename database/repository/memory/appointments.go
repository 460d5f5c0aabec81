package memory

import (
	"context"
	"sort"

	"salonbook/database/repository"
	appointmentRepo "salonbook/database/repository/appointment"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type appointmentStore struct{ s *Store }

func (s *Store) Appointments() appointmentRepo.AppointmentRepository { return &appointmentStore{s: s} }

func (r *appointmentStore) Create(ctx context.Context, appt models.Appointment) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("appointment.Create"); err != nil {
		return err
	}
	k := key(appt.BusinessID, appt.ID)
	if _, ok := r.s.appts[k]; ok || r.startTaken(k, appt) {
		return repository.ErrDuplicateKey
	}
	r.s.appts[k] = appt
	return nil
}

// startTaken mirrors the partial unique index on scheduled start times.
func (r *appointmentStore) startTaken(self string, appt models.Appointment) bool {
	if appt.Status != models.AppointmentScheduled {
		return false
	}
	for k, other := range r.s.appts {
		if k != self && other.BusinessID == appt.BusinessID && other.Status == models.AppointmentScheduled &&
			other.Date == appt.Date && other.StartTime == appt.StartTime {
			return true
		}
	}
	return false
}

func (r *appointmentStore) GetByID(ctx context.Context, businessID, id string) (*models.Appointment, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("appointment.GetByID"); err != nil {
		return nil, err
	}
	v, ok := r.s.appts[key(businessID, id)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &v, nil
}

func (r *appointmentStore) Update(ctx context.Context, appt models.Appointment) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("appointment.Update"); err != nil {
		return err
	}
	k := key(appt.BusinessID, appt.ID)
	if _, ok := r.s.appts[k]; !ok {
		return mongo.ErrNoDocuments
	}
	if r.startTaken(k, appt) {
		return repository.ErrDuplicateKey
	}
	r.s.appts[k] = appt
	return nil
}

func (r *appointmentStore) DeleteByID(ctx context.Context, businessID, id string) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("appointment.DeleteByID"); err != nil {
		return err
	}
	k := key(businessID, id)
	if _, ok := r.s.appts[k]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.s.appts, k)
	return nil
}

func (r *appointmentStore) ListByDate(ctx context.Context, businessID, date string) ([]models.Appointment, error) {
	return r.filter(ctx, "appointment.ListByDate", businessID, func(a models.Appointment) bool { return a.Date == date })
}

func (r *appointmentStore) ListRange(ctx context.Context, businessID, from, to string) ([]models.Appointment, error) {
	return r.filter(ctx, "appointment.ListRange", businessID, func(a models.Appointment) bool {
		return a.Date >= from && a.Date <= to
	})
}

func (r *appointmentStore) ListPaid(ctx context.Context, businessID string) ([]models.Appointment, error) {
	return r.filter(ctx, "appointment.ListPaid", businessID, func(a models.Appointment) bool { return a.IsPaid })
}

func (r *appointmentStore) filter(ctx context.Context, op, businessID string, keep func(models.Appointment) bool) ([]models.Appointment, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault(op); err != nil {
		return nil, err
	}
	out := []models.Appointment{}
	for _, a := range r.s.appts {
		if a.BusinessID == businessID && keep(a) {
			out = append(out, a)
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
