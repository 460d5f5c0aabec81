// Package memory is an in-process implementation of every repository
// interface. It backs service and handler tests, and mirrors the Mongo
// repositories' error contract (mongo.ErrNoDocuments, duplicate keys, the
// single OPEN session rule).
//
// While a transaction runs, calls made with any context other than the one
// handed to the transaction wait for it to finish, so a rollback can never
// discard their writes.
package memory

import (
	"context"
	"errors"
	"sync"

	"salonbook/database/repository"
	"salonbook/models"
)

// Store holds every collection behind one mutex, plus a transaction mutex
// that outside callers take before it. Values are cloned on the
// way in and out so callers never share slices with the store.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	services    map[string]models.Service
	workConfigs map[string]models.WorkConfig
	timeBlocks  map[string]models.TimeBlock
	appts       map[string]models.Appointment
	sessions    map[string]models.CashSession
	entries     map[string]models.CashEntry
	customers   map[string]models.Customer
	events      []models.CRMEvent
	tasks       map[string]models.CRMTask
	leads       map[string]models.Lead
	campaigns   map[string]models.Campaign

	// entryOrder breaks createdAt ties in ListEntries.
	entryOrder map[string]int64
	seq        int64

	faults map[string]error
}

func NewStore() *Store {
	return &Store{
		services:    map[string]models.Service{},
		workConfigs: map[string]models.WorkConfig{},
		timeBlocks:  map[string]models.TimeBlock{},
		appts:       map[string]models.Appointment{},
		sessions:    map[string]models.CashSession{},
		entries:     map[string]models.CashEntry{},
		customers:   map[string]models.Customer{},
		tasks:       map[string]models.CRMTask{},
		leads:       map[string]models.Lead{},
		campaigns:   map[string]models.Campaign{},
		entryOrder:  map[string]int64{},
		faults:      map[string]error{},
	}
}

// FailNext makes the next call of op (e.g. "cash.InsertEntry") return err.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// fault must be called with s.mu held.
func (s *Store) fault(op string) error {
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		return err
	}
	return nil
}

// txKey marks the context of a running transaction on a given store.
type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the collection mutex, first waiting for a running transaction
// unless ctx belongs to it. It returns the matching unlock.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

type transactor struct{ s *Store }

// Transactor returns a repository.Transactor that restores the whole store
// when fn fails. Transactions are serialised and do not nest.
func (s *Store) Transactor() repository.Transactor { return &transactor{s: s} }

func (t *transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.s.inTx(ctx) {
		return errors.New("memory: nested transaction")
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, t.s)); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	services    map[string]models.Service
	workConfigs map[string]models.WorkConfig
	timeBlocks  map[string]models.TimeBlock
	appts       map[string]models.Appointment
	sessions    map[string]models.CashSession
	entries     map[string]models.CashEntry
	customers   map[string]models.Customer
	events      []models.CRMEvent
	tasks       map[string]models.CRMTask
	leads       map[string]models.Lead
	campaigns   map[string]models.Campaign
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		services:    copyMap(s.services, cloneService),
		workConfigs: copyMap(s.workConfigs, cloneWorkConfig),
		timeBlocks:  copyMap(s.timeBlocks, cloneTimeBlock),
		appts:       copyMap(s.appts, same[models.Appointment]),
		sessions:    copyMap(s.sessions, cloneSession),
		entries:     copyMap(s.entries, cloneEntry),
		customers:   copyMap(s.customers, cloneCustomer),
		events:      append([]models.CRMEvent(nil), s.events...),
		tasks:       copyMap(s.tasks, cloneTask),
		leads:       copyMap(s.leads, same[models.Lead]),
		campaigns:   copyMap(s.campaigns, cloneCampaign),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = snap.services
	s.workConfigs = snap.workConfigs
	s.timeBlocks = snap.timeBlocks
	s.appts = snap.appts
	s.sessions = snap.sessions
	s.entries = snap.entries
	s.customers = snap.customers
	s.events = snap.events
	s.tasks = snap.tasks
	s.leads = snap.leads
	s.campaigns = snap.campaigns
}

func key(businessID, id string) string { return businessID + "/" + id }

func copyMap[T any](m map[string]T, clone func(T) T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}

func same[T any](v T) T { return v }

func cloneService(v models.Service) models.Service { return v }

func cloneWorkConfig(v models.WorkConfig) models.WorkConfig {
	v.DaysOff = append([]int(nil), v.DaysOff...)
	return v
}

func cloneTimeBlock(v models.TimeBlock) models.TimeBlock {
	if v.Recurrence != nil {
		r := *v.Recurrence
		v.Recurrence = &r
	}
	return v
}

func cloneSession(v models.CashSession) models.CashSession {
	v.ClosedAt = clonePtr(v.ClosedAt)
	v.FinalBalance = clonePtr(v.FinalBalance)
	v.ExpectedBalance = clonePtr(v.ExpectedBalance)
	v.DivergenceAmount = clonePtr(v.DivergenceAmount)
	return v
}

func cloneEntry(v models.CashEntry) models.CashEntry {
	v.OriginalAmount = clonePtr(v.OriginalAmount)
	v.OriginalDescription = clonePtr(v.OriginalDescription)
	if v.History != nil {
		v.History = append([]models.EntryEdit(nil), v.History...)
	}
	return v
}

func cloneCustomer(v models.Customer) models.Customer {
	v.Tags = append([]string{}, v.Tags...)
	v.Stats.LastVisitDate = clonePtr(v.Stats.LastVisitDate)
	return v
}

func cloneTask(v models.CRMTask) models.CRMTask {
	v.CompletedAt = clonePtr(v.CompletedAt)
	return v
}

func cloneCampaign(v models.Campaign) models.Campaign {
	v.SentAt = clonePtr(v.SentAt)
	return v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
