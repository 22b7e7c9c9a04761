// Package store is the in-memory entity store: four insertion-ordered
// collections behind one lock, the repository implementations over them, and
// the deterministic seed dataset. All domain state lives here; everything
// else holds ids.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/domain/records"
	"github.com/carebook/carebook/internal/domain/scheduling"
)

// Entity is anything the store can hold: it has a stable, immutable id.
type Entity interface {
	EntityID() string
}

// collection keeps entities in insertion order: a slice of ids for order and
// a map for lookup. Replacing an existing entity keeps its position.
type collection[T Entity] struct {
	ids   []string
	items map[string]T
}

func newCollection[T Entity]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) upsert(item T) {
	id := item.EntityID()
	if _, ok := c.items[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.items[id] = item
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) get(id string) (T, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *collection[T]) list(match func(T) bool) []T {
	out := make([]T, 0, len(c.ids))
	for _, id := range c.ids {
		item := c.items[id]
		if match == nil || match(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c *collection[T]) replaceAll(items []T) {
	c.ids = c.ids[:0]
	c.items = make(map[string]T, len(items))
	for _, item := range items {
		c.upsert(item)
	}
}

// Snapshot keys, also the persistence adapter's blob keys.
const (
	KeyPatients      = "patients"
	KeyPractitioners = "practitioners"
	KeyAppointments  = "appointments"
	KeyRecords       = "records"
)

// Snapshotter persists one whole collection after a mutation. The store
// calls it outside its lock; errors are logged and never fail the command.
type Snapshotter interface {
	SaveCollection(ctx context.Context, key string, items interface{}) error
}

// EntityStore owns the four collections. One mutex serializes every command,
// so a cascade is a single atomic step and readers never observe a partial
// one.
type EntityStore struct {
	mu            sync.RWMutex
	patients      *collection[*directory.Patient]
	practitioners *collection[*directory.Practitioner]
	appointments  *collection[*scheduling.Appointment]
	records       *collection[*records.MedicalRecord]

	snap Snapshotter
	log  zerolog.Logger
}

func New(log zerolog.Logger) *EntityStore {
	return &EntityStore{
		patients:      newCollection[*directory.Patient](),
		practitioners: newCollection[*directory.Practitioner](),
		appointments:  newCollection[*scheduling.Appointment](),
		records:       newCollection[*records.MedicalRecord](),
		log:           log,
	}
}

// AttachSnapshotter wires the persistence adapter in. A store without one
// simply keeps everything in memory, which is what the tests use.
func (s *EntityStore) AttachSnapshotter(snap Snapshotter) {
	s.snap = snap
}

// saveSnapshot pushes one collection to the snapshotter. Persistence is best
// effort: a failed save leaves the in-memory state authoritative and the
// next mutation retries the whole collection anyway.
func (s *EntityStore) saveSnapshot(ctx context.Context, key string, items interface{}) {
	if s.snap == nil {
		return
	}
	if err := s.snap.SaveCollection(ctx, key, items); err != nil {
		s.log.Warn().Err(err).Str("collection", key).Msg("snapshot save failed")
	}
}

// Hydrate replaces all four collections at once. The persistence adapter
// calls it exactly once at startup, with either a fully loaded snapshot set
// or the seed.
func (s *EntityStore) Hydrate(
	patients []*directory.Patient,
	practitioners []*directory.Practitioner,
	appointments []*scheduling.Appointment,
	recs []*records.MedicalRecord,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients.replaceAll(patients)
	s.practitioners.replaceAll(practitioners)
	s.appointments.replaceAll(appointments)
	s.records.replaceAll(recs)
}

// Dump returns copies of all four collections in insertion order, for
// snapshotting and for the stats endpoint's tests.
func (s *EntityStore) Dump() ([]*directory.Patient, []*directory.Practitioner, []*scheduling.Appointment, []*records.MedicalRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.patients.list(nil)),
		copySlice(s.practitioners.list(nil)),
		copySlice(s.appointments.list(nil)),
		copySlice(s.records.list(nil))
}

// Counts is the admin overview: collection totals plus how many
// appointments are still ahead of now.
type Counts struct {
	Patients             int `json:"patients"`
	Practitioners        int `json:"practitioners"`
	Appointments         int `json:"appointments"`
	Records              int `json:"records"`
	UpcomingAppointments int `json:"upcoming_appointments"`
}

func (s *EntityStore) Stats(now time.Time) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	upcoming := 0
	for _, a := range s.appointments.list(nil) {
		if a.Upcoming(now) {
			upcoming++
		}
	}
	return Counts{
		Patients:             len(s.patients.ids),
		Practitioners:        len(s.practitioners.ids),
		Appointments:         len(s.appointments.ids),
		Records:              len(s.records.ids),
		UpcomingAppointments: upcoming,
	}
}

// copySlice shallow-copies every element so callers cannot reach into the
// store's own structs. All entity fields are value types, so a shallow copy
// is a full copy.
func copySlice[T any](in []*T) []*T {
	out := make([]*T, len(in))
	for i, item := range in {
		cp := *item
		out[i] = &cp
	}
	return out
}
