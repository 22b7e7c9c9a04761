package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/domain/records"
	"github.com/carebook/carebook/internal/domain/scheduling"
	"github.com/carebook/carebook/internal/store"
)

// Adapter implements store.Snapshotter over a KV backend: each collection is
// one independently keyed JSON blob, overwritten whole after every mutation.
type Adapter struct {
	kv  KV
	log zerolog.Logger
}

func NewAdapter(kv KV, log zerolog.Logger) *Adapter {
	return &Adapter{kv: kv, log: log}
}

// SaveCollection serializes the whole collection into its slot.
func (a *Adapter) SaveCollection(ctx context.Context, key string, items interface{}) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	return a.kv.Put(ctx, key, data)
}

// Load hydrates the store from the four snapshot blobs. Hydration is all or
// nothing: if any blob is missing or fails to decode, everything read so far
// is discarded and the store is reset to the seed. A partially restored
// store would silently violate referential integrity, so it is never built.
func (a *Adapter) Load(ctx context.Context, s *store.EntityStore, now time.Time) error {
	var (
		patients      []*directory.Patient
		practitioners []*directory.Practitioner
		appointments  []*scheduling.Appointment
		recs          []*records.MedicalRecord
	)

	err := a.loadAll(ctx, map[string]interface{}{
		store.KeyPatients:      &patients,
		store.KeyPractitioners: &practitioners,
		store.KeyAppointments:  &appointments,
		store.KeyRecords:       &recs,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("snapshot load failed, seeding store")
		s.HydrateSeed(now)
		return nil
	}

	s.Hydrate(patients, practitioners, appointments, recs)
	a.log.Info().
		Int("patients", len(patients)).
		Int("practitioners", len(practitioners)).
		Int("appointments", len(appointments)).
		Int("records", len(recs)).
		Msg("store hydrated from snapshots")
	return nil
}

func (a *Adapter) loadAll(ctx context.Context, targets map[string]interface{}) error {
	for key, target := range targets {
		data, err := a.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("load %s: %w", key, err)
		}
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return nil
}
