package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/domain/scheduling"
	"github.com/carebook/carebook/internal/errs"
)

func newTestStore() *EntityStore {
	return New(zerolog.Nop())
}

func seededStore(t *testing.T, now time.Time) *EntityStore {
	t.Helper()
	s := newTestStore()
	s.HydrateSeed(now)
	return s
}

func TestSeed(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s := seededStore(t, now)

	counts := s.Stats(now)
	if counts.Patients != 5 || counts.Practitioners != 4 || counts.Appointments != 4 || counts.Records != 3 {
		t.Fatalf("seed counts = %+v", counts)
	}

	p, err := s.Patients().Get(context.Background(), "p-1001")
	if err != nil {
		t.Fatalf("Get p-1001: %v", err)
	}
	if p.Name != "John Carter" {
		t.Errorf("p-1001 name = %q", p.Name)
	}

	d, err := s.Practitioners().Get(context.Background(), "d-2004")
	if err != nil {
		t.Fatalf("Get d-2004: %v", err)
	}
	if d.Status != directory.StatusInactive {
		t.Errorf("d-2004 should seed Inactive, got %q", d.Status)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore()
	_, err := s.Patients().Get(context.Background(), "p-nope")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsert_KeepsInsertionPosition(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	repo := s.Patients()

	for _, name := range []string{"First", "Second", "Third"} {
		if err := repo.Upsert(ctx, &directory.Patient{Name: name, Email: name + "@example.com", Status: directory.StatusActive}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	all, _ := repo.List(ctx, nil)
	second := all[1]

	second.Name = "Second Edited"
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	all, _ = repo.List(ctx, nil)
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}
	if all[1].ID != second.ID || all[1].Name != "Second Edited" {
		t.Error("replacing an entity must keep its position")
	}
}

func TestListReturnsCopies(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s := seededStore(t, now)
	ctx := context.Background()

	all, _ := s.Patients().List(ctx, nil)
	all[0].Name = "Mutated"

	again, _ := s.Patients().Get(ctx, all[0].ID)
	if again.Name == "Mutated" {
		t.Error("callers must not be able to reach store state through returned values")
	}
}

func TestCascade_PatientDelete(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s := seededStore(t, now)
	ctx := context.Background()

	// p-1001 has one seed appointment (a-3001); give it a second one
	err := s.Appointments().Upsert(ctx, &scheduling.Appointment{
		PatientID: "p-1001", DoctorID: "d-2002",
		PatientName: "John Carter", DoctorName: "Dr. Michael Chen", Specialization: "Neurology",
		Reason: "Headache", Datetime: now.Add(72 * time.Hour), Status: scheduling.StatusPending,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	removed, err := s.Patients().DeleteCascade(ctx, "p-1001")
	if err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	left, _ := s.Appointments().List(ctx, nil)
	for _, a := range left {
		if a.PatientID == "p-1001" {
			t.Errorf("orphaned appointment %s survived the cascade", a.ID)
		}
	}
	if len(left) != 3 {
		t.Errorf("%d appointments left, want 3", len(left))
	}

	// unrelated records are untouched
	recs, _ := s.Records().List(ctx, nil)
	if len(recs) != 3 {
		t.Errorf("cascade must not touch medical records, got %d", len(recs))
	}
}

func TestCascade_PractitionerDelete(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s := seededStore(t, now)
	ctx := context.Background()

	// d-2001 holds a-3001 and a-3004
	removed, err := s.Practitioners().DeleteCascade(ctx, "d-2001")
	if err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	left, _ := s.Appointments().List(ctx, nil)
	if len(left) != 2 {
		t.Errorf("%d appointments left, want 2", len(left))
	}
}

func TestCascade_MissingIDIsNoop(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s := seededStore(t, now)

	removed, err := s.Patients().DeleteCascade(context.Background(), "p-9999")
	if err != nil || removed != 0 {
		t.Fatalf("removed=%d err=%v", removed, err)
	}
	if got := s.Stats(now).Appointments; got != 4 {
		t.Errorf("no-op cascade changed appointments: %d", got)
	}
}

func TestSnapshotFieldsSurviveEntityEdits(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s := seededStore(t, now)
	ctx := context.Background()

	p, _ := s.Patients().Get(ctx, "p-1001")
	p.Name = "Jonathan Carter"
	if err := s.Patients().Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	a, _ := s.Appointments().Get(ctx, "a-3001")
	if a.PatientName != "John Carter" {
		t.Errorf("appointment snapshot changed to %q", a.PatientName)
	}
}

func TestStats_Upcoming(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s := seededStore(t, now)

	// seed lays out all four appointments after 08:00 on day zero
	if got := s.Stats(now).UpcomingAppointments; got != 4 {
		t.Errorf("upcoming = %d, want 4", got)
	}
	// three days later everything is in the past
	if got := s.Stats(now.Add(72 * time.Hour)).UpcomingAppointments; got != 0 {
		t.Errorf("upcoming = %d, want 0", got)
	}
}

// -- Snapshotter wiring --

type recordingSnapshotter struct {
	mu   sync.Mutex
	keys []string
	fail bool
}

func (r *recordingSnapshotter) SaveCollection(_ context.Context, key string, _ interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	if r.fail {
		return errors.New("backend down")
	}
	return nil
}

func TestMutationsSnapshotAffectedCollections(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s := seededStore(t, now)
	snap := &recordingSnapshotter{}
	s.AttachSnapshotter(snap)
	ctx := context.Background()

	if err := s.Patients().Upsert(ctx, &directory.Patient{Name: "New", Email: "new@example.com", Status: directory.StatusActive}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(snap.keys) != 1 || snap.keys[0] != KeyPatients {
		t.Fatalf("keys = %v", snap.keys)
	}

	snap.keys = nil
	if _, err := s.Patients().DeleteCascade(ctx, "p-1001"); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}
	if len(snap.keys) != 2 || snap.keys[0] != KeyPatients || snap.keys[1] != KeyAppointments {
		t.Fatalf("cascade should snapshot both collections, keys = %v", snap.keys)
	}
}

func TestSnapshotFailureDoesNotFailCommand(t *testing.T) {
	s := newTestStore()
	s.AttachSnapshotter(&recordingSnapshotter{fail: true})

	p := &directory.Patient{Name: "New", Email: "new@example.com", Status: directory.StatusActive}
	if err := s.Patients().Upsert(context.Background(), p); err != nil {
		t.Fatalf("mutation must survive a failing snapshotter: %v", err)
	}
	if _, err := s.Patients().Get(context.Background(), p.ID); err != nil {
		t.Errorf("patient should be in the store: %v", err)
	}
}
