package store

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := repo.Create(&Session{ID: "s-1", Source: "websocket", StartedAt: start}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID("s-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Source != "websocket" || got.Status != "active" || got.EndedAt != nil {
		t.Errorf("unexpected session %+v", got)
	}
	if !got.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, start)
	}

	events := []*Event{
		{SessionID: "s-1", Event: "changed", Command: "advance", Rule: "thumb-down", Status: "active", At: start.Add(time.Second)},
		{SessionID: "s-1", Event: "changed", Command: "stop", Rule: "four-fingers", Status: "active", At: start.Add(2 * time.Second)},
		{SessionID: "s-1", Event: "suspended", Status: "suspended", At: start.Add(8 * time.Second)},
	}
	for _, e := range events {
		if err := repo.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if e.ID == 0 {
			t.Error("Record should assign an id")
		}
	}

	got, _ = repo.GetByID("s-1")
	if got.Commands != 2 {
		t.Errorf("Commands = %d, want 2", got.Commands)
	}
	if got.LastCommand != "stop" {
		t.Errorf("LastCommand = %q, want stop", got.LastCommand)
	}
	if got.Status != "suspended" {
		t.Errorf("Status = %q, want suspended", got.Status)
	}

	stored, err := repo.Events("s-1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 events, got %d", len(stored))
	}
	if stored[0].Command != "advance" || stored[2].Event != "suspended" {
		t.Errorf("events out of order: %+v %+v", stored[0], stored[2])
	}

	end := start.Add(time.Minute)
	if err := repo.End("s-1", end); err != nil {
		t.Fatalf("End: %v", err)
	}
	got, _ = repo.GetByID("s-1")
	if got.EndedAt == nil || !got.EndedAt.Equal(end) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, end)
	}
}

func TestSessionRepository_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if _, err := repo.GetByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: expected ErrNotFound, got %v", err)
	}
	if err := repo.End("nope", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("End: expected ErrNotFound, got %v", err)
	}
	if err := repo.Record(&Event{SessionID: "nope", Event: "changed", Status: "active", At: time.Now()}); err == nil {
		t.Error("Record for an unknown session should fail")
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Create(&Session{ID: id, Source: "camera", StartedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" {
		t.Errorf("List(0) = %d sessions, first %q", len(all), all[0].ID)
	}

	recent, _ := repo.List(2)
	if len(recent) != 2 {
		t.Errorf("List(2) returned %d", len(recent))
	}

	if err := repo.Create(&Session{ID: "a", Source: "camera", StartedAt: base}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate id: expected ErrConflict, got %v", err)
	}
}

func TestSessionRepository_EventsCascadeOnDelete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()
	now := time.Now().UTC()

	repo.Create(&Session{ID: "s", Source: "camera", StartedAt: now})
	repo.Record(&Event{SessionID: "s", Event: "changed", Command: "stop", Status: "active", At: now})

	if _, err := s.DB().Exec(`DELETE FROM sessions WHERE id = ?`, "s"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	events, err := repo.Events("s")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected events to cascade, got %d", len(events))
	}
}
