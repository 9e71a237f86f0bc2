package store

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBindingRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	b := &Binding{
		ID:         "b-1",
		Command:    "advance",
		PluginName: "robot-drive",
		ActionName: "drive",
		Config:     json.RawMessage(`{"speed":0.5}`),
		Enabled:    true,
	}
	if err := repo.Create(b); err != nil {
		t.Fatalf("failed to create binding: %v", err)
	}
	if b.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := repo.GetByID("b-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Command != "advance" || got.PluginName != "robot-drive" || got.ActionName != "drive" {
		t.Errorf("unexpected binding %+v", got)
	}
	if string(got.Config) != `{"speed":0.5}` {
		t.Errorf("Config = %s", got.Config)
	}
	if !got.Enabled {
		t.Error("Enabled should be true")
	}

	byCmd, err := repo.GetByCommand("advance")
	if err != nil || byCmd == nil || byCmd.ID != "b-1" {
		t.Errorf("GetByCommand = %+v, %v", byCmd, err)
	}
}

func TestBindingRepository_DefaultConfig(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	if err := repo.Create(&Binding{ID: "b-1", Command: "stop", PluginName: "p", ActionName: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, _ := repo.GetByID("b-1")
	if string(got.Config) != "{}" {
		t.Errorf("Config = %s, want {}", got.Config)
	}
}

func TestBindingRepository_Create_DuplicateCommand(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	if err := repo.Create(&Binding{ID: "b-1", Command: "stop", PluginName: "p", ActionName: "a"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	err := repo.Create(&Binding{ID: "b-2", Command: "stop", PluginName: "p", ActionName: "b"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestBindingRepository_GetByCommand_Unbound(t *testing.T) {
	s := newTestStore(t)

	b, err := s.Bindings().GetByCommand("turn-left")
	if err != nil || b != nil {
		t.Errorf("GetByCommand = %+v, %v; want nil, nil", b, err)
	}
}

func TestBindingRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	for i, cmd := range []string{"advance", "stop", "turn-left"} {
		b := &Binding{ID: string(rune('a' + i)), Command: cmd, PluginName: "p", ActionName: "a", Enabled: true}
		if err := repo.Create(b); err != nil {
			t.Fatalf("create %s: %v", cmd, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 bindings, got %d", len(list))
	}
}

func TestBindingRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	repo.Create(&Binding{ID: "b-1", Command: "stop", PluginName: "p", ActionName: "a", Enabled: true})
	repo.Create(&Binding{ID: "b-2", Command: "advance", PluginName: "p", ActionName: "a", Enabled: true})

	b, _ := repo.GetByID("b-1")
	b.ActionName = "halt"
	b.Enabled = false
	if err := repo.Update(b); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := repo.GetByID("b-1")
	if got.ActionName != "halt" || got.Enabled {
		t.Errorf("update not persisted: %+v", got)
	}

	got.Enabled = true
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// Create and Update store the flag the same way.
	var created, updated int
	s.DB().QueryRow(`SELECT enabled FROM bindings WHERE id = 'b-2'`).Scan(&created)
	s.DB().QueryRow(`SELECT enabled FROM bindings WHERE id = 'b-1'`).Scan(&updated)
	if created != 1 || updated != 1 {
		t.Errorf("enabled column = %d after create, %d after update, want 1", created, updated)
	}

	got.Command = "advance"
	if err := repo.Update(got); !errors.Is(err, ErrConflict) {
		t.Errorf("moving onto a bound command should conflict, got %v", err)
	}

	if err := repo.Update(&Binding{ID: "missing", Command: "turn-left"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBindingRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Bindings()

	repo.Create(&Binding{ID: "b-1", Command: "stop", PluginName: "p", ActionName: "a"})
	if err := repo.Delete("b-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID("b-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete("b-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}
