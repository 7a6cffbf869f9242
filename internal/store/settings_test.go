package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	t.Run("get missing", func(t *testing.T) {
		if _, err := repo.Get("pinch_threshold"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := repo.Set("pinch_threshold", "0.04"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := repo.Get("pinch_threshold")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != "0.04" {
			t.Errorf("got %q, want %q", got, "0.04")
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		if err := repo.Set("pinch_threshold", "0.06"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, _ := repo.Get("pinch_threshold")
		if got != "0.06" {
			t.Errorf("got %q, want %q", got, "0.06")
		}
	})

	t.Run("all", func(t *testing.T) {
		if err := repo.Set("dead_zone", "5"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		all, err := repo.All()
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 settings, got %d: %v", len(all), all)
		}
		if all["dead_zone"] != "5" || all["pinch_threshold"] != "0.06" {
			t.Errorf("unexpected settings: %v", all)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete("dead_zone"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Get("dead_zone"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete("dead_zone"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})
}

func TestSettingsRepository_AllEmpty(t *testing.T) {
	s := newTestStore(t)

	all, err := s.Settings().All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("expected empty non-nil map, got %v", all)
	}
}
