package scene

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

const testScenesYAML = `
- id: scene.sunrise
  name: Sunrise
  entities:
    light.desk:
      state: "on"
      brightness: 120
      color_temp_kelvin: 3200
    light.hall:
      state: "off"
- id: scene.noon
  name: Noon
  entities:
    light.desk:
      state: "on"
      brightness: 255
      color_temp_kelvin: 5500
`

func writeTestScenes(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenes.yaml")
	if err := os.WriteFile(path, []byte(testScenesYAML), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return path
}

func TestFileStore_LookupByID(t *testing.T) {
	store, err := NewFileStore(writeTestScenes(t), testLogger())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	snapshot, err := store.Lookup(context.Background(), "scene.sunrise")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if snapshot.Name != "Sunrise" {
		t.Errorf("Expected name 'Sunrise', got '%s'", snapshot.Name)
	}
	if len(snapshot.Entities) != 2 {
		t.Fatalf("Expected 2 entities, got %d", len(snapshot.Entities))
	}

	desk := snapshot.Entities["light.desk"]
	if desk.State == nil || *desk.State != "on" {
		t.Errorf("Expected light.desk state 'on', got %v", desk.State)
	}
	if desk.Brightness == nil || *desk.Brightness != 120 {
		t.Errorf("Expected light.desk brightness 120, got %v", desk.Brightness)
	}
	if desk.ColorTempKelvin == nil || *desk.ColorTempKelvin != 3200 {
		t.Errorf("Expected light.desk color temp 3200, got %v", desk.ColorTempKelvin)
	}
}

func TestFileStore_LookupByName(t *testing.T) {
	store, err := NewFileStore(writeTestScenes(t), testLogger())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	snapshot, err := store.Lookup(context.Background(), "Noon")
	if err != nil {
		t.Fatalf("Lookup by name failed: %v", err)
	}
	if snapshot.ID != "scene.noon" {
		t.Errorf("Expected id 'scene.noon', got '%s'", snapshot.ID)
	}
}

func TestFileStore_UnknownScene(t *testing.T) {
	store, err := NewFileStore(writeTestScenes(t), testLogger())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	_, err = store.Lookup(context.Background(), "scene.midnight")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	if _, err := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"), testLogger()); err == nil {
		t.Error("Expected error for missing scene file")
	}
}

func TestFileStore_SceneWithoutID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.yaml")
	content := "- name: Orphan\n  entities: {}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	if _, err := NewFileStore(path, testLogger()); err == nil {
		t.Error("Expected error for scene without id")
	}
}
