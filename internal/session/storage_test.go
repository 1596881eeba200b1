package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yml")
	storage := NewFileStorage(path)

	want := State{Token: "tok", CompanyID: "c1", Theme: "light", DetailLevel: "high"}
	if err := storage.Save(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := storage.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFileStorageMissingFileIsFreshState(t *testing.T) {
	storage := NewFileStorage(filepath.Join(t.TempDir(), "absent.yml"))

	got, err := storage.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != (State{}) {
		t.Errorf("missing file should load as zero state, got %+v", got)
	}
}

func TestFileStorageCorruptFileIsFreshState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o600); err != nil {
		t.Fatal(err)
	}

	storage := NewFileStorage(path)
	got, err := storage.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != (State{}) {
		t.Errorf("corrupt file should load as zero state, got %+v", got)
	}
}

func TestFileStorageOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	storage := NewFileStorage(path)

	storage.Save(State{Token: "first"})
	storage.Save(State{Token: "second"})

	got, _ := storage.Load()
	if got.Token != "second" {
		t.Errorf("token = %q, want second", got.Token)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
