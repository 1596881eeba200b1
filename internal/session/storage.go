package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State is the durable slice of the session: exactly the keys that
// survive a restart, all stored as plain strings.
type State struct {
	Token       string `yaml:"token,omitempty"`
	CompanyID   string `yaml:"company_id,omitempty"`
	Theme       string `yaml:"theme,omitempty"`
	DetailLevel string `yaml:"detail_level,omitempty"`
}

// Storage persists State across restarts.
type Storage interface {
	Load() (State, error)
	Save(State) error
}

// FileStorage keeps State in a single YAML file under the user config
// dir. Writes go through a temp file + rename so a crash mid-write
// never leaves a truncated state file.
type FileStorage struct {
	path string
}

// NewFileStorage creates storage backed by the given file path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the persisted state. A missing file is a fresh state, not
// an error.
func (f *FileStorage) Load() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}
		return State{}, err
	}

	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		// a corrupt state file should not brick the console
		return State{}, nil
	}
	return s, nil
}

// Save writes the state atomically, creating parent dirs as needed.
func (f *FileStorage) Save(s State) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// MemoryStorage is an in-process Storage for tests and ephemeral runs.
type MemoryStorage struct {
	state State
}

// NewMemoryStorage creates empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load returns the stored state.
func (m *MemoryStorage) Load() (State, error) {
	return m.state, nil
}

// Save replaces the stored state.
func (m *MemoryStorage) Save(s State) error {
	m.state = s
	return nil
}
