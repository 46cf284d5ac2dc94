package save

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	progressObject   = "progress"
	progressProperty = "checkpoint.yaml"
)

// Progress is what survives between runs.
type Progress struct {
	Checkpoint int    `yaml:"checkpoint"`
	RunID      string `yaml:"run_id,omitempty"`
}

// Store persists progress in the platform's app data directory. A Store
// without a manager keeps progress in memory only.
type Store struct {
	manager  *gdata.Manager
	progress Progress
}

// Open returns a Store for appName. If the platform storage cannot be
// opened the store still works in memory and the error is returned
// alongside it.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return &Store{}, fmt.Errorf("save: open %q: %w", appName, err)
	}
	s := &Store{manager: m}
	if err := s.load(); err != nil {
		log.Printf("save: %v; starting fresh", err)
	}
	return s, nil
}

func (s *Store) load() error {
	if s.manager == nil || !s.manager.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	var p Progress
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("unmarshal progress: %w", err)
	}
	s.progress = p
	return nil
}

// Progress returns the last saved progress.
func (s *Store) Progress() Progress {
	return s.progress
}

// LoadCheckpoint returns the last saved checkpoint, 0 when none was saved.
func (s *Store) LoadCheckpoint() int {
	return s.progress.Checkpoint
}

// SaveCheckpoint records id and writes it through to storage.
func (s *Store) SaveCheckpoint(id int) error {
	s.progress.Checkpoint = id
	return s.flush()
}

// SetRunID tags saved progress with the analytics run that made it.
func (s *Store) SetRunID(id string) error {
	s.progress.RunID = id
	return s.flush()
}

// Reset forgets saved progress.
func (s *Store) Reset() error {
	s.progress = Progress{}
	if s.manager == nil {
		return nil
	}
	if !s.manager.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}
	if err := s.manager.DeleteObjectProp(progressObject, progressProperty); err != nil {
		return fmt.Errorf("save: reset: %w", err)
	}
	return nil
}

func (s *Store) flush() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.progress)
	if err != nil {
		return fmt.Errorf("save: marshal progress: %w", err)
	}
	if err := s.manager.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("save: write progress: %w", err)
	}
	return nil
}
