package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
)

// FileSlot persists the durable session subset as a single JSON file.
type FileSlot struct {
	path   string
	logger *zap.Logger
}

func NewFileSlot(path string, logger *zap.Logger) *FileSlot {
	return &FileSlot{path: path, logger: logger}
}

// Save overwrites the slot atomically (temp file + rename).
func (s *FileSlot) Save(state entity.DurableState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session state: %w", err)
	}
	return nil
}

// Load reads the slot. A missing, unreadable or malformed slot degrades to
// (nil, nil) so the caller starts from an empty session; corruption is
// logged, never propagated.
func (s *FileSlot) Load() (*entity.DurableState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn("session slot unreadable, discarding", zap.Error(err))
		return nil, nil
	}

	state := &entity.DurableState{}
	if err := json.Unmarshal(data, state); err != nil {
		s.logger.Warn("session slot malformed, discarding", zap.Error(err))
		return nil, nil
	}
	return state, nil
}

// Clear removes the slot. A missing slot is not an error.
func (s *FileSlot) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session state: %w", err)
	}
	return nil
}
