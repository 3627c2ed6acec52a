package storage

import (
	"sync"

	"github.com/gear6io/glacier/pkg/errors"
)

// MemoryIO implements FileIO on an in-process map. Paths are opaque keys,
// so URI-style locations round-trip unchanged.
type MemoryIO struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var _ FileIO = (*MemoryIO)(nil)

// NewMemoryIO creates an empty in-memory FileIO.
func NewMemoryIO() *MemoryIO {
	return &MemoryIO{files: make(map[string][]byte)}
}

func (m *MemoryIO) Write(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[path] = buf
	return nil
}

func (m *MemoryIO) Read(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[path]
	if !ok {
		return nil, errors.New(ErrFileNotFound, "file not found", nil).AddContext("path", path)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (m *MemoryIO) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; !ok {
		return errors.New(ErrFileNotFound, "file not found", nil).AddContext("path", path)
	}
	delete(m.files, path)
	return nil
}

func (m *MemoryIO) Exists(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[path]
	return ok, nil
}

// Len reports the number of stored documents.
func (m *MemoryIO) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
