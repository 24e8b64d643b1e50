package cache

import (
	"github.com/zhangyunhao116/skipmap"
)

// Memory is an in-process Cache, safe for concurrent use. Values are
// copied on the way in.
type Memory struct {
	data *skipmap.StringMap[[]byte]
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{data: skipmap.NewString[[]byte]()}
}

func (m *Memory) Get(key string) ([]byte, error) {
	value, ok := m.data.Load(key)
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.data.Store(key, append([]byte(nil), value...))
	return nil
}

// Len returns the number of stored entries
func (m *Memory) Len() int {
	return m.data.Len()
}

func (m *Memory) Close() error {
	return nil
}
