package imagereader

import (
	"imagereader/types"

	"github.com/zhangyunhao116/skipmap"
)

// ShapeTable records the decoded shape of every image stored in the cache.
// A key present in the table is read back from the cache; an absent key is
// decoded from disk and stored.
type ShapeTable interface {
	Seen(key string) bool
	Record(key, path string, shape types.Shape) error
	Lookup(key string) (types.Shape, bool)
}

// MemoryShapes is the default ShapeTable. It is safe for concurrent use.
type MemoryShapes struct {
	shapes *skipmap.StringMap[types.Shape]
}

// NewMemoryShapes creates an empty in-memory shape table
func NewMemoryShapes() *MemoryShapes {
	return &MemoryShapes{shapes: skipmap.NewString[types.Shape]()}
}

func (m *MemoryShapes) Seen(key string) bool {
	_, ok := m.shapes.Load(key)
	return ok
}

func (m *MemoryShapes) Record(key, _ string, shape types.Shape) error {
	m.shapes.Store(key, shape)
	return nil
}

func (m *MemoryShapes) Lookup(key string) (types.Shape, bool) {
	return m.shapes.Load(key)
}

// Len returns the number of recorded shapes
func (m *MemoryShapes) Len() int {
	return m.shapes.Len()
}
