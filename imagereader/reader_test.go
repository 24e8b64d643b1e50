package imagereader

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"imagereader/cache"
	"imagereader/logging"
	"imagereader/types"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textImage is a stand-in image whose file format is "HxW"
type textImage struct {
	Shape     types.Shape
	FromCache bool
}

type textCodec struct{}

func (textCodec) DecodeFile(data []byte) (textImage, error) {
	var s types.Shape
	if _, err := fmt.Sscanf(string(data), "%dx%d", &s.Height, &s.Width); err != nil {
		return textImage{}, err
	}
	s.Channels = 3
	return textImage{Shape: s}, nil
}

func (textCodec) Encode(img textImage) ([]byte, error) {
	return []byte(fmt.Sprintf("jpeg:%dx%d", img.Shape.Height, img.Shape.Width)), nil
}

func (textCodec) DecodeCached(data []byte) (textImage, error) {
	var s types.Shape
	if _, err := fmt.Sscanf(string(data), "jpeg:%dx%d", &s.Height, &s.Width); err != nil {
		return textImage{}, err
	}
	s.Channels = 3
	return textImage{Shape: s, FromCache: true}, nil
}

func (textCodec) Shape(img textImage) types.Shape {
	return img.Shape
}

// faultyCache wraps a memory cache and fails on demand
type faultyCache struct {
	*cache.Memory
	getErr error
	setErr error
	gets   int
	sets   int
}

func (f *faultyCache) Get(key string) ([]byte, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Memory.Get(key)
}

func (f *faultyCache) Set(key string, value []byte) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	return f.Memory.Set(key, value)
}

func newTestFS(t *testing.T, files map[string]string) *billy.MemoryFS {
	t.Helper()
	fsys := billy.NewMemory()
	for name, content := range files {
		require.NoError(t, fsys.WriteFile(name, []byte(content), 0o644))
	}
	return fsys
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(nil) })
	return &buf
}

func newTestReader(t *testing.T, c cache.Cache) *Base[textImage] {
	t.Helper()
	fsys := newTestFS(t, map[string]string{
		"/a/x.img": "4x6",
		"/b/x.img": "8x2",
	})
	cfg := Config{ImageDir: DirList("/a", "/b"), ColorMode: RGB}
	return NewBase[textImage](KindOpenCV, cfg, textCodec{}, WithFS(fsys), WithCache(c))
}

func TestHashFilename(t *testing.T) {
	h1 := HashFilename("/data/train/0001.jpg")
	h2 := HashFilename("/data/train/0001.jpg")
	h3 := HashFilename("/data/train/0002.jpg")

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
	require.Len(t, h1, 32)
	require.Equal(t, strings.ToLower(h1), h1)
	// md5("") is a well known value
	require.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", HashFilename(""))
}

func TestDirs_Join(t *testing.T) {
	dirs := DirList("/a", "/b")

	path, err := dirs.Join("x.jpg", 1)
	require.NoError(t, err)
	require.Equal(t, "/b/x.jpg", path)

	_, err = dirs.Join("x.jpg", 2)
	require.Error(t, err)
	require.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = dirs.Join("x.jpg", -1)
	require.Error(t, err)

	single := SingleDir("/data")
	path, err = single.Join("x.jpg", 5)
	require.NoError(t, err)
	require.Equal(t, "/data/x.jpg", path, "a single directory ignores the index")

	path, err = single.Join("/abs/y.jpg", 0)
	require.NoError(t, err)
	require.Equal(t, "/abs/y.jpg", path)

	_, err = Dirs{}.Join("x.jpg", 0)
	require.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestCheckColorMode(t *testing.T) {
	require.NoError(t, CheckColorMode(Gray, RGB, BGR, Gray))

	err := CheckColorMode("XYZ", RGB, BGR, Gray)
	require.Error(t, err)
	require.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
	require.Contains(t, err.Error(), "XYZ not supported")

	require.Equal(t, Gray, ParseColorMode("GRAYSCALE"))
	require.Equal(t, ColorMode("XYZ"), ParseColorMode("XYZ"))
}

func TestBase_ReadWithoutCache(t *testing.T) {
	r := newTestReader(t, nil)
	require.False(t, r.Cached())

	img, err := r.LoadImage("x.img", 0)
	require.NoError(t, err)
	require.Equal(t, types.Shape{Height: 4, Width: 6, Channels: 3}, img.Shape)

	img, err = r.LoadImage("x.img", 1)
	require.NoError(t, err)
	require.Equal(t, types.Shape{Height: 8, Width: 2, Channels: 3}, img.Shape)

	direct, err := textCodec{}.DecodeFile([]byte("8x2"))
	require.NoError(t, err)
	require.Equal(t, direct, img)
}

func TestBase_MissingFileIsFatal(t *testing.T) {
	r := newTestReader(t, cache.NewMemory())

	_, err := r.LoadImage("nope.img", 0)
	require.Error(t, err)
	require.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = r.LoadImage("x.img", 7)
	require.Error(t, err)
	require.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestBase_UndecodableFile(t *testing.T) {
	fsys := newTestFS(t, map[string]string{"/a/bad.img": "garbage"})
	r := NewBase[textImage](KindOpenCV, Config{ImageDir: SingleDir("/a")}, textCodec{}, WithFS(fsys))

	_, err := r.LoadImage("bad.img", 0)
	require.Error(t, err)
	require.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestBase_CacheRoundTrip(t *testing.T) {
	mem := cache.NewMemory()
	r := newTestReader(t, mem)

	first, err := r.LoadImage("x.img", 0)
	require.NoError(t, err)
	require.False(t, first.FromCache)
	require.Equal(t, 1, mem.Len())

	key := HashFilename("/a/x.img")
	shape, ok := r.Shapes().Lookup(key)
	require.True(t, ok)
	require.Equal(t, first.Shape, shape)

	second, err := r.LoadImage("x.img", 0)
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, first.Shape, second.Shape)
}

func TestBase_GetFailureFallsBackToFile(t *testing.T) {
	logs := captureLog(t)
	fc := &faultyCache{Memory: cache.NewMemory()}
	r := newTestReader(t, fc)

	_, err := r.Read("/a/x.img")
	require.NoError(t, err)

	fc.getErr = fmt.Errorf("connection reset by peer")
	img, err := r.Read("/a/x.img")
	require.NoError(t, err)
	require.False(t, img.FromCache)
	require.Equal(t, types.Shape{Height: 4, Width: 6, Channels: 3}, img.Shape)
	require.Equal(t, 1, fc.gets)

	out := logs.String()
	assert.Contains(t, out, "WARNING:")
	assert.Contains(t, out, "connection reset by peer")
	assert.Contains(t, out, "using file read")
}

func TestBase_SetFailureStillReturnsImage(t *testing.T) {
	logs := captureLog(t)
	fc := &faultyCache{Memory: cache.NewMemory(), setErr: fmt.Errorf("server out of memory")}
	r := newTestReader(t, fc)

	img, err := r.Read("/a/x.img")
	require.NoError(t, err)
	require.Equal(t, types.Shape{Height: 4, Width: 6, Channels: 3}, img.Shape)
	require.Contains(t, logs.String(), "server out of memory")

	// the failed store is not recorded, so the next read tries again
	require.False(t, r.Shapes().Seen(HashFilename("/a/x.img")))
	_, err = r.Read("/a/x.img")
	require.NoError(t, err)
	require.Equal(t, 2, fc.sets)
	require.Equal(t, 0, fc.gets)
}

func TestBase_MalformedPayloadFallsBack(t *testing.T) {
	logs := captureLog(t)
	mem := cache.NewMemory()
	r := newTestReader(t, mem)

	_, err := r.Read("/b/x.img")
	require.NoError(t, err)

	require.NoError(t, mem.Set(HashFilename("/b/x.img"), []byte("not a jpeg")))
	img, err := r.Read("/b/x.img")
	require.NoError(t, err)
	require.False(t, img.FromCache)
	require.Equal(t, types.Shape{Height: 8, Width: 2, Channels: 3}, img.Shape)
	require.Contains(t, logs.String(), "cache decode")

	require.NoError(t, mem.Set(HashFilename("/b/x.img"), nil))
	_, err = r.Read("/b/x.img")
	require.NoError(t, err)
	require.Contains(t, logs.String(), "empty payload")
}

func TestBase_EvictedEntryIsStoredAgain(t *testing.T) {
	logs := captureLog(t)
	shapes := NewMemoryShapes()
	mem := cache.NewMemory()
	fsys := newTestFS(t, map[string]string{"/a/x.img": "4x6"})
	r := NewBase[textImage](KindImaging, Config{ImageDir: SingleDir("/a")}, textCodec{},
		WithFS(fsys), WithCache(mem), WithShapeTable(shapes))

	// seen by a previous process, but the cache has since lost it
	require.NoError(t, shapes.Record(HashFilename("/a/x.img"), "/a/x.img", types.Shape{}))

	img, err := r.LoadImage("x.img", 0)
	require.NoError(t, err)
	require.False(t, img.FromCache)
	require.Equal(t, 1, mem.Len())
	require.NotContains(t, logs.String(), "WARNING")

	shape, ok := shapes.Lookup(HashFilename("/a/x.img"))
	require.True(t, ok)
	require.Equal(t, img.Shape, shape)
}

func TestBase_Accessors(t *testing.T) {
	r := newTestReader(t, nil)

	require.Equal(t, KindOpenCV, r.Kind())
	require.Equal(t, RGB, r.ColorMode())
	require.Equal(t, []string{"/a", "/b"}, r.ImageDirectory().Paths)
	require.True(t, r.ImageDirectory().List)
	require.NoError(t, r.Close())

	var _ Reader = r
}

func TestMemoryShapes(t *testing.T) {
	s := NewMemoryShapes()
	require.False(t, s.Seen("k"))

	require.NoError(t, s.Record("k", "/p", types.Shape{Height: 1, Width: 2, Channels: 3}))
	require.True(t, s.Seen("k"))
	require.Equal(t, 1, s.Len())

	shape, ok := s.Lookup("k")
	require.True(t, ok)
	require.Equal(t, "1x2x3", shape.String())
}
