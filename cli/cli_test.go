package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imagereader/imagereader"
	"imagereader/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags resets all package-level flag variables to their defaults.
func resetFlags() {
	flagDebug = false
	flagLogFile = "imagereader.log"
	flagPersistShapes = false
	flagConfig = ""
	flagDirIndex = 0
	flagJSON = false
	flagBackend = string(imagereader.KindOpenCV)
	flagColorMode = string(imagereader.RGB)
	flagSize = ""
	flagPrefetchConfig = ""
	flagPrefetchDirIndex = 0
	flagPrefetchFrom = ""
	flagWorkers = 0
	flagQuiet = false
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	resetFlags()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "imagereader version "+version+"\n", out)
}

func TestHash(t *testing.T) {
	code, out, _ := run(t, "hash", "a.jpg", "b.jpg")
	assert.Equal(t, ExitSuccess, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, imagereader.HashFilename("a.jpg")+"  a.jpg", lines[0])
	assert.Equal(t, imagereader.HashFilename("b.jpg")+"  b.jpg", lines[1])
}

func TestFake(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"opencv gray default", []string{"--color-mode", "GRAY"}, "512x512x1"},
		{"opencv rgb default", nil, "512x512x3"},
		{"opencv sized", []string{"--size", "10x20x4"}, "10x20x4"},
		{"pillow sized", []string{"--backend", "fs_pillow", "--size", "30x40"}, "30x40x3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := run(t, append([]string{"fake"}, tt.args...)...)
			assert.Equal(t, ExitSuccess, code)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestFake_Errors(t *testing.T) {
	code, _, _ := run(t, "fake", "--size", "10")
	assert.Equal(t, ExitUsageError, code)

	code, _, stderr := run(t, "fake", "--backend", "fs_pillow", "--color-mode", "GRAY")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "only RGB mode supported")
}

func TestRead(t *testing.T) {
	tmp := t.TempDir()
	imgDir := filepath.Join(tmp, "images")
	require.NoError(t, os.MkdirAll(imgDir, 0o755))
	writePNG(t, filepath.Join(imgDir, "a.png"), 6, 4)

	cfgPath := filepath.Join(tmp, "reader.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"type: fs_pillow\nkwargs:\n  image_dir: "+imgDir+"\n  bitcask: {path: "+filepath.Join(tmp, "cache")+"}\n"), 0o644))

	code, out, stderr := run(t, "read", "--config", cfgPath, "--json", "a.png", "a.png")
	require.Equal(t, ExitSuccess, code, stderr)

	dec := json.NewDecoder(strings.NewReader(out))
	for i := 0; i < 2; i++ {
		var info types.ImageInfo
		require.NoError(t, dec.Decode(&info))
		assert.Equal(t, filepath.Join(imgDir, "a.png"), info.Path)
		assert.Equal(t, imagereader.HashFilename(info.Path), info.CacheKey)
		assert.Equal(t, "fs_pillow", info.Backend)
		assert.Equal(t, types.Shape{Height: 4, Width: 6, Channels: 3}, info.Shape)
	}

	code, _, stderr = run(t, "read", "--config", cfgPath, "missing.png")
	assert.Equal(t, ExitReadError, code)
	assert.Contains(t, stderr, "does not exist")
}

func TestRead_ConfigErrors(t *testing.T) {
	code, _, _ := run(t, "read", "a.png")
	assert.Equal(t, ExitUsageError, code)

	code, _, stderr := run(t, "read", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "a.png")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "nope.yaml")
}

func TestPrefetch(t *testing.T) {
	tmp := t.TempDir()
	imgDir := filepath.Join(tmp, "images")
	require.NoError(t, os.MkdirAll(imgDir, 0o755))
	writePNG(t, filepath.Join(imgDir, "a.png"), 3, 3)
	writePNG(t, filepath.Join(imgDir, "b.png"), 3, 3)

	cfgPath := filepath.Join(tmp, "reader.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"type: fs_pillow\nkwargs:\n  image_dir: ["+imgDir+"]\n  bitcask: {path: "+filepath.Join(tmp, "cache")+"}\n"), 0o644))

	listPath := filepath.Join(tmp, "names.txt")
	require.NoError(t, os.WriteFile(listPath, []byte("# training split\nb.png\n\n"), 0o644))

	code, out, stderr := run(t, "prefetch", "--config", cfgPath, "--quiet", "--workers", "2", "--from", listPath, "a.png")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "Prefetched 2/2 images")

	code, out, _ = run(t, "prefetch", "--config", cfgPath, "--quiet", "a.png", "missing.png")
	assert.Equal(t, ExitReadError, code)
	assert.Contains(t, out, "Failed: missing.png")

	code, _, _ = run(t, "prefetch", "--config", cfgPath)
	assert.Equal(t, ExitUsageError, code)
}
