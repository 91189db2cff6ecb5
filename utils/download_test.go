package utils

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))

	mux := http.NewServeMux()
	mux.HandleFunc("/sample.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/sample.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text content"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestUtils_ShouldDownloadImage(t *testing.T) {
	srv := newImageServer(t)

	f, err := DownloadImage(srv.URL + "/sample.png")
	require.NoError(t, err, "could't download test file")
	defer os.Remove(f.Name())
	defer f.Close()

	img, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestUtils_ShouldRejectNonImage(t *testing.T) {
	srv := newImageServer(t)

	_, err := DownloadImage(srv.URL + "/sample.txt")
	assert.Error(t, err)

	_, err = DownloadImage(srv.URL + "/missing.png")
	assert.Error(t, err)
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert.True(t, IsValidUrl("https://github.com/esimov/seamcut/"))
	assert.False(t, IsValidUrl("sample.jpg"))
	assert.False(t, IsValidUrl("/tmp/sample.jpg"))
	assert.False(t, IsValidUrl("-"))
}

func TestUtils_ShouldDetectValidFileType(t *testing.T) {
	dir := t.TempDir()

	sampleImg := filepath.Join(dir, "sample.png")
	f, err := os.Create(sampleImg)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())

	ftype, err := DetectContentType(sampleImg)
	require.NoError(t, err, "could not detect content type")
	assert.True(t, strings.Contains(ftype, "image"), "content type expected to be of type image, got: %v", ftype)

	// Files shorter than the sniffing buffer are detected as well.
	short := filepath.Join(dir, "short.txt")
	require.NoError(t, os.WriteFile(short, []byte("hi"), 0644))
	ftype, err = DetectContentType(short)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ftype, "text/plain"))

	_, err = DetectContentType(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
