package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="` + name + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSave(t *testing.T) {
	store, err := NewStore(t.TempDir(), 1024)
	require.NoError(t, err)

	name, err := store.Save(fileHeader(t, "xray.png", "image/png", 100))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"), "stored name should carry the mapped extension")
	assert.NotContains(t, name, "xray", "stored name must not leak the client filename")

	info, err := os.Stat(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, int64(100), info.Size())
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store, err := NewStore(t.TempDir(), 1024)
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "run.exe", "application/octet-stream", 10))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsOversize(t *testing.T) {
	store, err := NewStore(t.TempDir(), 64)
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "big.pdf", "application/pdf", 128))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRemove(t *testing.T) {
	store, err := NewStore(t.TempDir(), 1024)
	require.NoError(t, err)

	name, err := store.Save(fileHeader(t, "doc.pdf", "application/pdf", 10))
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	require.NoError(t, store.Remove(name))
}
