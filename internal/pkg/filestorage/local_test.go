package filestorage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)
	return ls, dir
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	ls, dir := newLocal(t)

	publicPath, err := ls.Save(ctx, "membership_applications/abc-123", ".PDF", strings.NewReader("degree"), 6)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicPath, "/uploads/membership_applications/abc-123/"))
	assert.True(t, strings.HasSuffix(publicPath, ".pdf"))

	onDisk := filepath.Join(dir, strings.TrimPrefix(publicPath, "/uploads/"))
	content, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "degree", string(content))

	rc, err := ls.Open(ctx, publicPath)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "degree", string(b))

	exists, err := ls.Exists(ctx, publicPath)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, ls.Delete(ctx, publicPath))
	exists, err = ls.Exists(ctx, publicPath)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is fine
	require.NoError(t, ls.Delete(ctx, publicPath))

	_, err = ls.Open(ctx, publicPath)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStorage_SaveAsFixedName(t *testing.T) {
	ctx := context.Background()
	ls, _ := newLocal(t)

	p, err := ls.SaveAs(ctx, CertificatesFolder, "SESI_Certificate_SESI-2025-0001.pdf", bytes.NewReader([]byte("%PDF")), 4)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/certificates/SESI_Certificate_SESI-2025-0001.pdf", p)

	// overwrite keeps the same path
	p2, err := ls.SaveAs(ctx, CertificatesFolder, "SESI_Certificate_SESI-2025-0001.pdf", bytes.NewReader([]byte("%PDF-2")), 6)
	require.NoError(t, err)
	assert.Equal(t, p, p2)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	ls, _ := newLocal(t)

	_, err := ls.Save(ctx, "../etc", ".pdf", strings.NewReader("x"), 1)
	assert.True(t, errors.Is(err, ErrInvalidPath))

	_, err = ls.SaveAs(ctx, "gallery", "../passwd", strings.NewReader("x"), 1)
	assert.True(t, errors.Is(err, ErrInvalidPath))

	assert.True(t, errors.Is(ls.Delete(ctx, "/uploads/../config.yaml"), ErrInvalidPath))
	assert.True(t, errors.Is(ls.Delete(ctx, "/elsewhere/file.pdf"), ErrInvalidPath))
}

func TestCleanSubfolder(t *testing.T) {
	got, err := CleanSubfolder(" /Gallery/ ")
	require.NoError(t, err)
	assert.Equal(t, "gallery", got)

	for _, bad := range []string{"", "a/../b", "with space", "a//b"} {
		_, err := CleanSubfolder(bad)
		assert.Error(t, err, bad)
	}
}

func TestSaveFileHeader(t *testing.T) {
	ctx := context.Background()
	ls, _ := newLocal(t)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "photo.JPG")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	fh := req.MultipartForm.File["file"][0]

	p, err := SaveFileHeader(ctx, ls, fh, "gallery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/uploads/gallery/"))
	assert.True(t, strings.HasSuffix(p, ".jpg"))
}
