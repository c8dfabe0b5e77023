package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func TestSaveFileWritesUniqueScratchFiles(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)
	header := fileHeader(t, "resume.pdf", []byte("%PDF-1.4 fake"))

	first, err := storage.SaveFile(header)
	require.NoError(t, err)
	second, err := storage.SaveFile(header)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same upload name must not share a scratch path")
	assert.Equal(t, dir, filepath.Dir(first))

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestSaveFileExtensionIsCaseInsensitive(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	path, err := storage.SaveFile(fileHeader(t, "RESUME.PDF", []byte("x")))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSaveFileRejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	_, err := storage.SaveFile(fileHeader(t, "resume.docx", []byte("x")))
	require.ErrorIs(t, err, ErrNotPDF)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written for a rejected upload")
}

func TestDeleteFile(t *testing.T) {
	storage := NewStorageService(t.TempDir())
	path, err := storage.SaveFile(fileHeader(t, "resume.pdf", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, storage.DeleteFile(path))
	assert.NoFileExists(t, path)

	assert.NoError(t, storage.DeleteFile(path), "deleting twice is not an error")
}

func TestEnsureUploadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "scratch")

	require.NoError(t, NewStorageService(dir).EnsureUploadDir())
	assert.DirExists(t, dir)
}

func TestIsPDFFilename(t *testing.T) {
	assert.True(t, IsPDFFilename("cv.pdf"))
	assert.True(t, IsPDFFilename("cv.Pdf"))
	assert.False(t, IsPDFFilename("cv.pdf.docx"))
	assert.False(t, IsPDFFilename("cv"))
}
