package services_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maninews/internal/apperror"
	"maninews/internal/services"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 229, G: 9, B: 20, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newUploadService(t *testing.T) (*services.UploadService, string) {
	dir := t.TempDir()
	return services.NewUploadService(services.UploadConfig{
		Dir:       dir,
		URLPrefix: "/uploads/",
		MaxWidth:  1200,
		MaxBytes:  1 << 20,
	}), dir
}

func TestUploadService_SaveImage(t *testing.T) {
	uploadService, dir := newUploadService(t)

	upload, err := uploadService.SaveImage("../capa.png", bytes.NewReader(pngImage(t, 2400, 100)))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(upload.Filename, ".png"))
	assert.Equal(t, "/uploads/"+upload.Filename, upload.URL)
	assert.Equal(t, "capa.png", upload.OriginalName)
	assert.Equal(t, 1200, upload.Width)
	assert.Equal(t, 50, upload.Height)

	info, err := os.Stat(filepath.Join(dir, upload.Filename))
	require.NoError(t, err)
	assert.Equal(t, info.Size(), upload.Size)

	stored, err := imaging.Open(filepath.Join(dir, upload.Filename))
	require.NoError(t, err)
	assert.Equal(t, 1200, stored.Bounds().Dx())
}

func TestUploadService_ConvertsOtherFormatsToJPEG(t *testing.T) {
	uploadService, _ := newUploadService(t)

	upload, err := uploadService.SaveImage("foto.webp", bytes.NewReader(pngImage(t, 300, 200)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(upload.Filename, ".jpg"))
	assert.Equal(t, 300, upload.Width)
}

func TestUploadService_RejectsInvalidInput(t *testing.T) {
	uploadService, dir := newUploadService(t)

	_, err := uploadService.SaveImage("notes.txt", strings.NewReader("not an image"))
	assert.True(t, apperror.IsValidation(err))

	_, err = uploadService.SaveImage("huge.png", bytes.NewReader(make([]byte, 2<<20)))
	assert.True(t, apperror.IsValidation(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
