package upload_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/linemk/tour-booking/internal/lib/upload"
	"github.com/stretchr/testify/assert"
)

// pngBytes кодирует маленькую картинку в PNG прямо в памяти
func pngBytes(t *testing.T) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestSaveImage_RenamesAndReencodes(t *testing.T) {
	dir := t.TempDir()

	name, err := upload.SaveImage(pngBytes(t), "photo.png", dir)
	assert.NoError(t, err)

	// исходное имя не сохраняется: шесть hex-символов и расширение .jpg
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{6}\.jpg$`), name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xD8}), "saved file should be a JPEG")
}

func TestSaveImage_InvalidExtension(t *testing.T) {
	dir := t.TempDir()

	_, err := upload.SaveImage(bytes.NewReader([]byte("#!/bin/sh")), "script.sh", dir)
	assert.ErrorIs(t, err, upload.ErrInvalidExtension)

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries, "rejected upload must not leave files behind")
}

func TestSaveImage_CorruptImage(t *testing.T) {
	// расширение допустимое, но содержимое не декодируется
	_, err := upload.SaveImage(bytes.NewReader([]byte("not an image")), "photo.jpg", t.TempDir())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, upload.ErrInvalidExtension)
}

func TestSaveImage_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	name, err := upload.SaveImage(pngBytes(t), "photo.jpeg", dir)
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)
}
