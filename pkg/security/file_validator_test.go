package security_test

import (
	"testing"

	"veridia-hiring-backend/pkg/security"

	"github.com/stretchr/testify/assert"
)

var pdfHead = []byte("%PDF-1.7\n%stuff")

func TestValidateResume(t *testing.T) {
	t.Run("Should accept a well-formed pdf", func(t *testing.T) {
		result := security.ValidateResume("cv.pdf", 1024, pdfHead, "application/pdf")
		assert.True(t, result.Valid)
		assert.Equal(t, ".pdf", result.Extension)
	})

	t.Run("Should reject an empty file", func(t *testing.T) {
		result := security.ValidateResume("cv.pdf", 0, nil, "application/pdf")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "empty")
	})

	t.Run("Should reject a file over the size cap", func(t *testing.T) {
		result := security.ValidateResume("cv.pdf", security.MaxResumeSize+1, pdfHead, "application/pdf")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "maximum allowed size")
	})

	t.Run("Should reject a disallowed extension", func(t *testing.T) {
		result := security.ValidateResume("cv.exe", 1024, pdfHead, "application/pdf")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "extension not allowed")
	})

	t.Run("Should reject a missing extension", func(t *testing.T) {
		result := security.ValidateResume("cv", 1024, pdfHead, "application/pdf")
		assert.False(t, result.Valid)
	})

	t.Run("Should reject content that does not match the extension", func(t *testing.T) {
		// ZIP magic under a .pdf name
		result := security.ValidateResume("cv.pdf", 1024, []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, "application/pdf")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "spoofing")
	})

	t.Run("Should reject a declared type off the whitelist", func(t *testing.T) {
		result := security.ValidateResume("cv.pdf", 1024, pdfHead, "application/octet-stream")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "content type not allowed")
	})

	t.Run("Should ignore content type parameters", func(t *testing.T) {
		result := security.ValidateResume("cv.pdf", 1024, pdfHead, "application/pdf; charset=binary")
		assert.True(t, result.Valid)
	})

	t.Run("Should accept docx with zip magic", func(t *testing.T) {
		result := security.ValidateResume("cv.docx", 1024, []byte{0x50, 0x4B, 0x03, 0x04, 0x14}, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		assert.True(t, result.Valid)
	})

	t.Run("Should not accept image types as resumes", func(t *testing.T) {
		result := security.ValidateResume("cv.png", 1024, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png")
		assert.False(t, result.Valid)
	})
}

func TestValidatePhoto(t *testing.T) {
	pngHead := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}

	t.Run("Should accept a png", func(t *testing.T) {
		result := security.ValidatePhoto("me.png", 1024, pngHead, "image/png")
		assert.True(t, result.Valid)
	})

	t.Run("Should accept both gif variants", func(t *testing.T) {
		for _, head := range [][]byte{[]byte("GIF87a..."), []byte("GIF89a...")} {
			result := security.ValidatePhoto("me.gif", 1024, head, "image/gif")
			assert.True(t, result.Valid)
		}
	})

	t.Run("Should reject a photo over the cap", func(t *testing.T) {
		result := security.ValidatePhoto("me.png", security.MaxPhotoSize+1, pngHead, "image/png")
		assert.False(t, result.Valid)
	})

	t.Run("Should not accept documents as photos", func(t *testing.T) {
		result := security.ValidatePhoto("me.pdf", 1024, pdfHead, "application/pdf")
		assert.False(t, result.Valid)
	})

	t.Run("Case of the extension should not matter", func(t *testing.T) {
		result := security.ValidatePhoto("ME.PNG", 1024, pngHead, "image/png")
		assert.True(t, result.Valid)
	})
}

func TestIsImageExtension(t *testing.T) {
	assert.True(t, security.IsImageExtension(".jpg"))
	assert.True(t, security.IsImageExtension(".WEBP"))
	assert.False(t, security.IsImageExtension(".pdf"))
}
