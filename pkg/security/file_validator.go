package security

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Upload size caps in bytes.
const (
	MaxResumeSize = 10 << 20 // 10 MiB
	MaxPhotoSize  = 5 << 20  // 5 MiB
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Detected file extension
	DeclaredMIME string // Content type declared by the client
	Error        string // Error message if validation failed
}

// Magic byte signatures for allowed file types
// Maps lowercase extension to possible magic byte prefixes
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},                           // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                                                   // ZIP (PK..)
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".webp": {{0x52, 0x49, 0x46, 0x46}},                                                   // RIFF header
}

// Resume uploads: documents only (strict whitelist)
var resumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var resumeMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Profile photo uploads: images only
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var photoMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateResume performs 4-layer validation on a resume upload:
// 1. Size bounds (non-empty, <= MaxResumeSize)
// 2. Extension whitelist check
// 3. Magic byte verification (content matches extension)
// 4. Declared MIME type whitelist
func ValidateResume(filename string, size int64, head []byte, declaredMIME string) FileValidationResult {
	return validate(filename, size, head, declaredMIME, MaxResumeSize, resumeExtensions, resumeMIMETypes)
}

// ValidatePhoto applies the same layers with the image whitelists.
func ValidatePhoto(filename string, size int64, head []byte, declaredMIME string) FileValidationResult {
	return validate(filename, size, head, declaredMIME, MaxPhotoSize, photoExtensions, photoMIMETypes)
}

func validate(filename string, size int64, head []byte, declaredMIME string, maxSize int64, extensions, mimeTypes map[string]bool) FileValidationResult {
	result := FileValidationResult{
		DeclaredMIME: declaredMIME,
	}

	if size <= 0 {
		result.Error = "file is empty"
		return result
	}
	if size > maxSize {
		result.Error = "file exceeds the maximum allowed size"
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if !extensions[ext] {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if !validateMagicBytes(ext, head) {
		result.Error = "file content does not match extension (potential file spoofing detected)"
		return result
	}

	// Declared Content-Type must be on the whitelist; octet-stream and
	// friends are rejected outright.
	mime := declaredMIME
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !mimeTypes[mime] {
		result.Error = "content type not allowed: " + declaredMIME
		return result
	}

	result.Valid = true
	return result
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}

	signatures, ok := magicBytes[ext]
	if !ok {
		return false // Unknown extension
	}

	for _, sig := range signatures {
		if len(data) >= len(sig) && bytes.HasPrefix(data, sig) {
			return true
		}
	}

	return false
}

// IsImageExtension checks if the extension is an image type
func IsImageExtension(ext string) bool {
	return photoExtensions[strings.ToLower(ext)]
}
