package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Upload input validation and sanitization utilities

var allowedImageMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// ValidateImageMIME checks that the upload claims a supported image type.
func ValidateImageMIME(mime string) error {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !allowedImageMIME[mime] {
		return fmt.Errorf("unsupported image type: %s (allowed: jpeg, png, gif, webp, bmp, tiff)", mime)
	}
	return nil
}

var unsafeFileNameChars = regexp.MustCompile(`[^\w.\- ]`)

const maxFileNameLen = 255

// SanitizeFileName strips path components and unsafe characters from a
// client-supplied file name so it is safe to echo back and log.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	name = unsafeFileNameChars.ReplaceAllString(name, "_")
	if name == "" {
		return "upload"
	}
	if len(name) > maxFileNameLen {
		name = name[len(name)-maxFileNameLen:]
	}
	return name
}
