// Package storage persists uploaded provider images.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/joshua-takyi/jirani/internal/apperrors"
)

const MaxImageSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageStore saves an upload and returns the reference recorded on the
// provider: a file name for disk storage or a URL for a CDN.
type ImageStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// validate returns the lower-cased extension of an acceptable upload.
func validate(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", apperrors.NewValidationError("image is required")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported image type %q", ext))
	}
	if file.Size > MaxImageSize {
		return "", apperrors.NewValidationError("image exceeds 5MB limit")
	}
	return ext, nil
}
