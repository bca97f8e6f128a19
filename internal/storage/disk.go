package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/joshua-takyi/jirani/internal/apperrors"
)

// DiskStore writes images under dir as <unix-millis><ext>.
type DiskStore struct {
	dir string
	now func() time.Time
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, now: time.Now}, nil
}

func (d *DiskStore) Dir() string {
	return d.dir
}

func (d *DiskStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext, err := validate(file)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.NewInternalError("failed to open upload", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", d.now().UnixMilli(), ext)
	dst, err := os.OpenFile(filepath.Join(d.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", apperrors.NewInternalError("failed to create image file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", apperrors.NewInternalError("failed to write image file", err)
	}
	return name, nil
}
