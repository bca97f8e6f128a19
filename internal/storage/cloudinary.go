package storage

import (
	"context"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/joshua-takyi/jirani/internal/apperrors"
)

const ProviderFolder = "providers"

// CloudinaryStore uploads images to the providers folder and returns the
// secure URL.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld}
}

func (s *CloudinaryStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if _, err := validate(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.NewInternalError("failed to open upload", err)
	}
	defer src.Close()

	result, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder: ProviderFolder,
		Tags:   []string{"jirani"},
	})
	if err != nil {
		return "", apperrors.NewInternalError("failed to upload image", err)
	}
	if result.Error.Message != "" {
		return "", apperrors.NewInternalError("image upload rejected: "+result.Error.Message, nil)
	}
	return result.SecureURL, nil
}
