package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ArchiveStorage keeps copies of generated export documents.
type ArchiveStorage interface {
	// UploadArchive uploads a document and returns its secure URL.
	UploadArchive(ctx context.Context, r io.Reader, fileName string) (string, error)
}

type cloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage creates a Cloudinary backed ArchiveStorage.
// cloudinaryURL has the form cloudinary://<api_key>:<api_secret>@<cloud_name>;
// when empty the SDK falls back to the CLOUDINARY_URL environment variable.
func NewCloudinaryStorage(cloudinaryURL, cloudName, folder string) (ArchiveStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cloudinaryURL)
	} else {
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true

	if cloudName != "" {
		cld.Config.Cloud.CloudName = cloudName
	}

	return &cloudinaryStorage{cld: cld, folder: folder}, nil
}

// UploadArchive uploads the document as a raw resource.
func (s *cloudinaryStorage) UploadArchive(ctx context.Context, r io.Reader, fileName string) (string, error) {
	if s == nil || s.cld == nil {
		return "", fmt.Errorf("cloudinary storage is not initialized")
	}

	params := uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       publicID(fileName, time.Now()),
		ResourceType:   "raw",
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload archive to cloudinary: %w", err)
	}

	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

// publicID keeps the extension, raw resources are served by public id.
func publicID(fileName string, now time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(fileName), " ", "_")
	return fmt.Sprintf("%d-%s", now.UnixNano(), name)
}
