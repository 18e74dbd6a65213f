package uploader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	cldupload "github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrUploadFailed is returned when the remote image store rejects or fails
// an upload. Post creation must abort before any database write when this
// happens.
var ErrUploadFailed = errors.New("image upload failed")

// ImageUploader sends an in-memory image to a remote store and returns a
// durable URL for it.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, mimeType string) (string, error)
}

// CloudinaryUploader implements ImageUploader against Cloudinary. Images are
// submitted as base64 data URIs under a fixed folder.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader creates an uploader from a CLOUDINARY_URL-style
// connection string.
func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("initializing cloudinary client: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// Upload submits the image and returns its secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, DataURI(data, mimeType), cldupload.UploadParams{
		Folder: u.folder,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// DataURI encodes raw bytes as a data:<mime>;base64,<payload> URI.
func DataURI(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
