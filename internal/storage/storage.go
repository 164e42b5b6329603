package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// photoPrefix is the key prefix of every stored progress photo.
const photoPrefix = "members/"

var ErrUnsupportedContentType = errors.New("unsupported photo content type")

// PhotoStorage defines the object storage operations used for progress photos.
type PhotoStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

// PhotoObjectKey builds a fresh key members/{memberID}/{uuid}.{ext} for an
// image of the given content type.
func PhotoObjectKey(memberID, contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	ext := strings.TrimPrefix(ct, "image/")
	switch ext {
	case "jpeg":
		ext = "jpg"
	case "svg+xml":
		ext = "svg"
	case "":
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return path.Join(strings.TrimSuffix(photoPrefix, "/"), memberID, uuid.NewString()+"."+ext), nil
}

// IsObjectKey reports whether a stored photo reference names an object in
// the bucket rather than an external or inline URL.
func IsObjectKey(photoRef string) bool {
	return strings.HasPrefix(photoRef, photoPrefix)
}
