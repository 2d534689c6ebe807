package storage

import (
	"context"
	"time"
)

// ArchiveStorage defines the narrow contract the core needs from object storage.
// The service never touches archive bytes; it only issues presigned URLs after
// the entitlement check passed.
type ArchiveStorage interface {
	// PresignDownload returns a time-limited GET URL for an archive key.
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PresignUpload returns a time-limited PUT URL for an archive key.
	PresignUpload(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)

	// Exists checks whether an archive has actually been uploaded.
	Exists(ctx context.Context, key string) (bool, error)
}
