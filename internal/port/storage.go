package port

import "context"

// Storage abstracts the durable blob store plus the local working-directory
// cache in front of it.
type Storage interface {
	// EnsureLocalCopy returns a path to a local copy of the object,
	// downloading it into the working cache when not already present.
	EnsureLocalCopy(ctx context.Context, fileKey string) (string, error)
	// UploadFromFile streams a local file into the durable store under fileKey.
	UploadFromFile(ctx context.Context, fileKey, localPath, contentType string) error
	RemoveFile(ctx context.Context, fileKey string) error
	// NormalizeKey normalizes slashes and strips any leading slash.
	NormalizeKey(fileKey string) string
}
