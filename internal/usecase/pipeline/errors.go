package pipeline

import "errors"

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")

	// ErrNoSource marks an asset with no resolvable source key.
	ErrNoSource = errors.New("asset has no source or storage path")
)
