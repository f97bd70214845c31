package storage

import (
	"fmt"

	"github.com/fhuszti/media-pipeline-go/internal/usecase/pipeline"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return pipeline.ErrObjectNotFound
	case "NoSuchBucket":
		return pipeline.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return pipeline.ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", pipeline.ErrInternal, err)
	}
}
