package blobstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// UploadObject uploads data to bucketName/objectKey, creating the bucket
// first if it does not already exist. It returns the object key, which
// callers keep around as the handle for a later presigned-URL fetch.
func (creds *Credentials) UploadObject(ctx context.Context, bucketName, objectKey string, data []byte, contentType string) (string, error) {
	client, err := creds.NewMinioClient()
	if err != nil {
		return "", fmt.Errorf("creating S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return "", fmt.Errorf("checking bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("creating bucket %s: %w", bucketName, err)
		}
	}

	_, err = client.PutObject(ctx, bucketName, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading object %s to bucket %s: %w", objectKey, bucketName, err)
	}
	return objectKey, nil
}
