// internal/common/aws/s3.go
package aws

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client used here; tests substitute a mock.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Client struct {
	client S3API
	bucket string
}

// NewS3Client builds a path-style client; endpoint overrides the AWS endpoint for S3-compatible stores.
func NewS3Client(cfg aws.Config, bucket, endpoint string) *S3Client {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &S3Client{client: client, bucket: bucket}
}

func NewS3ClientWith(api S3API, bucket string) *S3Client {
	return &S3Client{client: api, bucket: bucket}
}

// Upload stores body under key and returns the s3:// location.
func (c *S3Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", c.bucket, key), nil
}
