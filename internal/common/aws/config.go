// internal/common/aws/config.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Settings carries the region and optional static credentials for all AWS clients.
type Settings struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadConfig resolves an aws.Config, preferring static keys when both are set.
func LoadConfig(ctx context.Context, s Settings) (aws.Config, error) {
	region := s.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if s.AccessKeyID != "" && s.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
