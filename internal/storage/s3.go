package storage

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/config"
)

// s3CoverStorage implements CoverStorage against an S3-compatible bucket.
type s3CoverStorage struct {
	presignClient *s3.PresignClient
	bucketName    string
}

// NewS3CoverStorage creates a cover storage backed by the configured
// bucket. S3-compatible providers (MinIO, Spaces) are supported through
// the custom endpoint.
func NewS3CoverStorage(cfg config.S3Config) (CoverStorage, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	// Path-style addressing is required by most S3-compatible services.
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Printf("Cover storage initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &s3CoverStorage{
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
	}, nil
}

// CoverURL returns a presigned GET URL for the focus category's cover.
func (s *s3CoverStorage) CoverURL(ctx context.Context, focus string) (string, error) {
	presignParams := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(CoverObjectKey(focus)),
	}

	req, err := s.presignClient.PresignGetObject(ctx, presignParams, s3.WithPresignExpires(DefaultPresignedURLExpiry))
	if err != nil {
		log.Printf("ERROR: Failed to generate presigned GET URL for focus '%s': %v", focus, err)
		return "", err
	}

	return req.URL, nil
}
