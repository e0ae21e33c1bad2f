package services

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// MediaConfig holds configuration for the media storage client
type MediaConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

// MediaService resolves catalog media against an S3-compatible Spaces
// bucket. A nil service (storage not configured) degrades to raw URL
// pass-through in the handlers.
type MediaService struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
}

// NewMediaService creates a new media service
func NewMediaService(config MediaConfig) (*MediaService, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create media storage session: %w", err)
	}

	return &MediaService{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		endpoint: config.Endpoint,
	}, nil
}

// PublicURL returns the public URL for a stored media object
func (s *MediaService) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key)
}

// PresignUpload returns a presigned PUT URL so admins can upload
// university media directly to the bucket.
func (s *MediaService) PresignUpload(key, contentType string, expires time.Duration) (string, error) {
	req, _ := s.s3Client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})

	url, err := req.Presign(expires)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}
	return url, nil
}

// PresignDownload returns a presigned GET URL for a stored object
func (s *MediaService) PresignDownload(key string, expires time.Duration) (string, error) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expires)
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %s: %w", key, err)
	}
	return url, nil
}
