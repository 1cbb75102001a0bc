package storage

import (
	"bytes"
	"fmt"
	"panchayath_go/config"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

type StorageService struct {
	s3Client *s3.S3
	bucket   string
}

// NewStorageService creates a new storage service
func NewStorageService() (*StorageService, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AppConfig.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			config.AppConfig.AWSAccessKeyID,
			config.AppConfig.AWSSecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		bucket:   config.AppConfig.S3BucketName,
	}, nil
}

// UploadBytes uploads raw content to S3 under a dated, uniquified key
// and returns the public URL. Used for archiving generated exports.
func (s *StorageService) UploadBytes(data []byte, folder, filename, contentType string) (string, error) {
	now := time.Now()
	randomID := uuid.New().String()[:16]
	key := fmt.Sprintf("%s/%d/%02d/%02d/%s_%s",
		folder,
		now.Year(),
		now.Month(),
		now.Day(),
		randomID,
		filename,
	)

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.bucket,
		config.AppConfig.AWSRegion,
		key,
	)
	return url, nil
}

// DeleteFile deletes an archived object by its public URL
func (s *StorageService) DeleteFile(fileURL string) error {
	key := s.extractKeyFromURL(fileURL)
	if key == "" {
		return fmt.Errorf("invalid file URL")
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// extractKeyFromURL extracts the S3 key from a public URL
func (s *StorageService) extractKeyFromURL(fileURL string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, config.AppConfig.AWSRegion)
	if strings.HasPrefix(fileURL, prefix) {
		return strings.TrimPrefix(fileURL, prefix)
	}
	return ""
}
