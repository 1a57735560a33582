// Package backup uploads dated snapshots of the study document to a
// DigitalOcean Spaces bucket.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/sahilchouksey/sage-api/store"
)

// SpacesConfig holds configuration for the Spaces client
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	Prefix    string
}

// Service uploads backups of the study document to Spaces
type Service struct {
	s3Client *s3.S3
	store    *store.Store
	bucket   string
	prefix   string
}

// NewService creates a backup service against an S3-compatible endpoint
func NewService(config SpacesConfig, st *store.Store) (*Service, error) {
	// Create AWS session with DigitalOcean Spaces endpoint
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
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = "backups"
	}

	return &Service{
		s3Client: s3.New(sess),
		store:    st,
		bucket:   config.Bucket,
		prefix:   prefix,
	}, nil
}

// Run exports the current document and uploads it under a dated key,
// recording the backup time in settings on success.
func (s *Service) Run(ctx context.Context) (string, error) {
	data, err := s.store.Export(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now()
	key := fmt.Sprintf("%s/%s", s.prefix, store.ExportFilename(now))

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(bytes.NewReader(data)),
		ACL:         aws.String("private"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	if err := s.store.MarkBackup(ctx, now); err != nil {
		return key, err
	}
	return key, nil
}

// List returns the keys of existing backups, newest last.
func (s *Service) List(ctx context.Context) ([]string, error) {
	result, err := s.s3Client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + "/"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var keys []string
	for _, obj := range result.Contents {
		keys = append(keys, *obj.Key)
	}
	return keys, nil
}

// Download fetches a previously uploaded backup payload.
func (s *Service) Download(ctx context.Context, key string) ([]byte, error) {
	result, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download backup: %w", err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read backup body: %w", err)
	}
	return buf.Bytes(), nil
}
