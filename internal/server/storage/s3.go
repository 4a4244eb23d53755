// Package storage uploads image binaries to an S3-compatible object store
// and resolves their public URLs.
package storage

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"messagewall/internal/server/config"
)

// Seams for tests: the S3 client construction and the put call can be
// swapped without a live backend.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(client *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return client.PutObject(ctx, in)
	}
)

// Uploader stores a binary object under a key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type S3Uploader struct {
	config *config.Config
}

func NewS3Uploader(cfg *config.Config) *S3Uploader {
	return &S3Uploader{config: cfg}
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(u.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.S3RootUser,     // MINIO_ROOT_USER
			u.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload puts the object and returns the public URL it will be served from.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	client, err := u.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := u.config.S3Bucket

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:       &bucket,
		Key:          &key,
		Body:         bytes.NewReader(data),
		ContentType:  &contentType,
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		return "", err
	}

	return u.PublicURL(key), nil
}

// PublicURL resolves the externally reachable URL for an object key.
func (u *S3Uploader) PublicURL(key string) string {
	return strings.TrimRight(u.config.S3PublicBaseURL, "/") + "/" + key
}
