package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Options struct {
	Bucket string
	Region string
	// Endpoint targets S3-compatible services (MinIO, R2) and switches to
	// path-style addressing.
	Endpoint string
	// PublicPrefix is prepended to keys in returned URLs. Defaults to the
	// bucket's virtual-hosted URL.
	PublicPrefix string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads files to an S3 bucket.
type S3Store struct {
	client       putObjectAPI
	bucket       string
	publicPrefix string
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := opts.PublicPrefix
	if prefix == "" {
		prefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, awsCfg.Region)
	}
	return newS3Store(client, opts.Bucket, prefix), nil
}

func newS3Store(client putObjectAPI, bucket, publicPrefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, publicPrefix: publicPrefix}
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return publicPath(s.publicPrefix, key), nil
}
