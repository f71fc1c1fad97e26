package delivery

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is used when neither the config nor the AWS profile names one.
const DefaultRegion = "us-east-1"

// S3Config selects an S3-compatible bucket to deliver into.
type S3Config struct {
	Bucket string
	// Endpoint overrides the AWS endpoint for S3-compatible stores (MinIO,
	// Supabase, ...). Path-style addressing is used when set.
	Endpoint string
	Region   string
	Prefix   string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads payloads to a bucket.
type S3Sink struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Sink builds a sink from the default AWS credential chain.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithDefaultRegion(DefaultRegion)}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Sink(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Sink(client putObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Sink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(s.prefix, name)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
