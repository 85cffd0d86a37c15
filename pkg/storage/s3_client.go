package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Client stores and removes objects in a bucket
type S3Client interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader) error
	Delete(ctx context.Context, bucket, key string) error
}

// S3Config selects the region, credentials and endpoint.
// Without keys the default AWS credential chain is used.
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Endpoint     string // S3-compatible storage such as MinIO
	UsePathStyle bool
}

type s3Client struct {
	client   *s3.Client
	uploader *manager.Uploader
	logger   *zap.Logger
}

// NewS3Client creates an S3 client from cfg
func NewS3Client(ctx context.Context, cfg S3Config, logger *zap.Logger) (S3Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	region := cfg.Region
	if region == "" {
		region = "eu-west-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, errors.New("both access key and secret key are required")
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &s3Client{
		client:   client,
		uploader: manager.NewUploader(client),
		logger:   logger,
	}, nil
}

func (c *s3Client) Upload(ctx context.Context, bucket, key string, body io.Reader) error {
	out, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	c.logger.Debug("Object uploaded",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.String("location", out.Location),
	)
	return nil
}

func (c *s3Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
