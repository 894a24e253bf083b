package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// ObjectPutter is the part of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads archives to <prefix><session>/<file> so url_root can point at the bucket.
type S3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Publisher builds an S3 client from cfg. Static keys are used when set, otherwise the
// default credential chain.
func NewS3Publisher(ctx context.Context, cfg types.S3PublishConfig) (*S3Publisher, error) {
	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3PublisherWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3PublisherWithClient wraps an existing client.
func NewS3PublisherWithClient(client ObjectPutter, bucket, prefix string) *S3Publisher {
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Key returns the object key of a session archive.
func (p *S3Publisher) Key(sessionID, fileName string) string {
	return p.prefix + path.Join(sessionID, fileName)
}

// Publish uploads archivePath.
func (p *S3Publisher) Publish(ctx context.Context, sessionID, archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}

	key := p.Key(sessionID, filepath.Base(archivePath))
	start := time.Now()
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("application/zip"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	tool.DefaultLogger.Infof("[Archive] Published s3://%s/%s in %v", p.bucket, key, time.Since(start))
	return nil
}
