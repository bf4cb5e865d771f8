package thumbnail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Resolver hands out presigned GET URLs for thumbnails kept in S3.
type s3Resolver struct {
	presigner *s3.PresignClient
	bucket    string
	prefix    string
	expiry    time.Duration
	logger    zerolog.Logger
}

// NewS3Resolver creates an S3-backed resolver using the default AWS
// credential chain.
func NewS3Resolver(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (Resolver, error) {
	logger = logger.With().Str("component", "s3-thumbnail-resolver").Logger()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Msg("S3 thumbnail resolver initialised")

	return NewS3ResolverWithClient(s3.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewS3ResolverWithClient creates an S3-backed resolver on an existing client.
func NewS3ResolverWithClient(client *s3.Client, cfg config.S3Config, logger zerolog.Logger) Resolver {
	return &s3Resolver{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		expiry:    cfg.PresignExpiry,
		logger:    logger,
	}
}

func (r *s3Resolver) Resolve(ctx context.Context, key string) (string, error) {
	objectKey := r.prefix + strings.TrimLeft(key, "/")

	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("bucket", r.bucket).
			Str("key", objectKey).
			Msg("failed to presign thumbnail")
		return "", fmt.Errorf("failed to presign thumbnail (bucket=%s, key=%s): %w", r.bucket, objectKey, err)
	}

	return req.URL, nil
}
