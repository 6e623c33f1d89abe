package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"GroveWorld/internal/shared/serverconfig"
)

// Open builds an S3 client (AWS or any S3 compatible endpoint such as MinIO).
// Credentials come from the default chain.
func Open(ctx context.Context, cfg serverconfig.S3Config, l *zap.Logger) (*s3.Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if l == nil {
		l = zap.NewNop()
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	l.Info("open s3 success",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", region),
		zap.String("endpoint", cfg.Endpoint),
	)
	return client, nil
}
