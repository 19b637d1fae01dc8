package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	catalogconfig "github.com/imrishuroy/go-catalog/internal/config"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// LoadAWSConfig resolves the shared AWS config. EndpointOverride points every
// client at a local emulator (DynamoDB Local, LocalStack).
func LoadAWSConfig(ctx context.Context, c catalogconfig.AWSConfig) (sdkaws.Config, error) {
	region := c.Region
	if region == "" {
		region = DefaultRegion // default fallback
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if c.EndpointOverride != "" {
		opts = append(opts, config.WithBaseEndpoint(c.EndpointOverride))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}
