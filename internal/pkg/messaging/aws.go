package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type AWSOptions struct {
	Region string
	// Endpoint routes SQS calls to a local emulator such as LocalStack and
	// switches to static test credentials.
	Endpoint string
}

// NewSQSClient loads the AWS configuration and builds an SQS client.
func NewSQSClient(ctx context.Context, opts AWSOptions) (*sqs.Client, error) {
	loadOpts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(opts.Region)}
	if opts.Endpoint != "" {
		slog.Info("Routing SQS calls to custom endpoint", "endpoint", opts.Endpoint)
		loadOpts = append(loadOpts,
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		)
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}
