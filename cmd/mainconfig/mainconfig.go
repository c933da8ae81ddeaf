// Package mainconfig loads the AWS SDK configuration shared by the binaries.
package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/wolfman30/mediscribe-api/internal/config"
)

// localServices are the clients this API builds; only they follow
// AWS_ENDPOINT_OVERRIDE.
var localServices = map[string]bool{
	dynamodb.ServiceID:       true,
	s3.ServiceID:             true,
	bedrockruntime.ServiceID: true,
}

// LoadAWSConfig resolves region and credentials for the record store, the
// audio archive and Bedrock. Static keys win over the default chain.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if provider, ok := staticCredentials(cfg); ok {
		opts = append(opts, config.WithCredentialsProvider(provider))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}
	if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
		awsCfg.EndpointResolverWithOptions = overrideResolver(endpoint, cfg.AWSRegion)
	}
	return awsCfg, nil
}

func staticCredentials(cfg *appconfig.Config) (aws.CredentialsProvider, bool) {
	id := strings.TrimSpace(cfg.AWSAccessKeyID)
	secret := strings.TrimSpace(cfg.AWSSecretAccessKey)
	if id == "" || secret == "" {
		return nil, false
	}
	return credentials.NewStaticCredentialsProvider(id, secret, ""), true
}

func overrideResolver(endpoint, region string) aws.EndpointResolverWithOptionsFunc {
	return func(service, _ string, _ ...interface{}) (aws.Endpoint, error) {
		if !localServices[service] {
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}
		return aws.Endpoint{
			URL:               endpoint,
			PartitionID:       "aws",
			SigningRegion:     region,
			HostnameImmutable: true,
		}, nil
	}
}
