// Package awsconf compartilha uma única aws.Config entre os clientes
// (S3, DynamoDB, SSM e Secrets Manager) usados pelo serviço.
package awsconf

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

var (
	awsCfg  aws.Config
	awsOnce sync.Once
	awsErr  error
)

// Get carrega a configuração da AWS (env vars, profile, IAM role) de forma
// lazy-singleton. A região só é considerada na primeira chamada.
func Get(ctx context.Context, region string) (aws.Config, error) {
	awsOnce.Do(func() {
		opts := []func(*config.LoadOptions) error{}
		if region != "" {
			opts = append(opts, config.WithRegion(region))
		}
		awsCfg, awsErr = config.LoadDefaultConfig(ctx, opts...)
	})
	return awsCfg, awsErr
}
