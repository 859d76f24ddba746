package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// LoadSSM overlays every parameter stored under prefix in AWS SSM Parameter
// Store onto config. /portal/prod/db_password becomes DB_PASSWORD. Values
// already present in config are kept.
func LoadSSM(ctx context.Context, config map[string]string, prefix string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	return loadParameters(ctx, ssm.NewFromConfig(awsCfg), config, prefix)
}

func loadParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, config map[string]string, prefix string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("get parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			key := parameterKey(aws.ToString(p.Name))
			if key == "" {
				continue
			}
			if _, ok := config[key]; ok {
				continue
			}
			config[key] = aws.ToString(p.Value)
		}
	}
	return nil
}

func parameterKey(name string) string {
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(base, "-", "_"))
}
