package secrets

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/google/uuid"
)

// SecretsManagerAPI is the subset of the Secrets Manager client in use.
type SecretsManagerAPI interface {
	CreateSecret(ctx context.Context, in *secretsmanager.CreateSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	DeleteSecret(ctx context.Context, in *secretsmanager.DeleteSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
}

// AWSSealer stores each secret in AWS Secrets Manager; only the ARN is
// persisted.
type AWSSealer struct {
	client SecretsManagerAPI
	prefix string
}

func NewAWSSealer(client SecretsManagerAPI, prefix string) *AWSSealer {
	return &AWSSealer{client: client, prefix: prefix}
}

// NewAWSSealerFromEnv loads the default AWS credential chain for region.
func NewAWSSealerFromEnv(ctx context.Context, region, prefix string) (*AWSSealer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewAWSSealer(secretsmanager.NewFromConfig(cfg), prefix), nil
}

func (s *AWSSealer) Seal(ctx context.Context, tenantID, name, plaintext string) (Sealed, error) {
	out, err := s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(path.Join(s.prefix, tenantID, name, uuid.NewString())),
		SecretString: aws.String(plaintext),
		Tags: []types.Tag{
			{Key: aws.String("tenantId"), Value: aws.String(tenantID)},
		},
	})
	if err != nil {
		return Sealed{}, fmt.Errorf("create secret: %w", err)
	}
	return Sealed{Ref: aws.ToString(out.ARN)}, nil
}

func (s *AWSSealer) Open(ctx context.Context, _ string, sealed Sealed) (string, error) {
	if sealed.Ref == "" {
		return "", ErrInvalidSecret
	}
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(sealed.Ref)})
	if err != nil {
		return "", fmt.Errorf("get secret: %w", err)
	}
	if out.SecretString == nil {
		return "", ErrInvalidSecret
	}
	return *out.SecretString, nil
}

func (s *AWSSealer) Destroy(ctx context.Context, _ string, sealed Sealed) error {
	if sealed.Ref == "" {
		return nil
	}
	_, err := s.client.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(sealed.Ref),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	return nil
}
