package secrets

import (
	"context"
	"sync"

	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const currentVersionStage = "AWSCURRENT"

// Client is the part of the Secrets Manager API used to read secrets.
type Client interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var secretsClient *secretsmanager.Client
var secretsClientLock sync.Mutex

func getSecretsManagerClient(ctx context.Context) (Client, stackerr.Error) {
	secretsClientLock.Lock()
	defer secretsClientLock.Unlock()
	if secretsClient != nil {
		return secretsClient, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithLogger(log.GetAwsLogger()))
	if err != nil {
		return nil, stackerr.Wrap(err)
	}
	secretsClient = secretsmanager.NewFromConfig(cfg)
	return secretsClient, nil
}

// GetSecret gets the current version of a secret, by name or ARN, as a string.
func GetSecret(ctx context.Context, secretId string) (string, stackerr.Error) {
	client, err := getSecretsManagerClient(ctx)
	if err != nil {
		return "", err
	}
	return GetSecretWithClient(ctx, client, secretId)
}

func GetSecretWithClient(ctx context.Context, client Client, secretId string) (string, stackerr.Error) {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretId),
		VersionStage: aws.String(currentVersionStage),
	})
	if err != nil {
		return "", stackerr.Wrap(err).With(map[string]any{
			"secret_id": secretId,
		})
	}

	// Depending on whether the secret is a string or binary, one of these fields will be populated.
	// The SDK has already base64-decoded SecretBinary.
	if result.SecretString != nil {
		return *result.SecretString, nil
	}
	if result.SecretBinary != nil {
		return string(result.SecretBinary), nil
	}
	return "", stackerr.Errorf("Secret '%s' has no value", secretId)
}
