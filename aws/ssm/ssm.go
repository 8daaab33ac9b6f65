package ssm

import (
	"context"
	"strings"
	"sync"

	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go/aws/arn"
)

// Client is the part of the SSM API used to read parameters.
type Client interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

var ssmClient *ssm.Client
var ssmClientLock sync.Mutex

func newSsmClient(ctx context.Context, region *string) (*ssm.Client, stackerr.Error) {
	opts := []func(*config.LoadOptions) error{
		config.WithLogger(log.GetAwsLogger()),
	}
	if region != nil {
		opts = append(opts, config.WithRegion(*region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, stackerr.Wrap(err)
	}
	return ssm.NewFromConfig(cfg), nil
}

func getSsmClient(ctx context.Context, region *string) (Client, stackerr.Error) {
	// If a region is specified, create a client specifically
	// for that region
	if region != nil {
		client, err := newSsmClient(ctx, region)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	ssmClientLock.Lock()
	defer ssmClientLock.Unlock()
	if ssmClient != nil {
		return ssmClient, nil
	}
	client, err := newSsmClient(ctx, nil)
	if err != nil {
		return nil, err
	}
	ssmClient = client
	return ssmClient, nil
}

// ParseParameterName accepts either a plain parameter name or a parameter
// ARN. For ARNs, the region of the ARN is returned as well.
func ParseParameterName(parameter string) (name string, region *string, err stackerr.Error) {
	if !arn.IsARN(parameter) {
		return parameter, nil, nil
	}
	a, perr := arn.Parse(parameter)
	if perr != nil {
		return "", nil, stackerr.Wrap(perr)
	}
	resourcePrefix := "parameter/"
	if !strings.HasPrefix(strings.ToLower(a.Resource), resourcePrefix) {
		return "", nil, stackerr.Errorf("SSM parameter ARN resource does not begin with 'parameter/': %s", parameter)
	}
	return a.Resource[len(resourcePrefix)-1:], &a.Region, nil
}

// GetSsmParameter reads a (decrypted) parameter value by name or ARN.
func GetSsmParameter(ctx context.Context, parameter string) (string, stackerr.Error) {
	name, region, err := ParseParameterName(parameter)
	if err != nil {
		return "", err
	}
	client, err := getSsmClient(ctx, region)
	if err != nil {
		return "", err
	}
	return GetSsmParameterWithClient(ctx, client, name)
}

func GetSsmParameterWithClient(ctx context.Context, client Client, name string) (string, stackerr.Error) {
	param, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", stackerr.Wrap(err).With(map[string]any{
			"parameter": name,
		})
	}
	if param.Parameter == nil || param.Parameter.Value == nil {
		return "", stackerr.Errorf("SSM parameter '%s' has no value", name)
	}
	return *param.Parameter.Value, nil
}
