package lambda

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaFromContext(t *testing.T) {
	_, err := MetaFromContext(context.Background())
	assert.Error(t, err)

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{
		AwsRequestID:       "req-1",
		InvokedFunctionArn: "arn:aws:lambda:ca-central-1:123456789012:function:exponentiator",
	})
	meta, err := MetaFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-1", meta.RequestId)
	assert.Equal(t, "ca-central-1", meta.Region)
	assert.Equal(t, "123456789012", meta.AccountId)
}

func TestRequestIdLogStreamUrl(t *testing.T) {
	u := RequestIdLogStreamUrlFromMeta(LambdaMeta{
		Region:        "ca-central-1",
		LogGroupName:  "/aws/lambda/exponentiator",
		LogStreamName: "2026/10/19/[$LATEST]abc",
		RequestId:     "req-1",
	})
	assert.True(t, strings.HasPrefix(u, "https://ca-central-1.console.aws.amazon.com/cloudwatch/home?region=ca-central-1#logsV2:log-groups/log-group/"))
	assert.Contains(t, u, "$252Faws$252Flambda$252Fexponentiator")
	assert.Contains(t, u, "req-1")
	assert.NotContains(t, u, "%")
}
