package lambda

import (
	"fmt"
	"net/url"
	"strings"
)

// CloudWatch console fragments are double path-escaped with '%' replaced by '$'.
func consoleEscape(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), "%", "$")
}

func FilteredLogStreamUrl(region string, group string, stream string, filter string) string {
	logGroup := consoleEscape(url.PathEscape(group))
	logStreamParam := fmt.Sprintf("%s?filterPattern=%s", url.QueryEscape(stream), url.QueryEscape(filter))
	return fmt.Sprintf("https://%s.console.aws.amazon.com/cloudwatch/home?region=%s#logsV2:log-groups/log-group/%s/log-events/%s", region, region, logGroup, consoleEscape(logStreamParam))
}

// RequestIdLogStreamUrlFromMeta links to the log stream of the invocation,
// filtered down to the lines that mention its request ID.
func RequestIdLogStreamUrlFromMeta(meta LambdaMeta) string {
	return FilteredLogStreamUrl(meta.Region, meta.LogGroupName, meta.LogStreamName, fmt.Sprintf("\"%s\"", meta.RequestId))
}
