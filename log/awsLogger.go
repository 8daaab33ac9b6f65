package log

import (
	"github.com/aws/smithy-go/logging"
	"go.uber.org/zap"
)

type awsLogger struct {
	logger Logger
}

func (l awsLogger) Logf(classification logging.Classification, template string, args ...interface{}) {
	switch classification {
	case logging.Debug:
		l.logger.Debugf(template, args...)
	case logging.Warn:
		l.logger.Warnf(template, args...)
	default:
		l.logger.Infof(template, args...)
	}
}

// GetAwsLogger adapts the current default logger for the AWS SDK.
func GetAwsLogger() logging.Logger {
	return awsLogger{
		// Add one skipped frame for this logger
		logger: Default().With("aws_sdk", true).WithOptions(zap.AddCallerSkip(1)),
	}
}
