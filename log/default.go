package log

import (
	"context"
	"sync"

	awslambda "github.com/Invicton-Labs/go-exponent/aws/lambda"
	"github.com/Invicton-Labs/go-exponent/collections"
	"go.uber.org/zap/zapcore"
)

var defaultLogger Logger
var defaultLoggerLock sync.Mutex

var Debugf func(template string, args ...interface{})
var Infof func(template string, args ...interface{})
var Warnf func(template string, args ...interface{})
var Errorf func(template string, args ...interface{})
var Fatalf func(template string, args ...interface{})

var Debugw func(msg string, keysAndValues ...interface{})
var Infow func(msg string, keysAndValues ...interface{})
var Warnw func(msg string, keysAndValues ...interface{})
var Errorw func(msg string, keysAndValues ...interface{})
var Fatalw func(msg string, keysAndValues ...interface{})

var Error func(err error)
var Fatal func(err error)

var With func(args ...interface{}) Logger
var WithError func(err error) Logger

func init() {
	InitDefault(NewInput{
		Level: zapcore.InfoLevel,
	})
}

// Default returns the current global default logger.
func Default() Logger {
	defaultLoggerLock.Lock()
	defer defaultLoggerLock.Unlock()
	return defaultLogger
}

// InitDefault will create a new logger with the given settings
// and will set it as the default global logger. This function
// IS NOT thread-safe and cannot be used while other routines
// are using the package-level logging functions.
func InitDefault(input NewInput) {
	defaultLoggerLock.Lock()
	defer defaultLoggerLock.Unlock()

	defaultLogger = New(input)

	Debugf = defaultLogger.Debugf
	Infof = defaultLogger.Infof
	Warnf = defaultLogger.Warnf
	Errorf = defaultLogger.Errorf
	Fatalf = defaultLogger.Fatalf

	Debugw = defaultLogger.Debugw
	Infow = defaultLogger.Infow
	Warnw = defaultLogger.Warnw
	Errorw = defaultLogger.Errorw
	Fatalw = defaultLogger.Fatalw

	Error = defaultLogger.Error
	Fatal = defaultLogger.Fatal

	With = defaultLogger.With
	WithError = defaultLogger.WithError
}

// SweetenDefaultLogger will add fields to the default logger.
func SweetenDefaultLogger(fields map[string]any) {
	input := Default().Config()
	input.InitialFields = collections.MergeMaps(input.InitialFields, fields)
	InitDefault(input)
}

// SweetenDefaultLoggerForLambda will add Lambda metadata fields (request ID and logs URL) to the
// default logger, as well as any additional fields in the `fields` parameter.
// If this is not executed within a Lambda function, only `fields` are added and
// false is returned.
func SweetenDefaultLoggerForLambda(ctx context.Context, fields map[string]any) (inLambda bool) {
	input := Default().Config()
	lambdaFields := map[string]any{}
	lambdaMeta, err := awslambda.MetaFromContext(ctx)
	if err == nil {
		inLambda = true
		lambdaFields["request_id"] = lambdaMeta.RequestId
		lambdaFields["logs_url"] = awslambda.RequestIdLogStreamUrlFromMeta(lambdaMeta)
	}
	input.InitialFields = collections.MergeMaps(input.InitialFields, lambdaFields, fields)
	InitDefault(input)
	return inLambda
}

// UnsweetenDefaultLogger will remove fields from the default logger.
func UnsweetenDefaultLogger(fieldKeys []string) {
	input := Default().Config()
	needsUpdate := false
	for _, key := range fieldKeys {
		if _, ok := input.InitialFields[key]; ok {
			needsUpdate = true
			delete(input.InitialFields, key)
		}
	}
	if needsUpdate {
		InitDefault(input)
	}
}
