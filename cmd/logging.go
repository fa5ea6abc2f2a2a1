package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/smithy-go/logging"
	"github.com/chukul/eventpush/internal"
	"github.com/chukul/eventpush/internal/ui"
)

// sdkLogger forwards AWS SDK client logs to slog.
type sdkLogger struct {
	logger *slog.Logger
}

func (l sdkLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	level := slog.LevelDebug
	if classification == logging.Warn {
		level = slog.LevelWarn
	}
	l.logger.Log(context.Background(), level, fmt.Sprintf(format, v...), "source", "aws-sdk")
}

// withSDKLogging routes client logs to logger. Response logging (headers
// only) is switched on at debug level; requests carry the session token and
// are never logged.
func withSDKLogging(logger *slog.Logger) func(*eventbridge.Options) {
	return func(o *eventbridge.Options) {
		o.Logger = sdkLogger{logger}
		if logger.Enabled(context.Background(), slog.LevelDebug) {
			o.ClientLogMode = aws.LogRetries | aws.LogResponse
		}
	}
}

// spinningPublisher shows a spinner while each put is in flight.
type spinningPublisher struct {
	next internal.EventPublisher
}

func (p spinningPublisher) Publish(ctx context.Context, rec internal.EventRecord) (internal.PublishOutcome, error) {
	return ui.Spin(fmt.Sprintf("Putting event with type '%s'...", rec.DetailType), func() (internal.PublishOutcome, error) {
		return p.next.Publish(ctx, rec)
	})
}
