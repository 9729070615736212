package notify

import (
	"context"

	"github.com/maisonlumiere/storefront-client/pkg/logger"
)

// Notifier receives the user-facing feedback the stores emit: successful
// mutations and dismissable failures. UI layers plug in their own
// implementation; aborts never reach it.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// LogNotifier routes notifications to the structured logger. It is the
// default sink for headless use and tests.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Success(ctx context.Context, message string) {
	if n == nil || n.logg == nil {
		return
	}
	n.logg.Info(n.logg.WithField(ctx, "notification", "success"), message)
}

func (n *LogNotifier) Error(ctx context.Context, message string) {
	if n == nil || n.logg == nil {
		return
	}
	n.logg.Warn(n.logg.WithField(ctx, "notification", "error"), message)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(_ context.Context, message string) {
	r.Successes = append(r.Successes, message)
}

func (r *Recorder) Error(_ context.Context, message string) {
	r.Errors = append(r.Errors, message)
}
