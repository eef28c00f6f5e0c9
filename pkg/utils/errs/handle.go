package errs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs err with the values attached by goerr and reports it to Sentry.
// Reporting is a no-op until sentry.Init has been called with a DSN.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	attrs := []any{slog.String("error", err.Error())}
	seen := map[string]struct{}{}
	for e := err; e != nil; e = errors.Unwrap(e) {
		ge, ok := e.(*goerr.Error)
		if !ok {
			continue
		}
		// outer values win
		for k, v := range ge.Values() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			attrs = append(attrs, slog.Any(k, v))
		}
	}

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		evID := hub.CaptureException(err)
		if evID != nil {
			attrs = append(attrs, slog.String("sentry_event_id", string(*evID)))
		}
	}

	ctxlog.From(ctx).Error("Error occurred", attrs...)
}
