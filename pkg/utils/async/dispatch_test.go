package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/utils/async"
)

// logSink collects error logs and signals each written record
type logSink struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	written chan struct{}
}

func newLogSink() *logSink {
	return &logSink{written: make(chan struct{}, 8)}
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.buf.Write(p)
	select {
	case s.written <- struct{}{}:
	default:
	}
	return n, err
}

func (s *logSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *logSink) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.written:
	case <-time.After(time.Second):
		t.Fatal("log was not written within timeout")
	}
}

func (s *logSink) context() context.Context {
	logger := slog.New(slog.NewTextHandler(s, &slog.HandlerOptions{Level: slog.LevelError}))
	return ctxlog.With(context.Background(), logger)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not complete within timeout")
	}
}

func TestDispatch_Runs(t *testing.T) {
	done := make(chan struct{})
	async.Dispatch(context.Background(), func(ctx context.Context) error {
		close(done)
		return nil
	})
	waitDone(t, done)
}

func TestDispatch_ReportsError(t *testing.T) {
	sink := newLogSink()

	async.Dispatch(sink.context(), func(ctx context.Context) error {
		return goerr.Wrap(errors.New("api down"), "failed to add labels", goerr.V("number", 12))
	})
	sink.wait(t)

	out := sink.String()
	gt.String(t, out).Contains("error in async handler")
	gt.String(t, out).Contains("api down")
	gt.String(t, out).Contains("number=12")
}

func TestDispatch_RecoversPanic(t *testing.T) {
	sink := newLogSink()

	async.Dispatch(sink.context(), func(ctx context.Context) error {
		panic("test panic with stack")
	})
	sink.wait(t)

	out := sink.String()
	gt.String(t, out).Contains("Error occurred")
	gt.String(t, out).Contains("panic in async handler")
	gt.String(t, out).Contains("recover=\"test panic with stack\"")
	gt.String(t, out).Contains("stack=")
	gt.String(t, out).Contains("dispatch_test.go")
}

func TestDispatch_DetachedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(model.WithRunID(context.Background(), "run-1"))

	type observed struct {
		runID     string
		cancelled bool
	}
	got := make(chan observed, 1)

	async.Dispatch(ctx, func(newCtx context.Context) error {
		cancel()
		o := observed{runID: model.RunID(newCtx)}
		select {
		case <-newCtx.Done():
			o.cancelled = true
		default:
		}
		got <- o
		return nil
	})

	select {
	case o := <-got:
		gt.Equal(t, o.runID, "run-1")
		gt.False(t, o.cancelled)
	case <-time.After(time.Second):
		t.Fatal("handler did not complete within timeout")
	}
}
