package grpc

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/taxiikeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- test logger ----

type entry struct {
	msg  string
	args []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (r *recordingLogger) record(msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{msg: msg, args: args})
}

func (r *recordingLogger) Debug(_ context.Context, msg string, args ...any) { r.record(msg, args) }
func (r *recordingLogger) Info(_ context.Context, msg string, args ...any)  { r.record(msg, args) }
func (r *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { r.record(msg, args) }
func (r *recordingLogger) Error(_ context.Context, msg string, args ...any) { r.record(msg, args) }
func (r *recordingLogger) With(...any) logging.Logger                       { return r }

func argValue(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	return nil
}

func TestInterceptor_PassesThroughAndLogs(t *testing.T) {
	log := &recordingLogger{}
	s := NewGRPCServer("127.0.0.1:0", log)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}

	last := log.entries[len(log.entries)-1]
	if argValue(last.args, "method") != info.FullMethod {
		t.Fatalf("method not logged: %+v", last)
	}
	if argValue(last.args, "code") != codes.OK.String() {
		t.Fatalf("code not logged: %+v", last)
	}
}

func TestInterceptor_ReportsErrorCode(t *testing.T) {
	log := &recordingLogger{}
	s := NewGRPCServer("127.0.0.1:0", log)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	wantErr := status.Error(codes.NotFound, "unknown service")
	h := func(ctx context.Context, req any) (any, error) {
		return nil, wantErr
	}

	_, err := s.loggingInterceptor(context.Background(), nil, info, h)
	if !errors.Is(err, wantErr) {
		t.Fatalf("error not propagated: %v", err)
	}

	last := log.entries[len(log.entries)-1]
	if argValue(last.args, "code") != codes.NotFound.String() {
		t.Fatalf("code not logged: %+v", last)
	}
}
