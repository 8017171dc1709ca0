package econnect

import (
	"context"
	"sync"
	"testing"

	"github.com/jmehdipour/econnect-gateway/internal/soap"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Operation string
	Params    soap.Params
}

// fakeTransport records requests and answers from a per-operation table.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []recordedCall
	replies map[string]soap.Object
	errs    map[string]error
	def     func(op string) (soap.Object, error)
}

func (f *fakeTransport) Call(ctx context.Context, operation string, params soap.Params) (soap.Object, error) {
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Operation: operation, Params: params})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[operation]; ok {
		return nil, err
	}
	if obj, ok := f.replies[operation]; ok {
		return obj, nil
	}
	if f.def != nil {
		return f.def(operation)
	}
	return soap.Object{}, nil
}

func (f *fakeTransport) last(t *testing.T) recordedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "no remote call recorded")
	return f.calls[len(f.calls)-1]
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() Config {
	return Config{
		Mode:            ModeStaging,
		SenderReference: "sender",
		AccessCode:      "secret",
		CustomerNumber:  "4711",
		CustomerUser:    "jane",
		CustomerBranch:  "billing",
	}
}

func newTestGateway(t *testing.T, ft *fakeTransport, opts ...Option) *Gateway {
	t.Helper()
	g, err := New(context.Background(), testConfig(), append([]Option{WithTransport(ft)}, opts...)...)
	require.NoError(t, err)
	return g
}
