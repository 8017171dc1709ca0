package econnect

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jmehdipour/econnect-gateway/internal/soap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_ModeSelection(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{mode: "live", want: DefaultEndpoint},
		{mode: "staging", want: DefaultStagingEndpoint},
		{mode: "", want: DefaultStagingEndpoint},
		// unknown modes fall back to live; callers rely on this
		{mode: "bogus", want: DefaultEndpoint},
	}

	for _, tt := range tests {
		t.Run("mode="+tt.mode, func(t *testing.T) {
			g, err := New(context.Background(), Config{Mode: tt.mode, SkipProbe: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Endpoint())
		})
	}
}

func TestNew_DefaultsMode(t *testing.T) {
	g, err := New(context.Background(), Config{SkipProbe: true})
	require.NoError(t, err)
	assert.Equal(t, ModeStaging, g.Mode())
}

func TestNew_CustomEndpoints(t *testing.T) {
	cfg := Config{
		Mode:            ModeLive,
		Endpoint:        "https://live.example.test/API",
		StagingEndpoint: "https://staging.example.test/API",
		SkipProbe:       true,
	}

	g, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://live.example.test/API", g.Endpoint())

	cfg.Mode = ModeStaging
	g, err = New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.test/API", g.Endpoint())
}

func TestNew_TransportInitError(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "malformed", cfg: Config{Mode: ModeLive, Endpoint: "not a url"}},
		{name: "wrong scheme", cfg: Config{Mode: ModeStaging, StagingEndpoint: "ftp://files.example.test/API"}},
		{name: "refused", cfg: Config{Mode: ModeLive, Endpoint: "http://127.0.0.1:1/API"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrTransportInit)

			var tie *TransportInitError
			require.ErrorAs(t, err, &tie)
			assert.Equal(t, tt.cfg.SelectedEndpoint(), tie.Endpoint)
		})
	}
}

func TestNew_RefusedEndpointFailsByDefault(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/API095"
	srv.Close()

	g, err := New(context.Background(), Config{Mode: ModeStaging, StagingEndpoint: endpoint})
	require.Error(t, err)
	assert.Nil(t, g)

	var tie *TransportInitError
	require.ErrorAs(t, err, &tie)
	assert.Equal(t, endpoint, tie.Endpoint)

	// the opt-out defers the failure to the first call
	g, err = New(context.Background(), Config{Mode: ModeStaging, StagingEndpoint: endpoint, SkipProbe: true})
	require.NoError(t, err)
	assert.Equal(t, endpoint, g.Endpoint())
}

func TestNew_ReachesEndpointByDefault(t *testing.T) {
	queries := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case queries <- r.URL.RawQuery:
		default:
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	_, err := New(context.Background(), Config{Mode: ModeLive, Endpoint: srv.URL + "/API095"})
	require.NoError(t, err)
	assert.Equal(t, "wsdl", <-queries)
}

func TestPrepareCommitScenario(t *testing.T) {
	ft := &fakeTransport{replies: map[string]soap.Object{
		OpPrepareProcess: {"portalProcessJobId": "JOB123"},
		OpCommitProcess:  {"portalProcessId": "ORD456"},
	}}
	g := newTestGateway(t, ft)
	require.Equal(t, ModeStaging, g.Mode())
	ctx := context.Background()

	env := g.PrepareProcess(ctx, false, CustomerAttributes{})
	assert.Equal(t, Envelope{Error: 0, Result: "JOB123"}, env)

	jobID, ok := env.String()
	require.True(t, ok)

	env = g.CommitProcess(ctx, jobID)
	assert.Equal(t, Envelope{Error: 0, Result: "ORD456"}, env)

	v, _ := ft.last(t).Params.Get(FieldPortalProcessJobID)
	assert.Equal(t, "JOB123", v)
}

func TestIdempotentReads(t *testing.T) {
	ft := &fakeTransport{replies: map[string]soap.Object{
		OpGetPortalProcessJobById: {"portalProcessJobId": "JOB1", "status": "OK"},
	}}
	g := newTestGateway(t, ft)

	first := g.GetPortalProcessJobByID(context.Background(), "JOB1")
	second := g.GetPortalProcessJobByID(context.Background(), "JOB1")

	assert.Equal(t, first, second)
	assert.Equal(t, 2, ft.count())
}

func TestMissingUnwrapFieldYieldsNil(t *testing.T) {
	ft := &fakeTransport{replies: map[string]soap.Object{
		OpCommitProcess: {"somethingElse": "x"},
	}}
	g := newTestGateway(t, ft)

	env := g.CommitProcess(context.Background(), "JOB")

	assert.Equal(t, 0, env.Error)
	assert.Nil(t, env.Result)
}

func TestTransportErrorKinds(t *testing.T) {
	ft := &fakeTransport{errs: map[string]error{
		OpGetPortalProcessJobById: errors.New("dial tcp: connection refused"),
	}}
	g := newTestGateway(t, ft)

	env := g.GetPortalProcessJobByID(context.Background(), "JOB")

	assert.Equal(t, 1, env.Error)
	assert.Equal(t, "dial tcp: connection refused", env.Result)
	assert.Equal(t, KindTransport, env.Kind())
}

func TestCallTimeout(t *testing.T) {
	block := TransportFunc(func(ctx context.Context, _ string, _ soap.Params) (soap.Object, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := testConfig()
	cfg.CallTimeout = 20 * time.Millisecond

	g, err := New(context.Background(), cfg, WithTransport(block))
	require.NoError(t, err)

	env := g.GetPortalProcessJobByID(context.Background(), "JOB")

	assert.Equal(t, 1, env.Error)
	assert.Equal(t, KindTimeout, env.Kind())
	assert.Equal(t, context.DeadlineExceeded.Error(), env.Message())
}

func TestCallerCancellation(t *testing.T) {
	ft := &fakeTransport{}
	g := newTestGateway(t, ft)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := g.GetPortalDocumentByID(ctx, "DOC")

	assert.True(t, env.Failed())
	assert.Equal(t, KindTimeout, env.Kind())
}

func TestCall_Generic(t *testing.T) {
	ft := &fakeTransport{replies: map[string]soap.Object{
		OpAddPBPInputFileSplitOnFixedPageToPreparedProcess: {"return": "3"},
	}}
	g := newTestGateway(t, ft)

	env := g.Call(context.Background(), OpAddPBPInputFileSplitOnFixedPageToPreparedProcess, Args{
		FieldPortalProcessJobID: "JOB",
		FieldFileAsByteArray:    base64.StdEncoding.EncodeToString(pdf),
		FieldFileName:           "a.pdf",
		FieldPagesPerDocument:   float64(2),
	}, true, CustomerAttributes{AttrPrintColor: PrintColorBlackWhite})

	require.Equal(t, 0, env.Error, env.Result)
	assert.Equal(t, "3", env.Result)

	params := ft.last(t).Params
	v, _ := params.Get(FieldFileAsByteArray)
	assert.Equal(t, pdf, v)
	v, _ = params.Get(FieldPagesPerDocument)
	assert.Equal(t, int64(2), v)
	v, _ = params.Get(FieldCustomerAttributes)
	assert.Equal(t, PrintColorBlackWhite, v.(map[string]string)[AttrPrintColor])
}

func TestCall_Coercion(t *testing.T) {
	ft := &fakeTransport{}
	g := newTestGateway(t, ft)
	ctx := context.Background()

	env := g.Call(ctx, OpSetPortalDocumentStatusCodeByJobIdAndDocumentIds, Args{
		FieldPortalProcessJobID:       "JOB",
		FieldPortalDocumentIDs:        []any{"D1", "D2"},
		FieldPortalDocumentStatusCode: "OK",
	}, false, nil)
	require.False(t, env.Failed(), env.Result)
	v, _ := ft.last(t).Params.Get(FieldPortalDocumentIDs)
	assert.Equal(t, []string{"D1", "D2"}, v)

	env = g.Call(ctx, OpAddPBPInputFileSplitOnFixedPageToPreparedProcess, Args{
		FieldPortalProcessJobID: "JOB",
		FieldFileAsByteArray:    pdf,
		FieldFileName:           "a.pdf",
		FieldPagesPerDocument:   " 4 ",
	}, false, nil)
	require.False(t, env.Failed(), env.Result)
	v, _ = ft.last(t).Params.Get(FieldPagesPerDocument)
	assert.Equal(t, int64(4), v)
}

func TestCall_Validation(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		args    Args
		attrs   bool
		wantMsg string
	}{
		{
			name:    "unknown operation",
			op:      "deleteEverything",
			wantMsg: "deleteEverything: unknown operation",
		},
		{
			name:    "missing field",
			op:      OpCommitProcess,
			args:    Args{},
			wantMsg: "commitProcess: field portalProcessJobId: missing",
		},
		{
			name:    "unknown field",
			op:      OpCommitProcess,
			args:    Args{FieldPortalProcessJobID: "JOB", "portalProcessJobId ": "JOB"},
			wantMsg: "unknown field",
		},
		{
			name: "bad base64",
			op:   OpAddPBPInputSingleFileToPreparedProcess,
			args: Args{
				FieldPortalProcessJobID: "JOB",
				FieldFileAsByteArray:    "***",
				FieldFileName:           "a.pdf",
			},
			wantMsg: "invalid base64",
		},
		{
			name: "fractional int",
			op:   OpAddPBPInputFileSplitOnFixedPageToPreparedProcess,
			args: Args{
				FieldPortalProcessJobID: "JOB",
				FieldFileAsByteArray:    pdf,
				FieldFileName:           "a.pdf",
				FieldPagesPerDocument:   1.5,
			},
			wantMsg: "not an integer",
		},
		{
			name:    "wrong type",
			op:      OpCommitProcess,
			args:    Args{FieldPortalProcessJobID: true},
			wantMsg: "expected string, got bool",
		},
		{
			name:    "attributes not accepted",
			op:      OpCommitProcess,
			args:    Args{FieldPortalProcessJobID: "JOB"},
			attrs:   true,
			wantMsg: "not accepted by this operation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{}
			g := newTestGateway(t, ft)

			env := g.Call(context.Background(), tt.op, tt.args, tt.attrs, nil)

			assert.Equal(t, 1, env.Error)
			assert.Equal(t, KindValidation, env.Kind())
			assert.Contains(t, env.Message(), tt.wantMsg)
			assert.Zero(t, ft.count(), "no remote call on validation failure")
		})
	}
}

func TestStrictAttributes(t *testing.T) {
	ft := &fakeTransport{}
	cfg := testConfig()
	cfg.StrictAttributes = true
	g, err := New(context.Background(), cfg, WithTransport(ft))
	require.NoError(t, err)

	env := g.PrepareProcess(context.Background(), true, CustomerAttributes{AttrPrintColor: "PURPLE"})
	assert.Equal(t, KindValidation, env.Kind())
	assert.Contains(t, env.Message(), "printColor")
	assert.Zero(t, ft.count())

	// unvalidated by default
	g = newTestGateway(t, ft)
	env = g.PrepareProcess(context.Background(), true, CustomerAttributes{AttrPrintColor: "PURPLE"})
	assert.False(t, env.Failed())
	assert.Equal(t, 1, ft.count())
}

func TestObserverAndLogging(t *testing.T) {
	var (
		mu    sync.Mutex
		infos []CallInfo
	)
	obs := ObserverFunc(func(ci CallInfo) {
		mu.Lock()
		infos = append(infos, ci)
		mu.Unlock()
	})
	core, logs := observer.New(zap.DebugLevel)

	ft := &fakeTransport{
		replies: map[string]soap.Object{OpPrepareProcess: {"portalProcessJobId": "JOB1"}},
		errs:    map[string]error{OpCommitProcess: &soap.Fault{Message: "job not prepared"}},
	}
	g := newTestGateway(t, ft, WithObserver(obs), WithLogger(zap.New(core)))
	ctx := context.Background()

	g.PrepareProcess(ctx, false, nil)
	g.CommitProcess(ctx, "JOB1")

	require.Len(t, infos, 2)

	ok := infos[0]
	assert.Equal(t, OpPrepareProcess, ok.Operation)
	assert.Equal(t, ModeStaging, ok.Mode)
	assert.Equal(t, DefaultStagingEndpoint, ok.Endpoint)
	assert.Equal(t, 0, ok.Error)
	assert.Equal(t, "JOB1", ok.Message)
	assert.Len(t, ok.ID, 26)

	failed := infos[1]
	assert.Equal(t, 1, failed.Error)
	assert.Equal(t, KindRemote, failed.Kind)
	assert.Equal(t, "job not prepared", failed.Message)
	assert.NotEqual(t, ok.ID, failed.ID)

	warns := logs.FilterMessage("econnect call failed").All()
	require.Len(t, warns, 1)
	assert.Equal(t, OpCommitProcess, warns[0].ContextMap()["operation"])
	assert.Equal(t, "remote", warns[0].ContextMap()["kind"])
	assert.Equal(t, 1, logs.FilterMessage("econnect call ok").Len())

	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			assert.NotEqual(t, "secret", v, "credentials must not be logged")
		}
	}
}

func TestBreaker_TransportFailuresOpenCircuit(t *testing.T) {
	ft := &fakeTransport{errs: map[string]error{
		OpGetPortalProcessJobById: errors.New("connection reset"),
	}}
	cfg := testConfig()
	cfg.Breaker = BreakerConfig{FailThreshold: 2, OpenFor: time.Minute}
	g, err := New(context.Background(), cfg, WithTransport(ft))
	require.NoError(t, err)
	ctx := context.Background()

	g.GetPortalProcessJobByID(ctx, "JOB")
	g.GetPortalProcessJobByID(ctx, "JOB")
	env := g.GetPortalProcessJobByID(ctx, "JOB")

	assert.Equal(t, Envelope{Error: 1, Result: "econnect: circuit open", kind: KindTransport}, env)
	assert.Equal(t, 2, ft.count())
}

func TestBreaker_FaultsDoNotOpenCircuit(t *testing.T) {
	ft := &fakeTransport{errs: map[string]error{
		OpGetPortalProcessJobById: &soap.Fault{Message: "unknown job"},
	}}
	cfg := testConfig()
	cfg.Breaker = BreakerConfig{FailThreshold: 2, OpenFor: time.Minute}
	g, err := New(context.Background(), cfg, WithTransport(ft))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		env := g.GetPortalProcessJobByID(context.Background(), "JOB")
		assert.Equal(t, "unknown job", env.Result)
	}
	assert.Equal(t, 5, ft.count())
}

func TestConcurrentCalls(t *testing.T) {
	ft := &fakeTransport{def: func(op string) (soap.Object, error) {
		return soap.Object{"op": op}, nil
	}}
	g := newTestGateway(t, ft)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env := g.GetNumberOfDocumentsByPortalProcessJobID(context.Background(), "JOB")
			assert.False(t, env.Failed())
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, ft.count())
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("a", summaryLimit-1) + "€"
	got := summarize(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", summaryLimit-1), got)

	assert.Equal(t, "JOB1", summarize("JOB1"))
	assert.Equal(t, "", summarize(nil))
	assert.Equal(t, "object(2 fields)", summarize(soap.Object{"a": "1", "b": "2"}))
	assert.Equal(t, "list(3 items)", summarize([]any{1, 2, 3}))
}
