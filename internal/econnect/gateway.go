package econnect

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/soap"
	"github.com/jmehdipour/econnect-gateway/internal/util"
	"go.uber.org/zap"
)

// Transport performs one remote operation. *soap.Client satisfies it; tests
// inject their own.
type Transport interface {
	Call(ctx context.Context, operation string, params soap.Params) (soap.Object, error)
}

type TransportFunc func(ctx context.Context, operation string, params soap.Params) (soap.Object, error)

func (f TransportFunc) Call(ctx context.Context, operation string, params soap.Params) (soap.Object, error) {
	return f(ctx, operation, params)
}

var ErrTransportInit = errors.New("econnect: transport init failed")

// TransportInitError is returned by New when the SOAP transport cannot be
// established for the selected endpoint.
type TransportInitError struct {
	Endpoint string
	Err      error
}

func (e *TransportInitError) Error() string {
	return fmt.Sprintf("econnect: transport init for %s: %v", e.Endpoint, e.Err)
}

func (e *TransportInitError) Unwrap() []error { return []error{ErrTransportInit, e.Err} }

type Option func(*Gateway)

func WithTransport(t Transport) Option {
	return func(g *Gateway) { g.transport = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(g *Gateway) {
		if o != nil {
			g.observers = append(g.observers, o)
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// Gateway is the eConnect binding. It is safe for concurrent use.
type Gateway struct {
	cfg        Config
	endpoint   string
	transport  Transport
	httpClient *http.Client
	log        *zap.Logger
	observers  []Observer
	now        func() time.Time
}

// New selects the endpoint for cfg.Mode and dials it. Unless cfg.SkipProbe
// is set the endpoint must answer an HTTP request before New returns.
// Construction errors are *TransportInitError.
func New(ctx context.Context, cfg Config, opts ...Option) (*Gateway, error) {
	cfg = cfg.withDefaults()
	g := &Gateway{
		cfg:      cfg,
		endpoint: cfg.SelectedEndpoint(),
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	if g.transport == nil {
		c, err := soap.Dial(ctx, g.endpoint, soap.Options{
			Namespace:  cfg.Namespace,
			Probe:      !cfg.SkipProbe,
			HTTPClient: g.httpClient,
		})
		if err != nil {
			return nil, &TransportInitError{Endpoint: g.endpoint, Err: err}
		}
		g.transport = c
	}

	if cfg.Breaker.FailThreshold > 0 {
		g.transport = &breakerTransport{
			next: g.transport,
			br:   NewMicroBreaker(cfg.Breaker.FailThreshold, cfg.Breaker.OpenFor),
		}
	}

	g.log.Info("econnect gateway ready",
		zap.String("mode", cfg.Mode),
		zap.String("endpoint", g.endpoint),
	)

	return g, nil
}

func (g *Gateway) Mode() string     { return g.cfg.Mode }
func (g *Gateway) Endpoint() string { return g.endpoint }

// Args maps request field wire names to values. Typed methods pass Go
// values; Call additionally accepts the JSON forms (base64 strings for
// bytes, numbers or numeric strings for ints, []any for lists).
type Args map[string]any

// Call invokes any catalog operation by name.
func (g *Gateway) Call(ctx context.Context, operation string, args Args, withAttributes bool, attrs CustomerAttributes) Envelope {
	op, ok := Lookup(operation)
	if !ok {
		op = Operation{Name: operation}
		return g.finish(op, g.now(), nil, &ValidationError{Operation: operation, Reason: "unknown operation"})
	}
	return g.invoke(ctx, op, args, withAttributes, attrs)
}

func (g *Gateway) call(ctx context.Context, name string, args Args, withAttributes bool, attrs CustomerAttributes) Envelope {
	op, ok := Lookup(name)
	if !ok {
		panic("econnect: operation missing from catalog: " + name)
	}
	return g.invoke(ctx, op, args, withAttributes, attrs)
}

// invoke is the only place where call errors turn into envelopes.
func (g *Gateway) invoke(ctx context.Context, op Operation, args Args, withAttributes bool, attrs CustomerAttributes) Envelope {
	started := g.now()

	params, err := g.buildParams(op, args, withAttributes, attrs)
	if err != nil {
		return g.finish(op, started, nil, err)
	}

	if g.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.CallTimeout)
		defer cancel()
	}

	obj, err := g.transport.Call(ctx, op.Name, params)
	if err != nil {
		return g.finish(op, started, nil, err)
	}

	var result any = obj
	if op.Unwrap != "" {
		result = obj[op.Unwrap]
	}
	return g.finish(op, started, result, nil)
}

func (g *Gateway) finish(op Operation, started time.Time, result any, err error) Envelope {
	env := success(result)
	if err != nil {
		env = failure(err)
	}

	info := CallInfo{
		ID:        util.NewID(),
		Operation: op.Name,
		Mode:      g.cfg.Mode,
		Endpoint:  g.endpoint,
		Error:     env.Error,
		Kind:      env.Kind(),
		StartedAt: started,
		Duration:  g.now().Sub(started),
	}
	if env.Failed() {
		info.Message = env.Message()
	} else {
		info.Message = summarize(result)
	}

	fields := []zap.Field{
		zap.String("call_id", info.ID),
		zap.String("operation", op.Name),
		zap.Duration("duration", info.Duration),
	}
	if env.Failed() {
		g.log.Warn("econnect call failed", append(fields,
			zap.String("kind", string(info.Kind)),
			zap.String("message", info.Message),
		)...)
	} else {
		g.log.Debug("econnect call ok", fields...)
	}

	for _, o := range g.observers {
		o.Observe(info)
	}

	return env
}

func (g *Gateway) credentials() soap.Params {
	return soap.Params{
		{Name: "referenceSenderFrontend", Value: g.cfg.SenderReference},
		{Name: "codeFrontend", Value: g.cfg.AccessCode},
		{Name: "referenceCustomerNumber", Value: g.cfg.CustomerNumber},
		{Name: "referenceCustomerUser", Value: g.cfg.CustomerUser},
		{Name: "referenceCustomerBranch", Value: g.cfg.CustomerBranch},
	}
}

func (g *Gateway) buildParams(op Operation, args Args, withAttributes bool, attrs CustomerAttributes) (soap.Params, error) {
	for name := range args {
		if _, ok := op.field(name); !ok {
			return nil, &ValidationError{Operation: op.Name, Field: name, Reason: "unknown field"}
		}
	}

	params := g.credentials()
	for _, f := range op.Fields {
		raw, ok := args[f.Name]
		if !ok {
			return nil, &ValidationError{Operation: op.Name, Field: f.Name, Reason: "missing"}
		}
		v, err := coerce(f, raw)
		if err != nil {
			return nil, &ValidationError{Operation: op.Name, Field: f.Name, Reason: err.Error()}
		}
		params = append(params, soap.Param{Name: f.Name, Value: v})
	}

	if withAttributes {
		if !op.Attributes {
			return nil, &ValidationError{Operation: op.Name, Field: FieldCustomerAttributes, Reason: "not accepted by this operation"}
		}
		merged := MergeCustomerAttributes(attrs)
		if g.cfg.StrictAttributes {
			if err := merged.Validate(); err != nil {
				return nil, &ValidationError{Operation: op.Name, Field: FieldCustomerAttributes, Reason: err.Error()}
			}
		}
		params = append(params, soap.Param{Name: FieldCustomerAttributes, Value: map[string]string(merged)})
	}

	return params, nil
}

func coerce(f Field, v any) (any, error) {
	switch f.Kind {
	case FieldBytes:
		switch b := v.(type) {
		case []byte:
			return b, nil
		case string:
			out, err := base64.StdEncoding.DecodeString(b)
			if err != nil {
				return nil, fmt.Errorf("invalid base64: %w", err)
			}
			return out, nil
		}
	case FieldInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return n, nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("not an integer: %v", n)
			}
			return int64(n), nil
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("not an integer: %q", n)
			}
			return i, nil
		}
	case FieldList:
		switch l := v.(type) {
		case []string:
			return l, nil
		case string:
			return []string{l}, nil
		case []any:
			out := make([]string, 0, len(l))
			for _, it := range l {
				s, ok := it.(string)
				if !ok {
					return nil, fmt.Errorf("list item %v is not a string", it)
				}
				out = append(out, s)
			}
			return out, nil
		}
	default:
		switch s := v.(type) {
		case string:
			return s, nil
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(s), nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", f.Kind, v)
}
