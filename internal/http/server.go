package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/jmehdipour/econnect-gateway/internal/http/middleware"
	"github.com/jmehdipour/econnect-gateway/internal/metrics"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Caller runs one catalog operation; *econnect.Gateway satisfies it.
type Caller interface {
	Call(ctx context.Context, operation string, args econnect.Args, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
}

type Submitter interface {
	Submit(ctx context.Context, sub model.Submission) (model.SubmissionResult, error)
}

type Enqueuer interface {
	Enqueue(ctx context.Context, clientID int64, sub model.Submission) (string, error)
}

type SubmissionReader interface {
	Get(ctx context.Context, id string) (*model.SubmissionRecord, error)
}

type CallLister interface {
	List(ctx context.Context, f model.CallFilter) ([]model.CallRecord, error)
}

// Deps are the collaborators of the HTTP facade. Queue, Submissions and
// Reports may be nil when their stores are not configured; their routes
// then answer 503.
type Deps struct {
	Gateway     Caller
	Submit      Submitter
	Queue       Enqueuer
	Submissions SubmissionReader
	Reports     CallLister
	Clients     middleware.ClientLookup
	Redis       redis.Cmdable
	DefaultRPS  int
	Log         *zap.Logger
	LogLevel    string // level of echo's own logger (request log, handler errors)
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(d Deps) *Server {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLogLevel(d.LogLevel))
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.APIKeyMiddleware(d.Clients)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          d.Redis,
		DefaultRPS:     d.DefaultRPS,
		KeyPrefix:      "rl:client:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", authMW, rlMW)
	v1.GET("/operations", listOperationsHandler())
	v1.POST("/operations/:name", callOperationHandler(d.Gateway))
	v1.POST("/submissions", createSubmissionHandler(d.Submit, d.Queue, d.Log))
	v1.GET("/submissions/:id", getSubmissionHandler(d.Submissions))
	v1.GET("/reports/calls", listCallsHandler(d.Reports))

	return &Server{e: e, log: d.Log}
}

func echoLogLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	s.log.Info("http listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
