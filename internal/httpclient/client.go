// Package httpclient builds the http.Client used by network backed sources.
// Requests are logged, optionally retried and optionally guarded by a
// circuit breaker.
package httpclient

import (
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type circuitOptions struct {
	maxRequests uint32
	interval    time.Duration
	timeout     time.Duration
	tripCount   uint32
	statusCodes []int
}

func withCircuitOption(f func(*circuitOptions)) Option {
	return func(o *options) {
		if o.co == nil {
			o.co = &circuitOptions{tripCount: 5}
		}
		f(o.co)
	}
}

// HalfOpenRequests sets how many requests may pass while the circuit is half open
func HalfOpenRequests(n uint32) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.maxRequests = n
	})
}

// OpenStateTimeout sets how long the circuit stays open before probing again
func OpenStateTimeout(d time.Duration) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.timeout = d
	})
}

// CountResetInterval sets the cyclic period after which closed-state counts reset
func CountResetInterval(d time.Duration) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.interval = d
	})
}

// TripAfter opens the circuit after n consecutive failures
func TripAfter(n uint32) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.tripCount = n
	})
}

// TripOn sets the response status codes counted as failures by the circuit.
// Defaults to 400, 401, 403 and every 5xx.
func TripOn(codes ...int) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.statusCodes = append(co.statusCodes, codes...)
	})
}

type retryOptions struct {
	maxRetries int
	waitMin    time.Duration
	waitMax    time.Duration
}

// Retries enables retrying failed requests up to n times
func Retries(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.ro = nil
			return
		}
		if o.ro == nil {
			o.ro = &retryOptions{
				waitMin: 500 * time.Millisecond,
				waitMax: 10 * time.Second,
			}
		}
		o.ro.maxRetries = n
	}
}

// RetryWait bounds the backoff between retries
func RetryWait(minWait, maxWait time.Duration) Option {
	return func(o *options) {
		if o.ro == nil {
			return
		}
		o.ro.waitMin = minWait
		o.ro.waitMax = maxWait
	}
}

type options struct {
	timeout time.Duration
	rt      http.RoundTripper

	name   string
	logger *zap.Logger

	co *circuitOptions
	ro *retryOptions
}

// Option configures the client returned by New
type Option func(*options)

// Name labels the client in logs and in the circuit breaker
func Name(s string) Option {
	return func(o *options) {
		o.name = s
	}
}

// RoundTripper sets the base transport. Defaults to http.DefaultTransport.
func RoundTripper(rt http.RoundTripper) Option {
	return func(o *options) {
		if rt != nil {
			o.rt = rt
		}
	}
}

// Timeout provides a global timeout value for the http.Client.
func Timeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Logger sets the logger. Defaults to a no-op logger.
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New builds an http.Client from opts
func New(opts ...Option) *http.Client {
	o := &options{
		rt:     http.DefaultTransport,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if o.name != "" {
		logger = logger.With(zap.String("http_client", o.name))
	}

	var rt http.RoundTripper = &logRoundTripper{
		base: o.rt,
		log:  logger,
	}

	if o.co != nil {
		rt = newCircuitRoundTripper(o.name, o.co, rt, logger)
	}

	if o.ro == nil {
		return &http.Client{
			Timeout:   o.timeout,
			Transport: rt,
		}
	}

	ro := o.ro
	rc := retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout:   o.timeout,
			Transport: rt,
		},
		Logger:       leveledLogger{log: logger},
		RetryWaitMin: ro.waitMin,
		RetryWaitMax: ro.waitMax,
		RetryMax:     ro.maxRetries,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
	return rc.StandardClient()
}

type logRoundTripper struct {
	base http.RoundTripper
	log  *zap.Logger
}

func (rt *logRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	rt.log.Debug("Request sent",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()))

	resp, err := rt.base.RoundTrip(req)
	if err != nil {
		rt.log.Warn("Request failed",
			zap.String("url", req.URL.String()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	rt.log.Debug("Response received",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	return resp, nil
}

type statusCodeError struct {
	resp *http.Response
}

func (e statusCodeError) Error() string {
	return "unsuccessful status code: " + e.resp.Status
}

type circuitRoundTripper struct {
	base http.RoundTripper
	cb   *gobreaker.CircuitBreaker

	codes        map[int]struct{}
	serverErrors bool
}

func newCircuitRoundTripper(name string, co *circuitOptions, base http.RoundTripper, logger *zap.Logger) *circuitRoundTripper {
	rt := &circuitRoundTripper{
		base:  base,
		codes: map[int]struct{}{},
	}
	if len(co.statusCodes) == 0 {
		rt.serverErrors = true
		co.statusCodes = []int{
			http.StatusBadRequest,   // 400
			http.StatusUnauthorized, // 401
			http.StatusForbidden,    // 403
		}
	}
	for _, code := range co.statusCodes {
		rt.codes[code] = struct{}{}
	}

	rt.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: co.maxRequests,
		Interval:    co.interval,
		Timeout:     co.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= co.tripCount
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				logger.Error("Circuit has been opened")
			case gobreaker.StateHalfOpen:
				logger.Warn("Circuit is now half open and letting some requests through",
					zap.Uint32("max_requests_allowed_through", co.maxRequests))
			case gobreaker.StateClosed:
				logger.Info("Circuit has been closed")
			}
		},
	})
	return rt
}

func (rt *circuitRoundTripper) failing(code int) bool {
	if _, ok := rt.codes[code]; ok {
		return true
	}
	return rt.serverErrors && code >= 500
}

func (rt *circuitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	v, err := rt.cb.Execute(func() (interface{}, error) {
		resp, err := rt.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if rt.failing(resp.StatusCode) {
			return resp, statusCodeError{resp: resp}
		}
		return resp, nil
	})

	var scErr statusCodeError
	if errors.As(err, &scErr) {
		return scErr.resp, nil
	}
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger
type leveledLogger struct {
	log *zap.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Warnw(msg, keysAndValues...)
}
