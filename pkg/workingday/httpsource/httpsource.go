// Package httpsource provides a refreshable source seeded from an HTTP
// response body and re-fetched on a fixed interval.
package httpsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/working-day-service/internal/httpclient"
	"github.com/username/working-day-service/pkg/workingday"
	"github.com/username/working-day-service/pkg/workingday/stringsource"
)

var (
	// ErrNilRequest is returned when no request is supplied.
	ErrNilRequest = errors.New("request is required")

	// ErrBadInterval is returned when the refresh interval is not positive.
	ErrBadInterval = errors.New("refresh interval must be positive")
)

// StatusError reports a response with a non-2xx status code
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status: %s", e.Status)
}

type circuit struct {
	tripAfter   uint32
	openTimeout time.Duration
}

type options struct {
	client  *http.Client
	logger  *zap.Logger
	kind    string
	timeout time.Duration
	retries int
	breaker *circuit
	seedCtx context.Context
	fields  []zap.Field
}

// Option configures a Source
type Option func(*options)

// Client sets the http.Client used for every round trip.
// When set, Timeout, Retries and Breaker are ignored.
func Client(c *http.Client) Option {
	return func(o *options) {
		o.client = c
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

// Kind labels the source in log output
func Kind(kind string) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// Timeout bounds a single round trip. Defaults to 30s.
func Timeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Retries sets how many times a failed round trip is retried. Defaults to 3.
func Retries(n int) Option {
	return func(o *options) {
		o.retries = n
	}
}

// Breaker stops issuing requests for openTimeout after tripAfter consecutive failures
func Breaker(tripAfter uint32, openTimeout time.Duration) Option {
	return func(o *options) {
		o.breaker = &circuit{tripAfter: tripAfter, openTimeout: openTimeout}
	}
}

// SeedContext bounds the initial round trip. Cancelling ctx after New
// returns has no effect on the source.
func SeedContext(ctx context.Context) Option {
	return func(o *options) {
		o.seedCtx = ctx
	}
}

// FetchFunc produces the document for one refresh using client.
// Requests must be bound to ctx.
type FetchFunc func(ctx context.Context, client *http.Client) (string, error)

// Source is a working day source whose state is parsed from a response body
type Source[T any] struct {
	*stringsource.Source[T]

	fetchDoc FetchFunc
	client   *http.Client
	interval time.Duration
	logger   *zap.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New issues req, parses the response body with parse and then re-issues req
// every interval. It fails if the first round trip or parse fails.
// The context of req is not used; Close cancels in-flight requests.
func New[T any](req *http.Request, parse stringsource.ParseFunc[T], check stringsource.CheckFunc[T], interval time.Duration, opts ...Option) (*Source[T], error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	getBody, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	fixed := req.Clone(context.Background())
	fetch := func(ctx context.Context, client *http.Client) (string, error) {
		r := fixed.Clone(ctx)
		if getBody != nil {
			body, err := getBody()
			if err != nil {
				return "", fmt.Errorf("failed to reset request body: %w", err)
			}
			r.Body = body
		}
		return Do(client, r)
	}

	url := zap.String("url", req.URL.String())
	opts = append(opts[:len(opts):len(opts)], func(o *options) { o.fields = append(o.fields, url) })
	return NewFunc(fetch, parse, check, interval, opts...)
}

// NewFunc is like New but calls fetch for every round trip, so the
// requests may change between refreshes.
func NewFunc[T any](fetch FetchFunc, parse stringsource.ParseFunc[T], check stringsource.CheckFunc[T], interval time.Duration, opts ...Option) (*Source[T], error) {
	if fetch == nil {
		return nil, ErrNilRequest
	}
	if interval <= 0 {
		return nil, ErrBadInterval
	}

	o := &options{
		logger:  zap.NewNop(),
		kind:    "http",
		timeout: 30 * time.Second,
		retries: 3,
	}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		copts := []httpclient.Option{
			httpclient.Name(o.kind),
			httpclient.Timeout(o.timeout),
			httpclient.Retries(o.retries),
			httpclient.Logger(o.logger),
		}
		if o.breaker != nil {
			copts = append(copts,
				httpclient.TripAfter(o.breaker.tripAfter),
				httpclient.OpenStateTimeout(o.breaker.openTimeout))
		}
		client = httpclient.New(copts...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Source[T]{
		fetchDoc: fetch,
		client:   client,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}

	seed := s.fetch
	if o.seedCtx != nil {
		seedCtx, seedCancel := context.WithCancel(ctx)
		stop := context.AfterFunc(o.seedCtx, seedCancel)
		defer func() {
			stop()
			seedCancel()
		}()
		seed = func() (string, error) { return fetch(seedCtx, client) }
	}

	inner, err := stringsource.Load(seed, parse, check,
		stringsource.Logger(o.logger),
		stringsource.Kind(o.kind))
	if err != nil {
		cancel()
		client.CloseIdleConnections()
		return nil, err
	}
	s.Source = inner
	s.logger = inner.Logger().With(append(o.fields, zap.Duration("refresh_interval", interval))...)

	s.wg.Add(1)
	go s.refreshLoop()

	s.logger.Info("HTTP source started")

	return s, nil
}

// Interval returns the refresh interval
func (s *Source[T]) Interval() time.Duration {
	return s.interval
}

// Reload re-issues the request immediately
func (s *Source[T]) Reload() error {
	return s.Refresh(s.fetch)
}

// Close stops the refresh timer, cancels any in-flight request and releases
// idle connections. The last loaded state stays queryable.
func (s *Source[T]) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		s.client.CloseIdleConnections()
		s.logger.Info("HTTP source stopped")
	})
	return nil
}

// refreshLoop periodically re-fetches the document
func (s *Source[T]) refreshLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			// failures are logged by Refresh and the previous state is kept
			_ = s.Reload()
		}
	}
}

func (s *Source[T]) fetch() (string, error) {
	return s.fetchDoc(s.ctx, s.client)
}

// Do sends req with client and returns the body of a 2xx response.
// Any other status is reported as a *StatusError.
func Do(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(data), nil
}

// replayableBody returns a function yielding a fresh copy of the request body
func replayableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		return req.GetBody, nil
	}

	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

// Use creates a Source for req and makes it the only source of b
func Use[T any](b *workingday.Builder, req *http.Request, parse stringsource.ParseFunc[T], check stringsource.CheckFunc[T], interval time.Duration, opts ...Option) (*Source[T], error) {
	src, err := New(req, parse, check, interval, opts...)
	if err != nil {
		return nil, err
	}
	b.UseSource(src)
	return src, nil
}

// Add creates a Source for req and adds it to b
func Add[T any](b *workingday.Builder, req *http.Request, parse stringsource.ParseFunc[T], check stringsource.CheckFunc[T], interval time.Duration, opts ...Option) (*Source[T], error) {
	src, err := New(req, parse, check, interval, opts...)
	if err != nil {
		return nil, err
	}
	b.AddSource(src)
	return src, nil
}
