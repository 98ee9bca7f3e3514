// Package stringsource provides the refreshable-state engine behind every
// source whose answers come from an external text document.
//
// A Source holds a typed state produced by a parse function from raw text and
// answers queries with a check function over that state. Refreshing replaces
// the state wholesale; a failed refresh keeps the previous state.
package stringsource

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/working-day-service/pkg/workingday"
)

var (
	// ErrNilParser is returned when no parse function is supplied.
	ErrNilParser = errors.New("parse function is required")

	// ErrNilCheck is returned when no check function is supplied.
	ErrNilCheck = errors.New("check function is required")

	// ErrParsePanic wraps a panic raised while reading or parsing content.
	ErrParsePanic = errors.New("panic while loading content")
)

// ParseFunc turns raw text into state
type ParseFunc[T any] func(content string) (T, error)

// CheckFunc decides whether date is a working day given state.
// It must not have side effects.
type CheckFunc[T any] func(date time.Time, state T) bool

// FetchFunc produces the raw text for a refresh
type FetchFunc func() (string, error)

type options struct {
	logger *zap.Logger
	kind   string
}

// Option configures a Source
type Option func(*options)

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

// Source is a working day source backed by refreshable state
type Source[T any] struct {
	id     string
	parse  ParseFunc[T]
	check  CheckFunc[T]
	logger *zap.Logger

	// refreshMu orders refreshes, it is held across fetch and parse
	refreshMu sync.Mutex

	// mu guards the state slot and the counters below
	mu          sync.Mutex
	state       T
	lastRefresh time.Time
	failures    int
}

// New creates a Source seeded from content
func New[T any](content string, parse ParseFunc[T], check CheckFunc[T], opts ...Option) (*Source[T], error) {
	return Load(func() (string, error) { return content, nil }, parse, check, opts...)
}

// Load creates a Source seeded from the text returned by fetch.
// Any failure to fetch or parse the seed is returned and no Source is produced.
func Load[T any](fetch FetchFunc, parse ParseFunc[T], check CheckFunc[T], opts ...Option) (*Source[T], error) {
	if parse == nil {
		return nil, ErrNilParser
	}
	if check == nil {
		return nil, ErrNilCheck
	}

	o := &options{
		logger: zap.NewNop(),
		kind:   "string",
	}
	for _, opt := range opts {
		opt(o)
	}

	id := uuid.NewString()
	s := &Source[T]{
		id:    id,
		parse: parse,
		check: check,
		logger: o.logger.With(
			zap.String("source_id", id),
			zap.String("source_kind", o.kind)),
	}

	state, err := s.load(fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial state: %w", err)
	}
	s.state = state
	s.lastRefresh = time.Now()

	s.logger.Debug("Source seeded")

	return s, nil
}

// IsWorkingDay evaluates the check function against the current state
func (s *Source[T]) IsWorkingDay(date time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.check(date, s.state)
}

// Refresh fetches and parses new content and installs the result.
// On failure the previous state is kept and the error is returned after
// being logged. Concurrent refreshes run one at a time.
func (s *Source[T]) Refresh(fetch FetchFunc) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	state, err := s.load(fetch)
	if err != nil {
		s.mu.Lock()
		s.failures++
		failures := s.failures
		s.mu.Unlock()

		s.logger.Warn("Refresh failed, keeping previous state",
			zap.Int("failures", failures),
			zap.Error(err))
		return err
	}

	now := time.Now()
	s.mu.Lock()
	s.state = state
	s.lastRefresh = now
	s.mu.Unlock()

	s.logger.Info("State refreshed", zap.Time("refreshed_at", now))

	return nil
}

// Update replaces the state with the result of parsing content
func (s *Source[T]) Update(content string) error {
	return s.Refresh(func() (string, error) { return content, nil })
}

// ID returns the identifier used in log output
func (s *Source[T]) ID() string {
	return s.id
}

// Logger returns the source logger, tagged with the source id
func (s *Source[T]) Logger() *zap.Logger {
	return s.logger
}

// LastRefresh returns the time the current state was installed
func (s *Source[T]) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

// Failures returns the number of failed refreshes so far
func (s *Source[T]) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

func (s *Source[T]) load(fetch FetchFunc) (state T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrParsePanic, r)
		}
	}()

	content, err := fetch()
	if err != nil {
		return state, fmt.Errorf("failed to read content: %w", err)
	}

	state, err = s.parse(content)
	if err != nil {
		return state, fmt.Errorf("failed to parse content: %w", err)
	}

	return state, nil
}

// Use creates a Source from content and makes it the only source of b
func Use[T any](b *workingday.Builder, content string, parse ParseFunc[T], check CheckFunc[T], opts ...Option) (*Source[T], error) {
	src, err := New(content, parse, check, opts...)
	if err != nil {
		return nil, err
	}
	b.UseSource(src)
	return src, nil
}

// Add creates a Source from content and adds it to b
func Add[T any](b *workingday.Builder, content string, parse ParseFunc[T], check CheckFunc[T], opts ...Option) (*Source[T], error) {
	src, err := New(content, parse, check, opts...)
	if err != nil {
		return nil, err
	}
	b.AddSource(src)
	return src, nil
}
