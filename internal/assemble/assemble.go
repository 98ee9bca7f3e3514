// Package assemble turns configured sources into a working day Service.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/username/working-day-service/internal/config"
	"github.com/username/working-day-service/pkg/workingday"
	"github.com/username/working-day-service/pkg/workingday/bankholiday"
	"github.com/username/working-day-service/pkg/workingday/dayofweek"
	"github.com/username/working-day-service/pkg/workingday/filesource"
	"github.com/username/working-day-service/pkg/workingday/format"
	"github.com/username/working-day-service/pkg/workingday/holidaycal"
	"github.com/username/working-day-service/pkg/workingday/httpsource"
	"github.com/username/working-day-service/pkg/workingday/isdayoff"
	"github.com/username/working-day-service/pkg/workingday/stringsource"
)

// maxConcurrentLoads bounds how many sources are seeded at once
const maxConcurrentLoads = 4

// Live is a source that refreshes in the background and must be closed
type Live interface {
	workingday.Source
	io.Closer
	ID() string
	LastRefresh() time.Time
	Failures() int
}

// Assembly is a built Service together with the live sources it owns
type Assembly struct {
	Service *workingday.Service
	live    []Live
}

// Live returns the background-refreshed sources in configuration order
func (a *Assembly) Live() []Live {
	out := make([]Live, len(a.live))
	copy(out, a.live)
	return out
}

// Close releases every live source. The Service stays queryable.
func (a *Assembly) Close() error {
	return closeAll(a.live)
}

// Build constructs every configured source, seeding live sources in
// parallel, and aggregates them in configuration order. If any source
// fails, the live sources already created are closed.
func Build(ctx context.Context, sources []config.SourceConfig, logger *zap.Logger) (*Assembly, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	built := make([]workingday.Source, len(sources))
	live := make([]Live, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for i, cfg := range sources {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, l, err := newSource(gctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("sources[%d] (%s): %w", i, cfg.Type, err)
			}
			built[i], live[i] = src, l
			return nil
		})
	}

	err := g.Wait()

	owned := make([]Live, 0, len(live))
	for _, l := range live {
		if l != nil {
			owned = append(owned, l)
		}
	}

	if err != nil {
		if cerr := closeAll(owned); cerr != nil {
			logger.Warn("Failed to close sources after build error", zap.Error(cerr))
		}
		return nil, err
	}

	b := workingday.NewBuilder()
	b.AddSources(built...)

	logger.Info("Working day service assembled",
		zap.Int("sources", b.Len()),
		zap.Int("live_sources", len(owned)))

	return &Assembly{Service: b.Build(), live: owned}, nil
}

// newSource builds one source. Network seeds are abandoned when ctx is done.
func newSource(ctx context.Context, cfg config.SourceConfig, logger *zap.Logger) (workingday.Source, Live, error) {
	switch cfg.Type {
	case config.SourceDayOfWeek:
		return dayofweek.New(cfg.GetDays()...), nil, nil

	case config.SourceUSHolidays:
		return holidaycal.NewUSFederal(), nil, nil

	case config.SourceFile:
		l, err := newFileSource(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil

	case config.SourceHTTP:
		l, err := newHTTPSource(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil

	case config.SourceBankHolidays:
		src, err := bankholiday.New(bankholiday.Config{
			URL:             cfg.URL,
			Division:        cfg.Division,
			RefreshInterval: cfg.GetRefreshInterval(),
		}, networkOptions(ctx, cfg, logger)...)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil

	case config.SourceIsDayOff:
		src, err := isdayoff.New(isdayoff.Config{
			Year:            cfg.Year,
			Country:         cfg.Country,
			BaseURL:         cfg.URL,
			RefreshInterval: cfg.GetRefreshInterval(),
		}, networkOptions(ctx, cfg, logger)...)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	}

	return nil, nil, fmt.Errorf("unknown source type %q", cfg.Type)
}

func newFileSource(cfg config.SourceConfig, logger *zap.Logger) (Live, error) {
	opt := stringsource.Logger(logger)

	if cfg.Format == config.FormatDayTable {
		src, err := filesource.New(cfg.Path, format.ParseDayTable, dayTableCheck(cfg.Mode), opt)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	src, err := filesource.New(cfg.Path, format.ParseDateList, dateListCheck(cfg.Mode), opt)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func newHTTPSource(ctx context.Context, cfg config.SourceConfig, logger *zap.Logger) (Live, error) {
	req, err := newRequest(cfg)
	if err != nil {
		return nil, err
	}
	opts := networkOptions(ctx, cfg, logger)
	interval := cfg.GetRefreshInterval()

	if cfg.Format == config.FormatDayTable {
		src, err := httpsource.New(req, format.ParseDayTable, dayTableCheck(cfg.Mode), interval, opts...)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	src, err := httpsource.New(req, format.ParseDateList, dateListCheck(cfg.Mode), interval, opts...)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func newRequest(cfg config.SourceConfig) (*http.Request, error) {
	var body io.Reader
	if cfg.Body != "" {
		body = strings.NewReader(cfg.Body)
	}

	req, err := http.NewRequest(strings.ToUpper(cfg.Method), cfg.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func networkOptions(ctx context.Context, cfg config.SourceConfig, logger *zap.Logger) []httpsource.Option {
	return []httpsource.Option{
		httpsource.SeedContext(ctx),
		httpsource.Logger(logger),
		httpsource.Timeout(cfg.GetTimeout()),
		httpsource.Retries(cfg.GetRetries()),
	}
}

func dateListCheck(mode string) stringsource.CheckFunc[format.DateSet] {
	if mode == config.ModeListed {
		return format.Listed
	}
	return format.NotListed
}

func dayTableCheck(mode string) stringsource.CheckFunc[format.DayTable] {
	if mode == config.ModeListed {
		return format.ListedAsWorkday
	}
	return format.NotListedAsOff
}

func closeAll(live []Live) error {
	var errs []error
	for _, l := range live {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close source %s: %w", l.ID(), err))
		}
	}
	return errors.Join(errs...)
}
