// Package isdayoff provides a source backed by the isdayoff.ru production
// calendar API.
package isdayoff

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/username/working-day-service/pkg/workingday"
	"github.com/username/working-day-service/pkg/workingday/format"
	"github.com/username/working-day-service/pkg/workingday/httpsource"
)

const (
	// BaseURL is the public isdayoff.ru API
	BaseURL = "https://isdayoff.ru"

	// DefaultRefreshInterval is used when no interval is given
	DefaultRefreshInterval = 24 * time.Hour
)

// now is the clock used to pick the calendar years
var now = time.Now

// Config selects the calendar to follow
type Config struct {
	// Year pins the first year fetched. Zero follows the current year, so
	// the fetched years move forward across New Year.
	Year int
	// Country is an ISO 3166 code understood by the API, e.g. "ru", "by", "kz". Defaults to the API default.
	Country string
	// BaseURL defaults to BaseURL
	BaseURL string
	// RefreshInterval defaults to DefaultRefreshInterval
	RefreshInterval time.Duration
}

// Source reports the working and shortened days of the fetched years as
// working. Every refresh fetches the first year and, when published, the
// year after it. Dates outside the fetched years are not working.
type Source = httpsource.Source[format.DayTable]

// New fetches the calendar and keeps it refreshed
func New(cfg Config, opts ...httpsource.Option) (*Source, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}

	opts = append([]httpsource.Option{httpsource.Kind("isdayoff")}, opts...)
	return httpsource.NewFunc(fetchYears(cfg), format.ParseIsDayOffYears, format.ListedAsWorkday, cfg.RefreshInterval, opts...)
}

// fetchYears returns the first year and the next one as "YYYY codes" lines
func fetchYears(cfg Config) httpsource.FetchFunc {
	return func(ctx context.Context, client *http.Client) (string, error) {
		year := cfg.Year
		if year == 0 {
			year = now().Year()
		}

		var doc strings.Builder
		for _, y := range []int{year, year + 1} {
			req, err := newRequest(ctx, cfg, y)
			if err != nil {
				return "", err
			}
			codes, err := httpsource.Do(client, req)
			if err != nil {
				if y == year || ctx.Err() != nil {
					return "", fmt.Errorf("failed to fetch %d: %w", y, err)
				}
				// next year's calendar is published late in the year
				break
			}
			fmt.Fprintf(&doc, "%d %s\n", y, strings.TrimSpace(codes))
		}
		return doc.String(), nil
	}
}

func newRequest(ctx context.Context, cfg Config, year int) (*http.Request, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025&pre=1
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("pre", "1")
	if cfg.Country != "" {
		query.Set("cc", cfg.Country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/api/getdata?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create isdayoff request: %w", err)
	}
	return req, nil
}

// Use creates a Source and makes it the only source of b
func Use(b *workingday.Builder, cfg Config, opts ...httpsource.Option) (*Source, error) {
	src, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	b.UseSource(src)
	return src, nil
}

// Add creates a Source and adds it to b
func Add(b *workingday.Builder, cfg Config, opts ...httpsource.Option) (*Source, error) {
	src, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	b.AddSource(src)
	return src, nil
}
