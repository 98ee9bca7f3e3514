// Package bankholiday provides a source backed by the GOV.UK bank holidays feed.
package bankholiday

import (
	"fmt"
	"net/http"
	"time"

	"github.com/username/working-day-service/pkg/workingday"
	"github.com/username/working-day-service/pkg/workingday/format"
	"github.com/username/working-day-service/pkg/workingday/httpsource"
)

// DefaultRefreshInterval is used when no interval is given
const DefaultRefreshInterval = 24 * time.Hour

// Config selects the feed and division to follow
type Config struct {
	// URL defaults to format.GovUKBankHolidaysURL
	URL string
	// Division defaults to format.DivisionEnglandAndWales
	Division string
	// RefreshInterval defaults to DefaultRefreshInterval
	RefreshInterval time.Duration
}

// Source treats the bank holidays of one division as non-working days
type Source = httpsource.Source[format.DateSet]

// New fetches the feed and keeps it refreshed
func New(cfg Config, opts ...httpsource.Option) (*Source, error) {
	if cfg.URL == "" {
		cfg.URL = format.GovUKBankHolidaysURL
	}
	if cfg.Division == "" {
		cfg.Division = format.DivisionEnglandAndWales
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}

	req, err := http.NewRequest(http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create bank holidays request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	opts = append([]httpsource.Option{httpsource.Kind("bank_holidays")}, opts...)
	return httpsource.New(req, format.ParseGovUK(cfg.Division), format.NotListed, cfg.RefreshInterval, opts...)
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
