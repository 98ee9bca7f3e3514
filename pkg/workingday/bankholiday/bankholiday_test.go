package bankholiday

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/working-day-service/pkg/workingday"
	"github.com/username/working-day-service/pkg/workingday/dayofweek"
	"github.com/username/working-day-service/pkg/workingday/format"
	"github.com/username/working-day-service/pkg/workingday/httpsource"
)

const feed = `{
  "england-and-wales": {"division": "england-and-wales", "events": [
    {"title": "Early May bank holiday", "date": "2018-05-07", "notes": "", "bunting": true},
    {"title": "Spring bank holiday", "date": "2018-05-28", "notes": "", "bunting": true}
  ]},
  "scotland": {"division": "scotland", "events": [
    {"title": "St Andrew's Day", "date": "2018-11-30", "notes": "", "bunting": true}
  ]}
}`

func serveFeed(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feed))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	srv := serveFeed(t)

	tests := []struct {
		name     string
		division string
		date     time.Time
		want     bool
	}{
		{"england bank holiday", "", time.Date(2018, 5, 28, 0, 0, 0, 0, time.UTC), false},
		{"england ordinary day", "", time.Date(2018, 5, 29, 0, 0, 0, 0, time.UTC), true},
		{"scottish holiday in england", "", time.Date(2018, 11, 30, 0, 0, 0, 0, time.UTC), true},
		{"scottish holiday in scotland", format.DivisionScotland, time.Date(2018, 11, 30, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(Config{URL: srv.URL, Division: tt.division}, httpsource.Retries(0))
			require.NoError(t, err)
			defer src.Close()

			assert.Equal(t, DefaultRefreshInterval, src.Interval())
			assert.Equal(t, tt.want, src.IsWorkingDay(tt.date))
		})
	}
}

func TestNew_UnknownDivision(t *testing.T) {
	srv := serveFeed(t)

	_, err := New(Config{URL: srv.URL, Division: "wales"}, httpsource.Retries(0))
	assert.ErrorContains(t, err, "wales")
}

func TestAdd_WithWeekdays(t *testing.T) {
	srv := serveFeed(t)

	b := workingday.NewBuilder()
	dayofweek.AddMondayToFriday(b)
	src, err := Add(b, Config{URL: srv.URL}, httpsource.Retries(0))
	require.NoError(t, err)
	defer src.Close()

	// OR aggregation: the weekday source marks the bank holiday Monday as working
	svc := b.Build()
	assert.True(t, svc.IsWorkingDay(time.Date(2018, 5, 28, 0, 0, 0, 0, time.UTC)))

	only, err := Use(workingday.NewBuilder(), Config{URL: srv.URL}, httpsource.Retries(0))
	require.NoError(t, err)
	defer only.Close()
	assert.False(t, only.IsWorkingDay(time.Date(2018, 5, 28, 0, 0, 0, 0, time.UTC)))
}
