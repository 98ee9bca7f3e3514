package daemon

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/username/working-day-service/internal/assemble"
	"github.com/username/working-day-service/pkg/dateutil"
)

// lookahead bounds the next working day search. Sources that report no
// working day within it leave Status.NextWorkingDay zero.
const lookahead = 2 * 366

// SourceStatus describes the refresh state of one live source
type SourceStatus struct {
	ID          string
	LastRefresh time.Time
	Failures    int
}

// Status is a snapshot of the daemon's view of today
type Status struct {
	Date           time.Time
	Working        bool
	NextWorkingDay time.Time
	Sources        []SourceStatus
}

// Daemon keeps live sources refreshed and periodically reports today's status
type Daemon struct {
	assembly       *assemble.Assembly
	reportInterval time.Duration
	logger         *zap.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	today          func() time.Time

	mu         sync.Mutex
	lastStatus Status
}

// NewDaemon creates a new daemon instance. The daemon owns a and closes it on stop.
func NewDaemon(a *assemble.Assembly, reportInterval time.Duration, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = zap.NewNop()
	}
	if reportInterval <= 0 {
		reportInterval = time.Hour
	}

	return &Daemon{
		assembly:       a,
		reportInterval: reportInterval,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		today:          dateutil.Today,
	}
}

// Start runs the daemon until SIGINT or SIGTERM is received or Stop is called
func (d *Daemon) Start() error {
	ctx, stop := signal.NotifyContext(d.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}

// Run reports today's status immediately and then every report interval
// until ctx is done or Stop is called. Live sources are closed on return.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("Daemon started",
		zap.Duration("report_interval", d.reportInterval),
		zap.Int("sources", d.assembly.Service.Len()),
		zap.Int("live_sources", len(d.assembly.Live())))

	defer func() {
		if err := d.assembly.Close(); err != nil {
			d.logger.Warn("Failed to close sources", zap.Error(err))
		}
		d.logger.Info("Daemon stopped")
	}()

	d.report()

	ticker := time.NewTicker(d.reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return nil

		case <-ctx.Done():
			d.logger.Info("Shutting down", zap.NamedError("reason", context.Cause(ctx)))
			return nil

		case <-ticker.C:
			d.report()
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// Status returns the last reported status
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastStatus
}

// Check computes today's status without logging it
func (d *Daemon) Check() Status {
	svc := d.assembly.Service
	date := d.today()

	status := Status{
		Date:           date,
		Working:        svc.IsWorkingDay(date),
	}
	for i := 1; i <= lookahead; i++ {
		if next := dateutil.AddDays(date, i); svc.IsWorkingDay(next) {
			status.NextWorkingDay = next
			break
		}
	}
	for _, l := range d.assembly.Live() {
		status.Sources = append(status.Sources, SourceStatus{
			ID:          l.ID(),
			LastRefresh: l.LastRefresh(),
			Failures:    l.Failures(),
		})
	}
	return status
}

func (d *Daemon) report() {
	status := d.Check()

	d.mu.Lock()
	d.lastStatus = status
	d.mu.Unlock()

	if status.NextWorkingDay.IsZero() {
		d.logger.Warn("No working day ahead",
			zap.String("date", dateutil.DateKey(status.Date)),
			zap.Bool("working", status.Working),
			zap.Int("lookahead_days", lookahead))
	} else {
		d.logger.Info("Working day status",
			zap.String("date", dateutil.DateKey(status.Date)),
			zap.Bool("working", status.Working),
			zap.String("next_working_day", dateutil.DateKey(status.NextWorkingDay)))
	}

	for _, s := range status.Sources {
		fields := []zap.Field{
			zap.String("source_id", s.ID),
			zap.Time("last_refresh", s.LastRefresh),
			zap.Int("failures", s.Failures),
		}
		if s.Failures > 0 {
			d.logger.Warn("Source has failed refreshes", fields...)
			continue
		}
		d.logger.Debug("Source status", fields...)
	}
}
