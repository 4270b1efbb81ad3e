package jobs

import (
	"context"
	"log/slog"
	"time"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/domain/model/workunit"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultBacklogSchedule runs the backlog check every thirty seconds.
	DefaultBacklogSchedule = "*/30 * * * * *"
	// DefaultStaleAfter is how long a unit may wait in a queue before it is reported.
	DefaultStaleAfter = 10 * time.Minute
)

// BacklogSource is the part of the engine the backlog monitor reads.
type BacklogSource interface {
	QueueDepths(ctx context.Context) []dispatch.QueueDepth
	StaleWorkUnits(ctx context.Context, olderThan time.Duration) []*workunit.WorkUnit
}

// BacklogReport is the result of one backlog check.
type BacklogReport struct {
	Depths []dispatch.QueueDepth
	Stale  []*workunit.WorkUnit
}

// BacklogMonitorJob periodically logs queue depths and warns about work units that
// have waited longer than the stale threshold. It never changes dispatch state.
type BacklogMonitorJob struct {
	source     BacklogSource
	schedule   string
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewBacklogMonitorJob creates the job. An empty schedule or a non-positive staleAfter
// falls back to the defaults. The schedule uses the six-field cron format with seconds.
func NewBacklogMonitorJob(
	source BacklogSource,
	schedule string,
	staleAfter time.Duration,
	logger *slog.Logger,
) *BacklogMonitorJob {
	if schedule == "" {
		schedule = DefaultBacklogSchedule
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BacklogMonitorJob{
		source:     source,
		schedule:   schedule,
		staleAfter: staleAfter,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "backlog_monitor_job"),
	}
}

// Start schedules the check. An invalid schedule is returned as an error.
func (j *BacklogMonitorJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Check(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Backlog monitor job started", "schedule", j.schedule)
	return nil
}

// Stop stops the schedule and waits for a running check to finish.
func (j *BacklogMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Backlog monitor job stopped")
}

// Check runs one backlog check and logs its findings.
func (j *BacklogMonitorJob) Check(ctx context.Context) BacklogReport {
	report := BacklogReport{
		Depths: j.source.QueueDepths(ctx),
		Stale:  j.source.StaleWorkUnits(ctx, j.staleAfter),
	}

	for _, d := range report.Depths {
		if d.Depth == 0 {
			continue
		}
		attrs := []any{"group", d.Group.String(), "depth", d.Depth, "staffed", d.Staffed}
		if d.OldestEnqueuedAt != nil {
			attrs = append(attrs, "oldest_enqueued_at", *d.OldestEnqueuedAt)
		}
		if d.Staffed {
			j.logger.InfoContext(ctx, "queue backlog", attrs...)
		} else {
			j.logger.WarnContext(ctx, "queue backlog without logged-in staff", attrs...)
		}
	}

	for _, u := range report.Stale {
		j.logger.WarnContext(ctx, "work unit waiting too long",
			"work_unit_id", u.ID().String(),
			"order_number", u.OrderNumber().String(),
			"group", u.Group().String(),
			"enqueued_at", u.EnqueuedAt(),
		)
	}

	return report
}
