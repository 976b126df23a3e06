package scheduler

import (
	"context"
	"edhub/config"
	"edhub/logger"
	"edhub/services"
	"strings"
	"time"
	_ "time/tzdata" // CRON_TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// jobTimeout bounds a single run so a slow database cannot stack runs up
const jobTimeout = 10 * time.Minute

// New builds the cron scheduler with the course stats job registered. It is
// not started; a nil scheduler means the job is disabled.
func New(cfg *config.Config, log *logger.Logger, maintenance services.MaintenanceService) (*cron.Cron, error) {
	log = log.With("component", "scheduler")
	spec := strings.TrimSpace(cfg.StatsCronSpec)
	if spec == "" || strings.EqualFold(spec, "off") {
		log.Info("Course stats scheduler disabled")
		return nil, nil
	}

	loc, err := time.LoadLocation(cfg.CronTimezone)
	if err != nil {
		log.Warn("Unknown cron timezone, using UTC", "timezone", cfg.CronTimezone)
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { runStatsJob(log, maintenance) }); err != nil {
		return nil, errors.Wrapf(err, "invalid STATS_CRON %q", spec)
	}
	log.Info("Course stats scheduler registered", "spec", spec, "timezone", loc.String())
	return c, nil
}

func runStatsJob(log *logger.Logger, maintenance services.MaintenanceService) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	changed, err := maintenance.ReconcileCourseStats(ctx)
	if err != nil {
		log.Error("Course stats job failed", "error", err)
		return
	}
	log.Info("Course stats job finished", "changed", changed, "took", time.Since(start))
}
