package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/isdelr/devblogs-be/internal/database"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// collectTimeout bounds a single stats collection.
const collectTimeout = 10 * time.Second

// StatsReporter periodically collects content and host statistics.
type StatsReporter struct {
	db       *sql.DB
	schedule cron.Schedule
	cron     *cron.Cron

	mu     sync.RWMutex
	latest *models.StatsSnapshot
}

// NewStatsReporter creates a reporter running on the given cron spec
// (standard five-field syntax or descriptors such as "@every 15m").
func NewStatsReporter(db *sql.DB, spec string) (*StatsReporter, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid stats schedule %q: %w", spec, err)
	}
	return &StatsReporter{
		db:       db,
		schedule: schedule,
		cron:     cron.New(),
	}, nil
}

// Run collects once immediately, then on every tick of the schedule.
func (r *StatsReporter) Run() {
	log.Info().Msg("Starting background stats reporter...")
	r.collectAndLog()
	r.cron.Schedule(r.schedule, cron.FuncJob(r.collectAndLog))
	r.cron.Start()
}

// Stop halts the reporter and waits for a running collection to finish.
func (r *StatsReporter) Stop() {
	<-r.cron.Stop().Done()
	log.Info().Msg("Stopped background stats reporter.")
}

// Latest returns the most recent snapshot, collecting one if none exists yet.
func (r *StatsReporter) Latest(ctx context.Context) (models.StatsSnapshot, error) {
	r.mu.RLock()
	latest := r.latest
	r.mu.RUnlock()
	if latest != nil {
		return *latest, nil
	}
	return r.refresh(ctx)
}

func (r *StatsReporter) collectAndLog() {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	snap, err := r.refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("StatsReporter: Failed to collect stats")
		return
	}
	log.Info().
		Int("users", snap.Content.Users).
		Int("admins", snap.Content.Admins).
		Int("blogs", snap.Content.Blogs).
		Int("contacts", snap.Content.Contacts).
		Int("thoughts", snap.Content.Thoughts).
		Float64("process_rss_mb", snap.ProcessRSSMB).
		Float64("host_mem_percent", snap.HostMemPercent).
		Float64("host_load1", snap.HostLoad1).
		Msg("Stats snapshot")
}

func (r *StatsReporter) refresh(ctx context.Context) (models.StatsSnapshot, error) {
	snap, err := Collect(ctx, r.db)
	if err != nil {
		return models.StatsSnapshot{}, err
	}
	r.mu.Lock()
	r.latest = &snap
	r.mu.Unlock()
	return snap, nil
}

// Collect builds a snapshot. Host metrics that the platform cannot provide are left at zero.
func Collect(ctx context.Context, db *sql.DB) (models.StatsSnapshot, error) {
	counts, err := countContent(ctx, db)
	if err != nil {
		return models.StatsSnapshot{}, err
	}

	snap := models.StatsSnapshot{
		Content:     counts,
		Goroutines:  runtime.NumGoroutine(),
		CollectedAt: time.Now().UTC(),
	}

	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfoWithContext(ctx); err == nil {
			snap.ProcessRSSMB = float64(info.RSS) / (1024 * 1024)
		}
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.HostMemPercent = vm.UsedPercent
	} else {
		log.Debug().Err(err).Msg("StatsReporter: Host memory unavailable")
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		snap.HostLoad1 = avg.Load1
	} else {
		log.Debug().Err(err).Msg("StatsReporter: Load average unavailable")
	}

	return snap, nil
}

func countContent(ctx context.Context, db *sql.DB) (models.ContentCounts, error) {
	var (
		c   models.ContentCounts
		err error
	)
	if c.Users, err = database.Count(ctx, db, "users", ""); err != nil {
		return c, err
	}
	if c.Admins, err = database.Count(ctx, db, "users", "role = ?", models.RoleAdmin); err != nil {
		return c, err
	}
	if c.Blogs, err = database.Count(ctx, db, "blogs", ""); err != nil {
		return c, err
	}
	if c.Contacts, err = database.Count(ctx, db, "contacts", ""); err != nil {
		return c, err
	}
	if c.Thoughts, err = database.Count(ctx, db, "thoughts", ""); err != nil {
		return c, err
	}
	return c, nil
}
