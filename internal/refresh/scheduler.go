package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hoanghai1803/vnfinews/internal/metrics"
	"github.com/hoanghai1803/vnfinews/internal/models"
	"github.com/hoanghai1803/vnfinews/internal/pipeline"
)

// DefaultInterval is the scheduled refresh period.
const DefaultInterval = 10 * time.Minute

const recordTimeout = 5 * time.Second

// Runner performs one aggregation run.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// RunRecorder persists refresh-run audit rows.
type RunRecorder interface {
	CreateRun(ctx context.Context, run *models.RefreshRun) (int64, error)
}

// SummaryPruner removes stale cached summaries.
type SummaryPruner interface {
	PruneSummaries(ctx context.Context, cutoff time.Time) (int64, error)
}

// Options configures a Scheduler. Recorder and Pruner are optional.
type Options struct {
	Interval time.Duration
	// Manual disables the ticker. Runs then happen only at Start and through
	// Refresh, for deployments driven by an external cron.
	Manual     bool
	Recorder   RunRecorder
	Pruner     SummaryPruner
	SummaryTTL time.Duration
}

// Scheduler rebuilds the collection on a timer and on demand. At most one
// run is in flight at a time: concurrent Refresh calls share it.
type Scheduler struct {
	runner     Runner
	collection *Collection
	opts       Options
	group      singleflight.Group

	mu   sync.Mutex
	base context.Context // lifetime of runs, set by Start
	wg   sync.WaitGroup
}

// NewScheduler creates a Scheduler publishing into collection.
func NewScheduler(runner Runner, collection *Collection, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Scheduler{
		runner:     runner,
		collection: collection,
		opts:       opts,
		base:       context.Background(),
	}
}

// Start performs the initial refresh, blocking until it completes, then
// refreshes every interval until ctx is done. A failed initial refresh is
// logged and the loop starts anyway.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	if _, err := s.Refresh(ctx, models.TriggerStartup); err != nil {
		slog.Error("initial refresh failed", "error", err)
	}
	if s.opts.Manual {
		slog.Info("refresh loop disabled, waiting for external triggers")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

// Wait blocks until the background loop has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	slog.Info("refresh scheduler started", "interval", s.opts.Interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx, models.TriggerScheduled); err != nil {
				slog.Error("scheduled refresh failed", "error", err)
			}
		}
	}
}

// Refresh runs the pipeline and publishes the result. If a run is already in
// flight the caller waits for it and receives its snapshot. The run itself is
// bound to the scheduler's lifetime; ctx only limits how long the caller
// waits. On error the previous snapshot stays published.
func (s *Scheduler) Refresh(ctx context.Context, trigger string) (*models.Snapshot, error) {
	ch := s.group.DoChan("refresh", func() (any, error) {
		return s.run(s.lifetime(), trigger)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for refresh: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("joined in-flight refresh", "trigger", trigger)
		}
		return res.Val.(*models.Snapshot), nil
	}
}

func (s *Scheduler) lifetime() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// run executes one pipeline run. Panics are converted to errors.
func (s *Scheduler) run(ctx context.Context, trigger string) (snap *models.Snapshot, err error) {
	started := time.Now()
	slog.Info("refresh started", "trigger", trigger)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh panicked: %v", r)
			snap = nil
		}
		if err != nil {
			metrics.RefreshRuns.WithLabelValues(trigger, "error").Inc()
			s.record(ctx, &models.RefreshRun{
				Trigger:    trigger,
				StartedAt:  started,
				FinishedAt: time.Now(),
				Error:      err.Error(),
			})
		}
	}()

	res, err := s.runner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("running pipeline: %w", err)
	}

	snap = s.collection.Publish(res.Articles, res.FinishedAt)

	metrics.RefreshRuns.WithLabelValues(trigger, "ok").Inc()
	metrics.RefreshDuration.Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	metrics.ArticlesCurrent.Set(float64(snap.Count()))
	metrics.LastRefreshTimestamp.Set(float64(snap.LastUpdate.Unix()))

	slog.Info("refresh finished",
		"trigger", trigger,
		"articles", snap.Count(),
		"feeds_failed", len(res.Failed),
		"duration", time.Since(started),
	)

	s.record(ctx, runRecord(trigger, res))
	s.prune(ctx)
	return snap, nil
}

func runRecord(trigger string, res *pipeline.Result) *models.RefreshRun {
	run := &models.RefreshRun{
		Trigger:     trigger,
		StartedAt:   res.StartedAt,
		FinishedAt:  res.FinishedAt,
		FeedsTotal:  res.FeedsTotal,
		FeedsFailed: len(res.Failed),
		Articles:    len(res.Articles),
	}
	if len(res.Failed) > 0 {
		if b, err := json.Marshal(res.Failed); err == nil {
			run.FailedFeedsJSON = string(b)
		}
	}
	return run
}

// record writes the audit row. Failures are logged only.
func (s *Scheduler) record(ctx context.Context, run *models.RefreshRun) {
	if s.opts.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if _, err := s.opts.Recorder.CreateRun(ctx, run); err != nil {
		slog.Warn("recording refresh run failed", "error", err)
	}
}

func (s *Scheduler) prune(ctx context.Context) {
	if s.opts.Pruner == nil || s.opts.SummaryTTL <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	n, err := s.opts.Pruner.PruneSummaries(ctx, time.Now().Add(-s.opts.SummaryTTL))
	if err != nil {
		slog.Warn("pruning summary cache failed", "error", err)
		return
	}
	if n > 0 {
		slog.Debug("pruned cached summaries", "removed", n)
	}
}
