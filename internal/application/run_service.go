package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/example/event-staffing/internal/metrics"
	"github.com/example/event-staffing/internal/staffing"
)

// RunService executes one full wave pass at a time. The run lock guarantees
// the pending overlay is never shared: a second concurrent Run call fails
// fast with ErrRunInProgress instead of queueing.
type RunService struct {
	store       Store
	collector   *metrics.Collector
	idGenerator func() string
	now         func() time.Time
	leadDays    int
	logger      *slog.Logger

	mu sync.Mutex
}

// NewRunService wires dependencies for run execution.
func NewRunService(store Store, collector *metrics.Collector, idGenerator func() string, now func() time.Time, leadDays int, logger *slog.Logger) *RunService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RunService{
		store:       store,
		collector:   collector,
		idGenerator: idGenerator,
		now:         now,
		leadDays:    leadDays,
		logger:      logger,
	}
}

// Run loads the committed snapshot, executes the five waves, and persists
// every proposal. Per-event failures are recorded as failed proposals and
// never abort the run; only infrastructure errors do.
func (s *RunService) Run(ctx context.Context) (RunResult, error) {
	if !s.mu.TryLock() {
		return RunResult{}, ErrRunInProgress
	}
	defer s.mu.Unlock()

	started := s.now()
	runID := s.idGenerator()
	logger := s.logger.With("run_id", runID)

	snap, events, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return RunResult{}, err
	}

	scheduler := staffing.NewScheduler(snap, started, s.leadDays, logger)
	proposals := scheduler.Run(events)

	result := RunResult{RunID: runID, Processed: len(proposals)}
	for i := range proposals {
		proposals[i].ID = s.idGenerator()
		proposals[i].RunID = runID
		proposals[i].CreatedAt = started
		proposals[i].UpdatedAt = started
		if proposals[i].Scheduled() {
			result.Scheduled++
		} else {
			result.Failed++
		}
	}

	if err := s.store.CreateProposals(ctx, proposals); err != nil {
		return RunResult{}, err
	}

	s.collector.ObserveRun(s.now().Sub(started), result.Scheduled, result.Failed)
	logger.Info("run completed",
		"processed", result.Processed, "scheduled", result.Scheduled, "failed", result.Failed)

	return result, nil
}
