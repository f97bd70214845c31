package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/media-pipeline-go/internal/logger"
	"github.com/fhuszti/media-pipeline-go/internal/port"
)

// MinPollInterval is the floor under any configured poll interval.
const MinPollInterval = 5 * time.Second

// State names for status reporting.
const (
	StateIdle    = "idle"
	StatePolling = "polling"
	StateBackoff = "backoff"
	StateStopped = "stopped"
)

// Scheduler drives the coordinator on a fixed interval, draining the queue
// without waiting whenever a cycle processed work.
type Scheduler struct {
	coord        port.Coordinator
	pollInterval time.Duration
	enabled      bool

	mu       sync.Mutex
	snapshot Snapshot
}

// Snapshot is a point-in-time view of the loop for status reporting.
type Snapshot struct {
	State         string     `json:"state"`
	LastCycleAt   *time.Time `json:"last_cycle_at"`
	LastProcessed int        `json:"last_processed"`
	LastError     string     `json:"last_error,omitempty"`
}

func New(coord port.Coordinator, pollInterval time.Duration, enabled bool) *Scheduler {
	if pollInterval < MinPollInterval {
		pollInterval = MinPollInterval
	}
	return &Scheduler{
		coord:        coord,
		pollInterval: pollInterval,
		enabled:      enabled,
		snapshot:     Snapshot{State: StateIdle},
	}
}

// Run polls until ctx is cancelled. Every failure is retryable: the loop
// logs, backs off and tries again. It only ever returns on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.enabled {
		logger.Info(ctx, "pipeline disabled by configuration, scheduler not starting")
		s.setState(StateStopped)
		return nil
	}

	logger.Infof(ctx, "scheduler started, polling every %s", s.pollInterval)
	for {
		select {
		case <-ctx.Done():
			s.setState(StateStopped)
			return ctx.Err()
		default:
		}

		s.setState(StatePolling)
		processed, err := s.coord.ProcessPending(ctx)

		now := time.Now()
		s.mu.Lock()
		s.snapshot.LastCycleAt = &now
		s.snapshot.LastProcessed = processed
		if err != nil {
			s.snapshot.LastError = err.Error()
		} else {
			s.snapshot.LastError = ""
		}
		s.mu.Unlock()

		if err != nil {
			logger.Errorf(ctx, "poll cycle failed, backing off: %v", err)
			if stopped := s.backoff(ctx); stopped {
				return ctx.Err()
			}
			continue
		}

		if processed > 0 {
			// Work remained in the queue; poll again immediately.
			continue
		}

		if stopped := s.backoff(ctx); stopped {
			return ctx.Err()
		}
	}
}

// Status returns the current loop snapshot.
func (s *Scheduler) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *Scheduler) backoff(ctx context.Context) bool {
	s.setState(StateBackoff)
	select {
	case <-ctx.Done():
		s.setState(StateStopped)
		return true
	case <-time.After(s.pollInterval):
		return false
	}
}

func (s *Scheduler) setState(state string) {
	s.mu.Lock()
	s.snapshot.State = state
	s.mu.Unlock()
}
