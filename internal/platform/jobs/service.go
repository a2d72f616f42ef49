// Package jobs runs batch work on a single background worker. One run at a
// time: the mail session a batch owns is exclusive, so a second submission
// while one is active is rejected rather than queued.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"payslips/internal/requestctx"
)

var ErrBusy = errors.New("a batch run is already in progress")

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Snapshot is the externally visible progress of the current or last run.
type Snapshot struct {
	State      State     `json:"state"`
	RunID      string    `json:"runId,omitempty"`
	Name       string    `json:"name,omitempty"`
	Label      string    `json:"label,omitempty"`
	Fraction   float64   `json:"fraction"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt,omitzero"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

// Run is one unit of batch work. It reports progress through the callback.
type Run func(ctx context.Context, report func(fraction float64, label string)) error

type queued struct {
	id   string
	name string
	run  Run
}

type Service struct {
	mu    sync.Mutex
	busy  bool
	snap  Snapshot
	queue chan queued
}

func New() *Service {
	return &Service{
		snap:  Snapshot{State: StateIdle},
		queue: make(chan queued, 1),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Submit schedules one run and returns its id, or ErrBusy while another run
// is active.
func (s *Service) Submit(name string, run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return "", ErrBusy
	}
	id := uuid.NewString()
	s.busy = true
	s.snap = Snapshot{State: StateRunning, RunID: id, Name: name, StartedAt: time.Now()}
	s.queue <- queued{id: id, name: name, run: run}
	return id, nil
}

// Snapshot returns the progress of the current run, or the result of the
// last finished one.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			start := time.Now()
			err := j.run(requestctx.WithRunID(ctx, j.id), func(fraction float64, label string) {
				s.mu.Lock()
				s.snap.Fraction = fraction
				s.snap.Label = label
				s.mu.Unlock()
			})

			s.mu.Lock()
			s.busy = false
			s.snap.FinishedAt = time.Now()
			if err != nil {
				s.snap.State = StateFailed
				s.snap.Error = err.Error()
			} else {
				s.snap.State = StateDone
				s.snap.Fraction = 1
			}
			s.mu.Unlock()

			if err != nil {
				slog.Warn("batch run failed", "runId", j.id, "name", j.name, "err", err)
			} else {
				slog.Info("batch run finished", "runId", j.id, "name", j.name, "durationMs", time.Since(start).Milliseconds())
			}
		}
	}
}
