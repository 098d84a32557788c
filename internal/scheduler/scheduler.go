package scheduler

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task a named job run periodically
type Task struct {
	Name     string
	Interval time.Duration
	// Jitter random delay in [0, Jitter) added before each run
	Jitter time.Duration
	// RunOnStart runs the task once immediately instead of waiting a full interval
	RunOnStart bool
	Run        func(ctx context.Context) error
}

// Scheduler runs each task on its own goroutine. Runs of one task never
// overlap: a tick that arrives while a run is in progress is dropped.
type Scheduler struct {
	tasks  []Task
	logger *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func New(logger *zap.Logger, tasks ...Task) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		tasks:  tasks,
		logger: logger,
	}
}

// Add registers a task; must be called before Start
func (s *Scheduler) Add(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
}

// Start launches every task. The tasks stop when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("scheduler already started")
	}
	for _, task := range s.tasks {
		if task.Interval <= 0 {
			return errors.New("task " + task.Name + ": interval must be positive")
		}
		if task.Run == nil {
			return errors.New("task " + task.Name + ": run func is nil")
		}
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	s.logger.Info("Starting background scheduler", zap.Int("tasks", len(s.tasks)))
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}
	return nil
}

// Stop cancels all tasks and waits for in-flight runs to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	s.logger.Info("Stopping background scheduler")
	cancel()
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	if task.RunOnStart {
		s.run(ctx, task)
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !sleep(ctx, jitter(task.Jitter)) {
				s.logger.Info("Task stopped", zap.String("task", task.Name))
				return
			}
			s.run(ctx, task)
		case <-ctx.Done():
			s.logger.Info("Task stopped", zap.String("task", task.Name))
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Task panicked", zap.String("task", task.Name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("Task failed",
			zap.String("task", task.Name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return
	}
	s.logger.Debug("Task completed",
		zap.String("task", task.Name),
		zap.Duration("took", time.Since(start)))
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}

// sleep waits d or until ctx is done; false when ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
