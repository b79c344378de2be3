package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Handler is a named background job. It reports its result instead of failing.
type Handler func(ctx context.Context) Outcome

var (
	ErrDuplicateJob = errors.New("job already registered")
	ErrJobRunning   = errors.New("job is already running")
	ErrUnknownJob   = errors.New("unknown job")
)

type job struct {
	name     string
	interval time.Duration
	handler  Handler
	running  atomic.Bool
}

// Scheduler invokes registered handlers once at start and then roughly every interval.
// Runs of the same job never overlap; a tick that lands on a running job is dropped.
type Scheduler struct {
	log logrus.FieldLogger

	mu      sync.Mutex
	jobs    map[string]*job
	started bool
	wg      sync.WaitGroup
}

func NewScheduler(log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		log:  log.WithField("component", "scheduler"),
		jobs: make(map[string]*job),
	}
}

func (s *Scheduler) Register(name string, interval time.Duration, handler Handler) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	if handler == nil {
		return fmt.Errorf("job %s: handler is nil", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	if s.started {
		return fmt.Errorf("job %s: scheduler already started", name)
	}
	s.jobs[name] = &job{name: name, interval: interval, handler: handler}
	return nil
}

// Start launches every registered job and returns immediately. Jobs stop when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

// Wait blocks until all job loops have exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// RunNow invokes a registered job outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) (Outcome, error) {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	out, ran := s.invoke(ctx, j)
	if !ran {
		return Outcome{}, fmt.Errorf("%w: %s", ErrJobRunning, name)
	}
	return out, nil
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log := s.log.WithFields(logrus.Fields{"job": j.name, "interval": j.interval.String()})
	log.Info("job registered")

	s.invoke(ctx, j)

	for {
		select {
		case <-ctx.Done():
			log.Info("job stopped")
			return
		case <-ticker.C:
			s.invoke(ctx, j)
		}
	}
}

func (s *Scheduler) invoke(ctx context.Context, j *job) (out Outcome, ran bool) {
	if !j.running.CompareAndSwap(false, true) {
		s.log.WithField("job", j.name).Warn("previous run still in progress, skipping")
		return Outcome{}, false
	}
	defer j.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{"job": j.name, "panic": r}).Error("job panicked")
			out, ran = Outcome{Status: StatusFailed, Description: fmt.Sprint(r)}, true
		}
	}()

	out = j.handler(ctx)
	s.log.WithFields(logrus.Fields{"job": j.name, "status": out.Status}).Debug("job finished")
	return out, true
}
