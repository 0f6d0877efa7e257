package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"tasklist-api/pkg/logger"
)

// Scheduler runs background jobs on fixed intervals. Singleton mode
// keeps a slow run from overlapping the next one.
type Scheduler struct {
	scheduler *gocron.Scheduler
	mu        sync.Mutex
	running   bool
}

func New() *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Scheduler{
		scheduler: s,
	}
}

func (s *Scheduler) AddIntervalJob(name string, interval time.Duration, job func()) error {
	_, err := s.scheduler.Every(interval).Tag(name).Do(job)
	if err != nil {
		return err
	}
	logger.Info("Scheduled job registered", "job", name, "interval", interval.String())
	return nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	logger.Info("Scheduler started")
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.scheduler.Stop()
	s.running = false
	logger.Info("Scheduler stopped")
}
