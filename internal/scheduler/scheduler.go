package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/drillbot/internal/database"
	"github.com/example/drillbot/internal/session"
)

// Константы для периодов очистки по умолчанию
const (
	// DefaultSessionTTL is how long a paused session survives on disk
	DefaultSessionTTL = 7 * 24 * time.Hour
	// DefaultCleanupInterval is how often the housekeeping jobs run
	DefaultCleanupInterval = time.Hour
)

// Scheduler runs the housekeeping jobs: reaping idle resume guards and
// deleting expired saved sessions
type Scheduler struct {
	scheduler  *gocron.Scheduler
	registry   *session.Registry
	sessions   *database.SessionRepository
	sessionTTL time.Duration
}

// New creates a new scheduler instance
func New(registry *session.Registry, sessions *database.SessionRepository) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		registry:   registry,
		sessions:   sessions,
		sessionTTL: DefaultSessionTTL,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(DefaultCleanupInterval).Do(s.runCleanup)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runCleanup reaps idle resume guards and expired saved sessions. Both are
// housekeeping, not correctness: a reaped guard is recreated on the next
// resume, and an expired session was abandoned long ago.
func (s *Scheduler) runCleanup() {
	s.registry.ReapIdleGuards(session.DefaultGuardTTL)

	deleted, err := s.sessions.DeleteExpired(s.sessionTTL)
	if err != nil {
		log.Printf("Error deleting expired sessions: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Deleted %d expired saved sessions", deleted)
	}
}
