// Package proc supervises the long-running companion process used by the
// desktop target: graceful stop first, forced kill after a fixed grace
// period.
package proc

import (
	"context"
	"sync"
	"time"

	"github.com/mj1618/device-cli/internal/logging"
)

// Handle is the supervised process, as exposed by the spawning collaborator.
type Handle interface {
	// Stop sends the polite stop signal.
	Stop() error
	// Kill terminates immediately.
	Kill() error
	// Done is closed once the process has exited.
	Done() <-chan struct{}
}

// State is the terminal state of a supervised process.
type State string

const (
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateStopped  State = "stopped" // exited within the grace period
	StateKilled   State = "killed"  // needed the forced kill
)

// DefaultGrace is how long a process gets to exit after the polite signal.
const DefaultGrace = 5 * time.Second

// Supervisor tracks at most one companion process and owns its shutdown
// sequence. The sequence is an explicit two-step state machine
// (Stopping -> Stopped|Killed), so termination always completes within
// grace + kill time, never an unbounded retry loop.
type Supervisor struct {
	grace time.Duration

	mu      sync.Mutex
	current Handle
	state   State
}

// NewSupervisor creates a supervisor. A nonpositive grace selects
// DefaultGrace.
func NewSupervisor(grace time.Duration) *Supervisor {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Supervisor{grace: grace}
}

// Attach registers a newly spawned process. Any previously supervised
// process is terminated first so the supervisor never leaks a companion.
// The state field always describes the current handle, so winding down a
// replaced handle never touches it.
func (s *Supervisor) Attach(ctx context.Context, h Handle) {
	s.mu.Lock()
	prev := s.current
	s.current = h
	s.state = StateRunning
	s.mu.Unlock()

	if prev != nil {
		s.terminate(ctx, prev)
	}
}

// Running reports whether a process is currently supervised.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.state == StateRunning
}

// Terminate shuts down the supervised process, if any, and reports how it
// ended. With nothing attached it returns StateStopped.
func (s *Supervisor) Terminate(ctx context.Context) State {
	s.mu.Lock()
	h := s.current
	if h == nil {
		s.mu.Unlock()
		return StateStopped
	}
	s.state = StateStopping
	s.mu.Unlock()

	final := s.terminate(ctx, h)

	s.mu.Lock()
	if s.current == h {
		s.current = nil
		s.state = final
	}
	s.mu.Unlock()
	return final
}

func (s *Supervisor) terminate(ctx context.Context, h Handle) State {
	log := logging.Component("proc")

	if err := h.Stop(); err != nil {
		log.Debug().Err(err).Msg("polite stop failed, killing immediately")
		_ = h.Kill()
		return StateKilled
	}

	timer := time.NewTimer(s.grace)
	defer timer.Stop()

	select {
	case <-h.Done():
		return StateStopped
	case <-timer.C:
	case <-ctx.Done():
	}

	log.Warn().Dur("grace", s.grace).Msg("companion did not exit in time, killing")
	_ = h.Kill()
	return StateKilled
}
