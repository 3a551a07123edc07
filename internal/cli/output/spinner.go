package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner displays a progress animation while a core transition runs.
type Spinner struct {
	w       io.Writer
	message string
	frames  []string

	mu      sync.Mutex
	started bool
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewSpinner creates a new spinner.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start starts the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	select {
	case <-s.done:
		return
	default:
	}
	s.started = true

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.finish("\r\033[K")
}

// Success stops the spinner with a success message.
func (s *Spinner) Success(message string) {
	s.finish(fmt.Sprintf("\r\033[K✓ %s\n", message))
}

// Fail stops the spinner with a failure message.
func (s *Spinner) Fail(message string) {
	s.finish(fmt.Sprintf("\r\033[K✗ %s\n", message))
}

// finish is safe to call more than once and without Start.
func (s *Spinner) finish(final string) {
	s.once.Do(func() {
		close(s.done)

		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		fmt.Fprint(s.w, final)
	})
}
