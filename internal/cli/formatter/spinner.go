package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner shows progress for the one-shot "logs" commands while they wait
// on the API. It draws on its own writer (stderr) so "logs list --json"
// output stays clean, and uses the same dot frames as the TUI's spinner.
type Spinner struct {
	w       io.Writer
	message string
	frames  spinner.Spinner

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

// NewSpinner returns a stopped spinner for message on w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  spinner.Dot,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start animates until Stop.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.frames.FPS)
		defer ticker.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r  %s %s", StylePurple.Render(s.frames.Frames[i%len(s.frames.Frames)]), Dim(s.message))
			select {
			case <-s.stop:
				fmt.Fprint(s.w, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop clears the line and waits for the animation to end. Later calls do
// nothing.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
}

// StartSpinner starts a spinner on w and returns its Stop.
func StartSpinner(w io.Writer, message string) func() {
	s := NewSpinner(w, message)
	s.Start()
	return s.Stop
}
