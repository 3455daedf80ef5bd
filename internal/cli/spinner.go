package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated progress line on a terminal. On anything that is
// not a terminal it degrades to one plain line per message change.
type Spinner struct {
	w       io.Writer
	styles  Styles
	animate bool
	every   time.Duration

	mu      sync.Mutex
	message string
	frame   int
	started time.Time
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, styles Styles) *Spinner {
	animate := false
	if f, ok := w.(*os.File); ok {
		animate = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Spinner{w: w, styles: styles, animate: animate, every: 100 * time.Millisecond}
}

// Start begins rendering message. Calling Start on a running spinner only
// updates the message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.setLocked(message)
		return
	}
	s.started = time.Now()
	s.setLocked(message)
	if !s.animate {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(message)
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	fmt.Fprint(s.w, "\r\033[K")
}

// Elapsed returns the time since Start.
func (s *Spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started).Round(time.Second)
}

func (s *Spinner) setLocked(message string) {
	if message == s.message {
		return
	}
	s.message = message
	if !s.animate {
		fmt.Fprintln(s.w, s.styles.Dim.Render("… "+message))
	}
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()
	for {
		s.render()
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	s.frame++
	elapsed := time.Since(s.started).Round(time.Second)
	fmt.Fprintf(s.w, "\r\033[K%s %s %s", s.styles.Label.Render(frame), s.message, s.styles.Dim.Render("("+elapsed.String()+")"))
}
