// Package progress animates a spinner while one long-running step executes
// and then prints the step's outcome.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Glyphs printed once a step finishes.
const (
	DoneMark = "✓"
	FailMark = "✗"
)

// Indicator renders step progress to W.
type Indicator struct {
	W       io.Writer
	Spinner spinner.Spinner
	// Animate redraws spinner frames while a step runs. New enables it only
	// when W is a terminal.
	Animate bool
}

// New returns an Indicator writing to w with the dot spinner.
func New(w io.Writer) *Indicator {
	return &Indicator{W: w, Spinner: spinner.Dot, Animate: isTerminal(w)}
}

// Run executes fn on a background goroutine and polls for its completion,
// redrawing the spinner at the spinner's frame rate. It then prints a check
// mark or a cross next to label and returns fn's error.
func (ind *Indicator) Run(label string, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	var err error
	if ind.Animate && len(ind.Spinner.Frames) > 0 {
		err = ind.poll(label, done)
	} else {
		err = <-done
	}

	if err != nil {
		fmt.Fprintf(ind.W, "%s %s\n", errorStyle.Render(FailMark), label)
		return err
	}
	fmt.Fprintf(ind.W, "%s %s\n", successStyle.Render(DoneMark), label)
	return nil
}

func (ind *Indicator) poll(label string, done <-chan error) error {
	fps := ind.Spinner.FPS
	if fps <= 0 {
		fps = time.Second / 10
	}
	ticker := time.NewTicker(fps)
	defer ticker.Stop()

	frame := 0
	for {
		fmt.Fprintf(ind.W, "\r%s %s", spinnerStyle.Render(ind.Spinner.Frames[frame]), label)
		select {
		case err := <-done:
			// Clear the spinner line before the final status is printed.
			fmt.Fprint(ind.W, "\r\033[K")
			return err
		case <-ticker.C:
			frame = (frame + 1) % len(ind.Spinner.Frames)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
