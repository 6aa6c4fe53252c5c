// Package progress renders batch outcomes as they arrive. Progress is an
// observer the caller attaches to a driver run, never part of driver
// control flow.
package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// Color palette - keeping it minimal and accessible.
var (
	colorSuccess = lipgloss.Color("34")  // Green
	colorError   = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	failedStyle  = lipgloss.NewStyle().Foreground(colorError)
	skippedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Reporter counts outcomes and renders them according to its mode. Not
// safe for concurrent use; drivers invoke the observer sequentially.
type Reporter struct {
	label   string
	mode    Mode
	out     io.Writer
	logger  bulkurl.Logger
	total   int
	done    int
	ok      int
	skipped int
	failed  int
}

// NewReporter creates a Reporter for a batch of total rows.
// Panics if out or logger is nil.
func NewReporter(label string, total int, mode Mode, out io.Writer, logger bulkurl.Logger) *Reporter {
	if out == nil {
		panic("out cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Reporter{label: label, total: total, mode: mode, out: out, logger: logger}
}

// Observe consumes one outcome. Pass this method as the driver's observer.
func (r *Reporter) Observe(outcome bulkurl.Outcome) {
	r.done++
	switch outcome.Status {
	case bulkurl.StatusOK:
		r.ok++
	case bulkurl.StatusNotNeeded:
		r.skipped++
	case bulkurl.StatusError:
		r.failed++
	}

	if r.mode == ModeLive {
		fmt.Fprintf(r.out, "\r\033[K%s", r.line())
		return
	}

	switch outcome.Status {
	case bulkurl.StatusError:
		r.logger.Error("%s failed for %s: %s", outcome.Action, outcome.Path, outcome.Message)
	case bulkurl.StatusNotNeeded:
		r.logger.Verbose("%s skipped for %s", outcome.Action, outcome.Path)
	default:
		r.logger.Verbose("%s ok for %s", outcome.Action, outcome.Path)
	}
}

// Finish ends the live line and logs the batch summary.
func (r *Reporter) Finish() {
	if r.mode == ModeLive {
		fmt.Fprintf(r.out, "\r\033[K%s\n", r.line())
		return
	}
	r.logger.Info("%s: %d/%d done, %d failed, %d skipped",
		r.label, r.done, r.total, r.failed, r.skipped)
}

func (r *Reporter) line() string {
	parts := []string{fmt.Sprintf("%s %d/%d", r.label, r.done, r.total)}
	if r.ok > 0 {
		parts = append(parts, okStyle.Render(fmt.Sprintf("%d ok", r.ok)))
	}
	if r.skipped > 0 {
		parts = append(parts, skippedStyle.Render(fmt.Sprintf("%d skipped", r.skipped)))
	}
	if r.failed > 0 {
		parts = append(parts, failedStyle.Render(fmt.Sprintf("%d failed", r.failed)))
	}
	return strings.Join(parts, "  ")
}
