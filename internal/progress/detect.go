package progress

import (
	"os"

	"golang.org/x/term"
)

// Mode represents how batch progress should be rendered.
type Mode int

const (
	// ModePlain logs one line per outcome. Used for CI/CD pipelines,
	// scripts, and piped output.
	ModePlain Mode = iota
	// ModeLive rewrites a styled counter line in place. Used when a
	// human is at the terminal.
	ModeLive
)

// DetectMode determines whether the reporter should render live progress.
//
// Returns ModePlain if:
//   - stdout is not a terminal (piped output, CI/CD)
//   - BULKURL_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//
// Returns ModeLive otherwise.
func DetectMode() Mode {
	if os.Getenv("BULKURL_NON_INTERACTIVE") == "1" {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModePlain
	}

	return ModeLive
}
