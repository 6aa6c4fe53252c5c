package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user before existing files are
// removed by the overwrite policy.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover(verbose bool) bulkurl.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   os.Stdin,
		output:  os.Stderr,
	}
}

// RequestApproval prompts the user to confirm the removals.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, datasetPath string, removals int) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: %d existing file(s) in '%s' will be removed and re-added\n",
		removals, datasetPath)
	fmt.Fprint(a.output, "Continue? Type 'yes' and press Enter: ")

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if strings.EqualFold(input, "yes") {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with overwrite...")
			return true, nil
		}
		fmt.Fprintln(a.output, "✗ Operation cancelled.")
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ bulkurl.Approver = (*InteractiveApprover)(nil)
