package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// ForcedApprover implements the Approver interface for forced
// (non-interactive) approval. It logs a warning and automatically approves,
// used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover(verbose bool) bulkurl.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
	}
}

// RequestApproval warns about the pending removals and approves.
func (a *ForcedApprover) RequestApproval(ctx context.Context, datasetPath string, removals int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(a.output, "⚠️  Overwriting %d existing file(s) in '%s' (--force given)\n",
		removals, datasetPath)
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ bulkurl.Approver = (*ForcedApprover)(nil)
