// Package driver executes a validated plan against the external content
// store, one row at a time. Drivers never abort the batch on a row's
// failure: every row yields exactly one outcome, and progress reporting is
// an observer the caller attaches, not part of driver control flow.
package driver

import (
	"context"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// Observer is invoked once per outcome, in row order. May be nil.
type Observer func(bulkurl.Outcome)

// Options configures the add-URLs driver.
type Options struct {
	// IfExists selects the policy for destinations already present in
	// the store: bulkurl.IfExistsSkip, bulkurl.IfExistsOverwrite, or
	// bulkurl.IfExistsDefault to let the store arbitrate.
	IfExists string

	// Fast registers URLs without downloading their content.
	Fast bool
}

// AddURLs registers each descriptor's URL as the content of its
// destination file. Rows are processed strictly in the order given; a
// failing row is reported and the batch continues.
func AddURLs(ctx context.Context, store bulkurl.Store, logger bulkurl.Logger,
	rows []bulkurl.Descriptor, opts Options, observe Observer) []bulkurl.Outcome {

	outcomes := make([]bulkurl.Outcome, 0, len(rows))
	emit := func(o bulkurl.Outcome) {
		outcomes = append(outcomes, o)
		if observe != nil {
			observe(o)
		}
	}

	for _, row := range rows {
		logger.Verbose("Adding URL %s as %s", row.URL, row.ContainerRel)

		if store.Exists(row.AbsPath) {
			switch opts.IfExists {
			case bulkurl.IfExistsSkip:
				emit(bulkurl.Outcome{
					Action: "addurl",
					Path:   row.AbsPath,
					Status: bulkurl.StatusNotNeeded,
				})
				continue
			case bulkurl.IfExistsOverwrite:
				logger.Verbose("Removing %s", row.AbsPath)
				if err := store.Remove(row.AbsPath); err != nil {
					emit(bulkurl.Outcome{
						Action:  "addurl",
						Path:    row.AbsPath,
						Status:  bulkurl.StatusError,
						Message: err.Error(),
					})
					continue
				}
			default:
				logger.Verbose("File %s already exists", row.AbsPath)
			}
		}

		if err := store.AddURL(ctx, row.ContainerPath, row.ContainerRel, row.URL, opts.Fast); err != nil {
			emit(bulkurl.Outcome{
				Action:  "addurl",
				Path:    row.AbsPath,
				Status:  bulkurl.StatusError,
				Message: err.Error(),
			})
			continue
		}

		emit(bulkurl.Outcome{
			Action: "addurl",
			Path:   row.AbsPath,
			Status: bulkurl.StatusOK,
		})
	}
	return outcomes
}

// AddMeta attaches each descriptor's metadata to its file, one store call
// per row with a non-empty field set. The store's per-field messages are
// suppressed so large batches do not flood the output.
func AddMeta(ctx context.Context, store bulkurl.Store, logger bulkurl.Logger,
	rows []bulkurl.Descriptor, observe Observer) []bulkurl.Outcome {

	outcomes := make([]bulkurl.Outcome, 0, len(rows))
	emit := func(o bulkurl.Outcome) {
		outcomes = append(outcomes, o)
		if observe != nil {
			observe(o)
		}
	}

	for _, row := range rows {
		if len(row.MetaArgs) == 0 {
			continue
		}
		logger.Verbose("Adding metadata to %s in %s", row.ContainerRel, row.ContainerPath)

		if err := store.SetMetadata(ctx, row.ContainerPath, row.ContainerRel, row.MetaArgs); err != nil {
			emit(bulkurl.Outcome{
				Action:  "metadata",
				Path:    row.AbsPath,
				Status:  bulkurl.StatusError,
				Message: err.Error(),
			})
			continue
		}

		emit(bulkurl.Outcome{
			Action: "metadata",
			Path:   row.AbsPath,
			Status: bulkurl.StatusOK,
		})
	}
	return outcomes
}
