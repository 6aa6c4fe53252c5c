// Package services wires the record source, extraction pipeline, and
// execution drivers into the ingestion workflows the CLI exposes.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/vvka-141/bulkurl/internal/driver"
	"github.com/vvka-141/bulkurl/internal/extract"
	"github.com/vvka-141/bulkurl/internal/source"
	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// StoreFactory opens the content store rooted at datasetPath. It is only
// invoked for runs that mutate the store; a dry run never calls it.
type StoreFactory func(datasetPath string) (bulkurl.Store, error)

// Ingester implements the ingestion workflows.
// Thread-Safety: NOT safe for concurrent calls on the same instance.
// Create separate instances for concurrent runs.
type Ingester struct {
	storeFactory StoreFactory
	approver     bulkurl.Approver
	logger       bulkurl.Logger
}

// NewIngester creates a new Ingester with all dependencies injected.
// Panics on nil dependencies: those are programmer errors that should fail
// loudly at startup, not during a batch.
func NewIngester(storeFactory StoreFactory, approver bulkurl.Approver, logger bulkurl.Logger) *Ingester {
	if storeFactory == nil {
		panic("storeFactory cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Ingester{
		storeFactory: storeFactory,
		approver:     approver,
		logger:       logger,
	}
}

// Plan reads the record source, runs the extraction pipeline, and enforces
// the whole-batch uniqueness invariant. It performs no store mutation.
func (s *Ingester) Plan(ctx context.Context, cfg bulkurl.IngestConfig) (*bulkurl.Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	recs, err := s.readSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	descriptors, subpaths, err := extract.New(s.logger).Extract(recs, extract.Options{
		URLFormat:          cfg.URLFormat,
		FilenameFormat:     cfg.FilenameFormat,
		Meta:               cfg.Meta,
		ExcludeAutometa:    cfg.ExcludeAutometa,
		ExcludeAutometaSet: cfg.ExcludeAutometaSet,
		MissingValue:       cfg.MissingValue,
		HasMissing:         cfg.MissingValue != "",
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		seen[d.Filename] = struct{}{}
	}
	if len(seen) != len(descriptors) {
		return nil, fmt.Errorf(
			"%d resolved file name(s) collide; consider adding {%s} to the filename format: %w",
			len(descriptors)-len(seen), bulkurl.RepIndexField, bulkurl.ErrCollision)
	}

	plan := &bulkurl.Plan{
		RunID:       uuid.New(),
		Descriptors: descriptors,
		Subpaths:    subpaths,
	}
	s.annotate(cfg, plan)

	s.logger.Verbose("Planned run %s: %d file(s), %d container(s)",
		plan.RunID, len(plan.Descriptors), len(plan.Subpaths))
	return plan, nil
}

// Report logs the planned container creations, url to filename mappings,
// and metadata without touching the store. This is the dry-run output.
func (s *Ingester) Report(cfg bulkurl.IngestConfig, plan *bulkurl.Plan) {
	for _, sp := range plan.Subpaths {
		s.logger.Info("Would create a subdataset at %s", sp)
	}
	for _, d := range plan.Descriptors {
		s.logger.Info("Would download %s to %s", d.URL, d.AbsPath)
		s.logger.Info("Metadata: %v", sortedMetaArgs(d.MetaArgs))
	}
	s.logger.Info("Dry-run finished")
}

// Apply executes the plan against the content store: creates missing
// containers, drives the add-URLs pass, commits, and attaches metadata to
// the files that were added. Per-row store failures are reported in the
// returned outcomes and never abort the batch.
func (s *Ingester) Apply(ctx context.Context, cfg bulkurl.IngestConfig, plan *bulkurl.Plan, observe driver.Observer) ([]bulkurl.Outcome, error) {
	store, err := s.storeFactory(cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open content store: %w", err)
	}

	if cfg.IfExists == bulkurl.IfExistsOverwrite {
		removals := 0
		for _, d := range plan.Descriptors {
			if store.Exists(d.AbsPath) {
				removals++
			}
		}
		if removals > 0 {
			approved, err := s.approver.RequestApproval(ctx, cfg.DatasetPath, removals)
			if err != nil {
				return nil, fmt.Errorf("approval failed: %w", err)
			}
			if !approved {
				return nil, fmt.Errorf("overwrite of %d file(s) not approved: %w",
					removals, bulkurl.ErrApprovalDenied)
			}
		}
	}

	for _, sp := range plan.Subpaths {
		full := filepath.Join(cfg.DatasetPath, sp)
		if store.Exists(full) {
			s.logger.Warning("Not creating subdataset at existing path: %s", sp)
			continue
		}
		if err := store.CreateContainer(ctx, full); err != nil {
			return nil, fmt.Errorf("failed to create subdataset at %s: %w", sp, err)
		}
	}

	outcomes := driver.AddURLs(ctx, store, s.logger, plan.Descriptors, driver.Options{
		IfExists: cfg.IfExists,
		Fast:     cfg.Fast,
	}, observe)

	added := make(map[string]struct{})
	failed := 0
	for _, o := range outcomes {
		if o.Status == bulkurl.StatusOK {
			added[o.Path] = struct{}{}
		} else if o.Status == bulkurl.StatusError {
			failed++
		}
	}

	if len(added) > 0 {
		if err := store.Commit(ctx, cfg.DatasetPath, s.commitMessage(cfg, plan)); err != nil {
			return outcomes, fmt.Errorf("failed to commit additions: %w", err)
		}

		metaRows := make([]bulkurl.Descriptor, 0, len(added))
		for _, d := range plan.Descriptors {
			if _, ok := added[d.AbsPath]; ok {
				metaRows = append(metaRows, d)
			}
		}
		outcomes = append(outcomes, driver.AddMeta(ctx, store, s.logger, metaRows, observe)...)
	} else if failed > 0 {
		return outcomes, fmt.Errorf("no file was added: %w", bulkurl.ErrStoreFailed)
	}

	return outcomes, nil
}

// Run is the end-to-end workflow: plan, then either report (dry run) or
// apply.
func (s *Ingester) Run(ctx context.Context, cfg bulkurl.IngestConfig, observe driver.Observer) ([]bulkurl.Outcome, error) {
	plan, err := s.Plan(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.DryRun {
		s.Report(cfg, plan)
		return nil, nil
	}
	return s.Apply(ctx, cfg, plan, observe)
}

func (s *Ingester) readSource(ctx context.Context, cfg bulkurl.IngestConfig) (*source.RecordSet, error) {
	inputType, err := source.DetectType(cfg.URLFile, cfg.InputType)
	if err != nil {
		return nil, err
	}
	if inputType == bulkurl.InputTypePostgres {
		query, err := os.ReadFile(cfg.URLFile)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%s: %w", cfg.URLFile, bulkurl.ErrSourceNotFound)
			}
			return nil, fmt.Errorf("failed to read query file: %w", err)
		}
		return source.ReadQuery(ctx, cfg.Connection, string(query))
	}
	return source.ReadFile(cfg.URLFile, inputType)
}

// annotate fills in the execution bookkeeping: absolute path, owning
// container, and container-relative path for each descriptor.
func (s *Ingester) annotate(cfg bulkurl.IngestConfig, plan *bulkurl.Plan) {
	for i := range plan.Descriptors {
		d := &plan.Descriptors[i]
		d.AbsPath = filepath.Join(cfg.DatasetPath, filepath.FromSlash(d.Filename))
		if d.Subpath != "" {
			d.ContainerPath = filepath.Join(cfg.DatasetPath, filepath.FromSlash(d.Subpath))
		} else {
			d.ContainerPath = cfg.DatasetPath
		}
		if rel, err := filepath.Rel(d.ContainerPath, d.AbsPath); err == nil {
			d.ContainerRel = rel
		} else {
			d.ContainerRel = filepath.FromSlash(d.Filename)
		}
	}
}

func (s *Ingester) commitMessage(cfg bulkurl.IngestConfig, plan *bulkurl.Plan) string {
	if cfg.Message != "" {
		return cfg.Message
	}
	return fmt.Sprintf(`add files from URLs

run_id=%s
url_file=%q
url_format=%q
filename_format=%q`, plan.RunID, cfg.URLFile, cfg.URLFormat, cfg.FilenameFormat)
}

func sortedMetaArgs(metaArgs map[string]string) []string {
	args := make([]string, 0, len(metaArgs))
	for field, value := range metaArgs {
		args = append(args, field+"="+value)
	}
	sort.Strings(args)
	return args
}
