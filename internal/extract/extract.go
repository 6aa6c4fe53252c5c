// Package extract orchestrates template resolution over a whole record
// set: a URL pass that drops rows without a usable URL and collects
// metadata, then a filename pass that disambiguates repeated names and
// splits container boundaries.
package extract

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/vvka-141/bulkurl/internal/metafield"
	"github.com/vvka-141/bulkurl/internal/resolve"
	"github.com/vvka-141/bulkurl/internal/source"
	"github.com/vvka-141/bulkurl/internal/subpath"
	"github.com/vvka-141/bulkurl/internal/urlname"
	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// Options configures one extraction run.
type Options struct {
	// URLFormat resolves each row's download URL.
	URLFormat string

	// FilenameFormat resolves each row's destination path.
	FilenameFormat string

	// Meta holds explicit "field={placeholder}" metadata templates.
	Meta []string

	// ExcludeAutometa excludes matching field names from automatic
	// metadata. "*", or an explicitly supplied empty value, disables
	// automatic metadata entirely.
	ExcludeAutometa string

	// ExcludeAutometaSet distinguishes an explicit empty ExcludeAutometa
	// from the default.
	ExcludeAutometaSet bool

	// MissingValue substitutes empty field values during resolution, and
	// marks resolved URLs equal to it as missing. Only honored when
	// HasMissing is set.
	MissingValue string
	HasMissing   bool
}

// Extractor runs the extraction pipeline.
// Each Extract call creates its own disambiguation state, so a single
// Extractor may serve sequential runs; calls must not run concurrently.
type Extractor struct {
	logger bulkurl.Logger
}

// New creates an Extractor.
// Panics if logger is nil.
func New(logger bulkurl.Logger) *Extractor {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Extractor{logger: logger}
}

// Extract resolves recs into one descriptor per surviving row plus the
// sorted set of container boundary paths crossed by any filename.
//
// Rows whose resolved URL is empty (or equals the missing value) are
// dropped with a single aggregate warning. File name uniqueness across the
// returned descriptors is the caller's responsibility.
func (e *Extractor) Extract(recs *source.RecordSet, opts Options) ([]bulkurl.Descriptor, []string, error) {
	urlTmpl, err := resolve.Parse(opts.URLFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid url format: %w", err)
	}
	fnameTmpl, err := resolve.Parse(opts.FilenameFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid filename format: %w", err)
	}

	var resolver *resolve.Resolver
	if opts.HasMissing {
		resolver = resolve.NewWithMissing(recs.IdxToName, opts.MissingValue)
	} else {
		resolver = resolve.New(recs.IdxToName)
	}

	metaFormats, err := e.metaTemplates(recs, urlTmpl, opts)
	if err != nil {
		return nil, nil, err
	}

	// URL pass: resolve URLs, drop rows without one, collect metadata.
	var descriptors []bulkurl.Descriptor
	var survivors []resolve.Row
	for _, row := range recs.Rows {
		url, err := resolver.Resolve(urlTmpl, row)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", err, bulkurl.ErrInvalidConfig)
		}
		if url == "" || (opts.HasMissing && url == opts.MissingValue) {
			continue
		}

		metaArgs := make(map[string]string)
		for _, tmpl := range metaFormats {
			arg, err := resolver.Resolve(tmpl, row)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %w", err, bulkurl.ErrInvalidConfig)
			}
			field, value, ok, err := metafield.ParseArg(arg)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				continue
			}
			metaArgs[field] = value
		}

		// Work on a copy so URL-derived fields never leak into the
		// caller's record set.
		working := make(resolve.Row, len(row))
		for k, v := range row {
			working[k] = v
		}
		survivors = append(survivors, working)
		descriptors = append(descriptors, bulkurl.Descriptor{URL: url, MetaArgs: metaArgs})
	}

	if dropped := len(recs.Rows) - len(survivors); dropped > 0 {
		e.logger.Warning("Dropped %d row(s) that had an empty URL", dropped)
	}

	// Filename pass, with URL-derived fields only when the template
	// actually references them.
	if fnameTmpl.ReferencesPrefix(bulkurl.URLFieldPrefix) {
		for i, row := range survivors {
			for name, value := range urlname.Derive(descriptors[i].URL) {
				row[name] = value
			}
		}
	}

	rep := resolve.NewRep(resolver)
	boundarySet := make(map[string]struct{})
	for i, row := range survivors {
		filename, err := rep.Resolve(fnameTmpl, row)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", err, bulkurl.ErrInvalidConfig)
		}
		flat, boundaries := subpath.Split(filename)
		for _, b := range boundaries {
			boundarySet[b] = struct{}{}
		}
		descriptors[i].Filename = flat
		if len(boundaries) > 0 {
			descriptors[i].Subpath = boundaries[len(boundaries)-1]
		}
	}

	subpaths := make([]string, 0, len(boundarySet))
	for b := range boundarySet {
		subpaths = append(subpaths, b)
	}
	sort.Strings(subpaths)

	return descriptors, subpaths, nil
}

// metaTemplates parses the explicit metadata templates and synthesizes the
// automatic ones: one "name={name}" template per field of the first record,
// excluding the URL column (when the URL template is a single bare
// placeholder), any field matching the exclusion pattern, and any field
// name the store would reject.
func (e *Extractor) metaTemplates(recs *source.RecordSet, urlTmpl *resolve.Template, opts Options) ([]*resolve.Template, error) {
	var templates []*resolve.Template
	for _, m := range opts.Meta {
		tmpl, err := resolve.Parse(m)
		if err != nil {
			return nil, fmt.Errorf("invalid meta format: %w", err)
		}
		templates = append(templates, tmpl)
	}

	disabled := opts.ExcludeAutometa == "*" ||
		(opts.ExcludeAutometaSet && opts.ExcludeAutometa == "")
	if disabled || len(recs.Rows) == 0 {
		return templates, nil
	}

	urlCol, _ := urlTmpl.SingleName(recs.IdxToName)

	var cols []string
	for name := range recs.Rows[0] {
		if name != urlCol {
			cols = append(cols, name)
		}
	}
	sort.Strings(cols)

	if opts.ExcludeAutometa != "" {
		re, err := regexp.Compile(opts.ExcludeAutometa)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude-autometa pattern %q: %w: %w",
				opts.ExcludeAutometa, err, bulkurl.ErrInvalidConfig)
		}
		kept := cols[:0]
		for _, c := range cols {
			if !re.MatchString(c) {
				kept = append(kept, c)
			}
		}
		cols = kept
	}

	for _, c := range metafield.FilterLegal(cols, e.logger) {
		tmpl, err := resolve.Parse(c + "=" + "{" + c + "}")
		if err != nil {
			return nil, fmt.Errorf("invalid auto-derived meta template for %q: %w", c, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
