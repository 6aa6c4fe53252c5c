package resolve

import (
	"strconv"

	"github.com/vvka-141/bulkurl/pkg/bulkurl"
)

// RepResolver wraps a Resolver to keep file names distinct across one run.
// It exposes the synthetic bulkurl.RepIndexField placeholder, whose value
// increments each time a resolved result repeats.
//
// The seen-results table is run-scoped mutable state: create one RepResolver
// per extraction run, and do not share it between goroutines. Callers that
// shard rows across parallel runs must partition by destination up front and
// re-check uniqueness after merging.
type RepResolver struct {
	resolver *Resolver
	repeats  map[string]int
	repindex int
}

// NewRep creates a RepResolver around resolver.
// Panics if resolver is nil.
func NewRep(resolver *Resolver) *RepResolver {
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	return &RepResolver{
		resolver: resolver,
		repeats:  make(map[string]int),
	}
}

// Resolve renders tmpl with the repetition index available as a field.
// The first resolution uses index 0. If the result was already produced in
// this run, the repeat count for that result is incremented and the template
// is rendered once more with the new index; that second result is
// authoritative and is returned even if the template never references the
// index (a collision the caller detects with the whole-batch check).
func (rr *RepResolver) Resolve(tmpl *Template, row Row) (string, error) {
	rr.repindex = 0
	result, err := rr.render(tmpl, row)
	if err != nil {
		return "", err
	}

	if count, seen := rr.repeats[result]; seen {
		rr.repindex = count + 1
		rr.repeats[result] = rr.repindex
		return rr.render(tmpl, row)
	}
	rr.repeats[result] = 0
	return result, nil
}

func (rr *RepResolver) render(tmpl *Template, row Row) (string, error) {
	enriched := make(Row, len(row)+1)
	for k, v := range row {
		enriched[k] = v
	}
	enriched[bulkurl.RepIndexField] = strconv.Itoa(rr.repindex)
	return rr.resolver.Resolve(tmpl, enriched)
}
