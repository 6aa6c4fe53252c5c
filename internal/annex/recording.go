package annex

import (
	"context"
	"fmt"
	"sync"
)

// Call records one mutation issued to a RecordingStore.
type Call struct {
	Op     string // "remove", "addurl", "metadata", "container", "commit"
	Dir    string
	Path   string
	URL    string
	Fast   bool
	Fields map[string]string
}

// RecordingStore is an in-memory bulkurl.Store that records every call.
// Tests use it to assert driver behavior, and the dry-run tests use it to
// prove that planning performs zero mutations.
type RecordingStore struct {
	mu sync.Mutex

	// Existing seeds the set of paths Exists reports as present.
	Existing map[string]bool

	// FailAdds maps absolute-path suffixes of AddURL targets to the error
	// message the call should fail with.
	FailAdds map[string]string

	// Calls holds every mutation in issue order.
	Calls []Call
}

// NewRecordingStore creates an empty RecordingStore.
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{
		Existing: make(map[string]bool),
		FailAdds: make(map[string]string),
	}
}

// Exists reports whether path was seeded as existing.
func (s *RecordingStore) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Existing[path]
}

// Remove records the removal and clears the existing flag.
func (s *RecordingStore) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Existing, path)
	s.Calls = append(s.Calls, Call{Op: "remove", Path: path})
	return nil
}

// AddURL records the addition, failing if the target was scripted to fail.
func (s *RecordingStore) AddURL(ctx context.Context, dir, path, url string, fast bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Op: "addurl", Dir: dir, Path: path, URL: url, Fast: fast})
	if msg, ok := s.FailAdds[path]; ok {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// SetMetadata records the metadata call.
func (s *RecordingStore) SetMetadata(ctx context.Context, dir, path string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.Calls = append(s.Calls, Call{Op: "metadata", Dir: dir, Path: path, Fields: copied})
	return nil
}

// CreateContainer records the container creation.
func (s *RecordingStore) CreateContainer(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Op: "container", Path: path})
	return nil
}

// Commit records the commit.
func (s *RecordingStore) Commit(ctx context.Context, dir, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Op: "commit", Dir: dir, Path: message})
	return nil
}

// CallsFor returns the recorded calls matching op.
func (s *RecordingStore) CallsFor(op string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
