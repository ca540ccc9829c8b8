// Package registry implements the process-scoped reflective type
// registry shared by every compilation unit in a job: the fully
// qualified name ↔ numeric typeid bijection and the per-typeid ordered
// field table (spec §3, "Reflective registry entries").
package registry

import (
	"fmt"
	"sync"
)

// Field is one entry of a typeid's FieldTable: (field-name,
// field-type-name, count), where count = max(array-size, 1) (spec §3).
type Field struct {
	Name     string
	TypeName string
	Count    int
}

// Registry owns the TypeNameTable/FieldTable pair. It is safe for
// concurrent use by multiple units' codegen passes (spec §5: "registry
// access is mutex-protected").
type Registry struct {
	mu      sync.Mutex
	nextID  int
	byName  map[string]int
	byID    []string
	fields  map[int][]Field
	hasMain bool
}

// New returns an empty Registry with typeid allocation starting at 0.
func New() *Registry {
	return &Registry{
		byName: make(map[string]int),
		fields: make(map[int][]Field),
	}
}

// Register assigns the next typeid to qualifiedName and records its
// field table. Registering the same qualified name twice within a job
// is Fatal (spec §3 invariant): the caller is expected to surface the
// returned error as a Fatal diagnostic.
func (r *Registry) Register(qualifiedName string, fields []Field) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[qualifiedName]; exists {
		return 0, fmt.Errorf("registry: %q already registered", qualifiedName)
	}

	id := r.nextID
	r.nextID++
	r.byName[qualifiedName] = id
	r.byID = append(r.byID, qualifiedName)
	r.fields[id] = fields
	return id, nil
}

// TypeID returns the typeid assigned to qualifiedName, if any.
func (r *Registry) TypeID(qualifiedName string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[qualifiedName]
	return id, ok
}

// QualifiedName returns the name assigned to id, if any.
func (r *Registry) QualifiedName(id int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 0 || id >= len(r.byID) {
		return "", false
	}
	return r.byID[id], true
}

// Fields returns the field table for id, in registration order.
func (r *Registry) Fields(id int) []Field {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Field(nil), r.fields[id]...)
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ClaimMain atomically checks and sets the job-wide "has a main
// trampoline" flag, returning false if one was already claimed (spec
// §4.4: "double main is Fatal").
func (r *Registry) ClaimMain() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasMain {
		return false
	}
	r.hasMain = true
	return true
}

// Snapshot is an opaque, point-in-time copy of registry state, used to
// roll a unit's registrations back on failure (spec §5). It mirrors the
// Begin/Commit/Rollback transaction protocol: Snapshot is Begin,
// discarding the snapshot is Commit, Restore is Rollback.
type Snapshot struct {
	nextID  int
	byName  map[string]int
	byID    []string
	fields  map[int][]Field
	hasMain bool
}

// Snapshot captures the current registry state.
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		nextID:  r.nextID,
		byName:  make(map[string]int, len(r.byName)),
		byID:    append([]string(nil), r.byID...),
		fields:  make(map[int][]Field, len(r.fields)),
		hasMain: r.hasMain,
	}
	for k, v := range r.byName {
		s.byName[k] = v
	}
	for k, v := range r.fields {
		s.fields[k] = append([]Field(nil), v...)
	}
	return s
}

// Restore rolls the registry back to a previously captured Snapshot,
// discarding every registration made since (spec §5: unit rollback on a
// failed compilation unit must not leak typeids into subsequent units).
func (r *Registry) Restore(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID = s.nextID
	r.byName = s.byName
	r.byID = s.byID
	r.fields = s.fields
	r.hasMain = s.hasMain
}
