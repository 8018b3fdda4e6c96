package calc

import (
	"strings"
	"sync"
)

// OrgSet is an immutable set of organization names.
type OrgSet map[string]struct{}

// NewOrgSet builds a set from names, ignoring blanks.
func NewOrgSet(names []string) OrgSet {
	set := make(OrgSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is in the set.
func (s OrgSet) Contains(name string) bool {
	_, ok := s[strings.TrimSpace(name)]
	return ok
}

// Names returns the members sorted.
func (s OrgSet) Names() []string {
	return SortedKeys(s)
}

// OrgRegistry holds the organization master loaded from the org file. It is
// created on first upload and replaced wholesale on re-upload; readers take
// a Snapshot and never see a half-replaced set.
type OrgRegistry struct {
	mu   sync.RWMutex
	orgs OrgSet
}

// NewOrgRegistry creates an empty registry.
func NewOrgRegistry() *OrgRegistry {
	return &OrgRegistry{orgs: OrgSet{}}
}

// Replace swaps in a new org master.
func (r *OrgRegistry) Replace(names []string) {
	next := NewOrgSet(names)
	r.mu.Lock()
	r.orgs = next
	r.mu.Unlock()
}

// Snapshot returns a copy of the current set.
func (r *OrgRegistry) Snapshot() OrgSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(OrgSet, len(r.orgs))
	for k := range r.orgs {
		cp[k] = struct{}{}
	}
	return cp
}

// Loaded reports whether an org master has been provided.
func (r *OrgRegistry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orgs) > 0
}
