// Package scope derives the committee filter a caller is allowed to query
// with. Resolution is a pure function of the caller, the requested viewing
// scope and a snapshot of committee names; it never touches storage and is
// safe to run on every request.
package scope

import "github.com/rapamazonia/assetregistry/internal/models"

// ScopeAll is the requested-scope value meaning "no committee filter".
// Only admins can actually obtain the unrestricted view.
const ScopeAll int64 = 0

// Labels for the two scope edge cases.
const (
	labelAll     = "All"
	labelUnknown = "Unknown"
)

// Directory resolves committee ids to display names for labeling.
// Implementations must not mutate anything.
type Directory interface {
	CommitteeName(id int64) (string, bool)
}

// NameMap is a map-backed Directory, typically built from a committee
// listing taken at the start of the request.
type NameMap map[int64]string

// CommitteeName implements Directory.
func (m NameMap) CommitteeName(id int64) (string, bool) {
	name, ok := m[id]
	return name, ok
}

// Filter is the resolved visibility predicate: either unrestricted, or
// bound to exactly one committee id. The zero value restricts to committee
// 0, which matches no rows; callers should always go through Resolve.
type Filter struct {
	all         bool
	committeeID int64
	label       string
}

// All returns the unrestricted filter.
func All() Filter {
	return Filter{all: true, label: labelAll}
}

// Committee returns a filter bound to the given committee id.
func Committee(id int64, label string) Filter {
	return Filter{committeeID: id, label: label}
}

// Unrestricted reports whether the filter matches every row.
func (f Filter) Unrestricted() bool {
	return f.all
}

// CommitteeID returns the bound committee id; ok is false when the filter
// is unrestricted.
func (f Filter) CommitteeID() (id int64, ok bool) {
	if f.all {
		return 0, false
	}
	return f.committeeID, true
}

// Label is the display name of the resolved scope: a committee name,
// "All", or "Unknown" for a stale id.
func (f Filter) Label() string {
	return f.label
}

// SQL renders the predicate for the given column reference, e.g.
// "a.committee_id". An unrestricted filter renders to an empty clause.
// The caller is responsible for joining the clause with WHERE or AND.
func (f Filter) SQL(column string) (clause string, args []any) {
	if f.all {
		return "", nil
	}
	return column + " = ?", []any{f.committeeID}
}

// Resolve computes the filter for a caller.
//
//   - ADMIN requesting ScopeAll: unrestricted.
//   - ADMIN requesting a committee id: bound to that id. If the id no
//     longer exists the filter still applies (matching nothing) under the
//     label "Unknown"; a stale id must never widen to the global view.
//   - OPERATOR: always bound to the assigned committee, whatever was
//     requested. Operators cannot widen their own scope.
//
// Every input combination has a defined result; Resolve never fails.
func Resolve(caller *models.User, requested int64, dir Directory) Filter {
	if caller.Role == models.RoleAdmin {
		if requested == ScopeAll {
			return All()
		}
		if name, ok := dir.CommitteeName(requested); ok {
			return Committee(requested, name)
		}
		return Committee(requested, labelUnknown)
	}

	// Operator. A nil assignment violates the data invariant; bind to
	// committee 0 so the query still runs and returns nothing.
	if caller.CommitteeID == nil {
		return Committee(0, labelUnknown)
	}
	id := *caller.CommitteeID
	if caller.CommitteeName != "" {
		return Committee(id, caller.CommitteeName)
	}
	if name, ok := dir.CommitteeName(id); ok {
		return Committee(id, name)
	}
	return Committee(id, labelUnknown)
}
