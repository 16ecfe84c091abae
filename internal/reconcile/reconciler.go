package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rapamazonia/assetregistry/internal/models"
)

// Store is the slice of persistence the reconciler needs.
type Store interface {
	// EnsureCommittee inserts a committee by exact name if absent.
	EnsureCommittee(ctx context.Context, name string) error

	// ListCommittees returns all committee rows.
	ListCommittees(ctx context.Context) ([]models.Committee, error)

	// MergeCommitteeGroup repoints dependents and deletes the duplicates
	// in one transaction, returning the number of repointed rows.
	MergeCommitteeGroup(ctx context.Context, canonicalID int64, duplicates []int64) (int64, error)

	// CountDanglingRefs counts dependent rows referencing a missing
	// committee.
	CountDanglingRefs(ctx context.Context) (int64, error)
}

// Group is one normalized-name cluster slated for merging.
type Group struct {
	// Name is the canonical display name from the configured vocabulary.
	Name string
	// Normalized is the comparison key shared by every member.
	Normalized string
	// CanonicalID is the minimum id in the cluster; that row survives.
	CanonicalID int64
	// Duplicates are the ids to be repointed away from and deleted,
	// ascending.
	Duplicates []int64
}

// Report summarizes one reconciliation run.
type Report struct {
	// Merged lists the groups that actually had duplicates.
	Merged []Group
	// Repointed is the total number of dependent rows updated.
	Repointed int64
	// Deleted is the total number of duplicate committee rows removed.
	Deleted int
	// Remaining is the committee count after the run.
	Remaining int
}

// PlanGroups computes the merge plan for the given committee rows against
// the canonical vocabulary. Pure; rows not matching any canonical name are
// left alone. Groups come back in vocabulary order, duplicates ascending.
func PlanGroups(rows []models.Committee, canonical []string) []Group {
	byNorm := make(map[string][]models.Committee)
	for _, row := range rows {
		key := Normalize(row.Name)
		byNorm[key] = append(byNorm[key], row)
	}

	var groups []Group
	for _, name := range canonical {
		key := Normalize(name)
		members := byNorm[key]
		if len(members) == 0 {
			continue
		}

		g := Group{Name: name, Normalized: key}
		g.CanonicalID = members[0].ID
		for _, m := range members[1:] {
			if m.ID < g.CanonicalID {
				g.CanonicalID = m.ID
			}
		}
		for _, m := range members {
			if m.ID != g.CanonicalID {
				g.Duplicates = append(g.Duplicates, m.ID)
			}
		}
		sortIDs(g.Duplicates)
		groups = append(groups, g)
	}
	return groups
}

func sortIDs(ids []int64) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// Reconciler runs the dedup pass against a store.
type Reconciler struct {
	store  Store
	logger *slog.Logger
}

// New creates a Reconciler.
func New(store Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, logger: logger}
}

// Run executes one reconciliation pass:
//
//  1. seed every canonical name (insert-if-absent by exact name),
//  2. group existing rows by normalized name,
//  3. per group, repoint dependents to the minimum id and delete the
//     duplicates in one transaction,
//  4. verify no dependent row dangles and each group collapsed to one row.
//
// A failing group rolls back alone and does not stop the others; the
// failures come back joined. Re-running converges: seeding and grouping
// are pure recomputation and merging is repoint-then-delete, so a partial
// run leaves nothing a second run cannot finish.
func (r *Reconciler) Run(ctx context.Context, canonical []string) (*Report, error) {
	for _, name := range canonical {
		if err := r.store.EnsureCommittee(ctx, name); err != nil {
			return nil, fmt.Errorf("seeding canonical committees: %w", err)
		}
	}

	rows, err := r.store.ListCommittees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing committees: %w", err)
	}

	report := &Report{}
	var errs []error
	for _, g := range PlanGroups(rows, canonical) {
		if len(g.Duplicates) == 0 {
			continue
		}

		repointed, err := r.store.MergeCommitteeGroup(ctx, g.CanonicalID, g.Duplicates)
		if err != nil {
			r.logger.Error("group merge failed, rolled back",
				"committee", g.Name,
				"canonical_id", g.CanonicalID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("merging %q: %w", g.Name, err))
			continue
		}

		r.logger.Info("merged duplicate committees",
			"committee", g.Name,
			"canonical_id", g.CanonicalID,
			"duplicates", len(g.Duplicates),
			"repointed", repointed,
		)
		report.Merged = append(report.Merged, g)
		report.Repointed += repointed
		report.Deleted += len(g.Duplicates)
	}

	if err := r.verify(ctx, canonical, report); err != nil {
		errs = append(errs, err)
	}

	return report, errors.Join(errs...)
}

// verify checks the postconditions: every normalized canonical name has at
// most one surviving row and no dependent row references a missing
// committee.
func (r *Reconciler) verify(ctx context.Context, canonical []string, report *Report) error {
	rows, err := r.store.ListCommittees(ctx)
	if err != nil {
		return fmt.Errorf("verifying committees: %w", err)
	}
	report.Remaining = len(rows)

	inVocabulary := make(map[string]bool, len(canonical))
	for _, name := range canonical {
		inVocabulary[Normalize(name)] = true
	}

	// Only vocabulary names were merged; unrelated rows may share
	// normalized forms without being this run's problem.
	seen := make(map[string]int64)
	for _, row := range rows {
		key := Normalize(row.Name)
		if !inVocabulary[key] {
			continue
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("duplicate rows %d and %d survived for %q", prev, row.ID, key)
		}
		seen[key] = row.ID
	}

	dangling, err := r.store.CountDanglingRefs(ctx)
	if err != nil {
		return fmt.Errorf("verifying references: %w", err)
	}
	if dangling > 0 {
		return fmt.Errorf("%d dependent rows reference a deleted committee", dangling)
	}
	return nil
}
