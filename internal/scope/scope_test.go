package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rapamazonia/assetregistry/internal/models"
)

func ptr(v int64) *int64 { return &v }

func TestResolveAdmin(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	dir := NameMap{3: "Direccion financiera", 7: "Gerencia"}

	t.Run("requesting all is unrestricted", func(t *testing.T) {
		f := Resolve(admin, ScopeAll, dir)

		assert.True(t, f.Unrestricted())
		assert.Equal(t, "All", f.Label())

		clause, args := f.SQL("a.committee_id")
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("requesting a committee restricts to it", func(t *testing.T) {
		f := Resolve(admin, 3, dir)

		assert.False(t, f.Unrestricted())
		id, ok := f.CommitteeID()
		assert.True(t, ok)
		assert.Equal(t, int64(3), id)
		assert.Equal(t, "Direccion financiera", f.Label())

		clause, args := f.SQL("a.committee_id")
		assert.Equal(t, "a.committee_id = ?", clause)
		assert.Equal(t, []any{int64(3)}, args)
	})

	t.Run("stale id stays restricted, never widens", func(t *testing.T) {
		f := Resolve(admin, 99, dir)

		assert.False(t, f.Unrestricted(), "a deleted scope must match zero rows, not all rows")
		id, ok := f.CommitteeID()
		assert.True(t, ok)
		assert.Equal(t, int64(99), id)
		assert.Equal(t, "Unknown", f.Label())
	})
}

func TestResolveOperator(t *testing.T) {
	operator := &models.User{
		ID:            2,
		Role:          models.RoleOperator,
		CommitteeID:   ptr(5),
		CommitteeName: "Control interno",
	}
	dir := NameMap{5: "Control interno", 7: "Gerencia"}

	t.Run("always pinned to assignment", func(t *testing.T) {
		for _, requested := range []int64{ScopeAll, 5, 7, 99} {
			f := Resolve(operator, requested, dir)

			assert.False(t, f.Unrestricted(), "requested=%d", requested)
			id, _ := f.CommitteeID()
			assert.Equal(t, int64(5), id, "requested=%d", requested)
			assert.Equal(t, "Control interno", f.Label())
		}
	})

	t.Run("label falls back to directory", func(t *testing.T) {
		bare := &models.User{ID: 3, Role: models.RoleOperator, CommitteeID: ptr(7)}
		f := Resolve(bare, ScopeAll, dir)
		assert.Equal(t, "Gerencia", f.Label())
	})

	t.Run("missing assignment matches nothing", func(t *testing.T) {
		broken := &models.User{ID: 4, Role: models.RoleOperator}
		f := Resolve(broken, ScopeAll, dir)

		assert.False(t, f.Unrestricted())
		id, _ := f.CommitteeID()
		assert.Equal(t, int64(0), id)
		assert.Equal(t, "Unknown", f.Label())
	})
}
