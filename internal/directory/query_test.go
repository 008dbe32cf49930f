package directory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/userdir/directory-service/internal/directory"
	"github.com/userdir/directory-service/internal/domain"
)

func TestQuery(t *testing.T) {
	a := record("a@x.com", domain.RoleEmployee)
	b := record("b@x.com", domain.RoleRecruiter)
	pair := []domain.UserRecord{a, b}

	t.Run("SearchByEmail", func(t *testing.T) {
		res := directory.Query(pair, "a", domain.RoleFilterAll, 1, 5)
		assert.Equal(t, []domain.UserRecord{a}, res.Items)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("SearchIsCaseInsensitive", func(t *testing.T) {
		res := directory.Query(pair, "B@X", domain.RoleFilterAll, 1, 5)
		assert.Equal(t, []domain.UserRecord{b}, res.Items)
	})

	t.Run("RoleFilter", func(t *testing.T) {
		res := directory.Query(pair, "", domain.RoleFilter(domain.RoleRecruiter), 1, 5)
		assert.Equal(t, []domain.UserRecord{b}, res.Items)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("SearchAndRoleCombine", func(t *testing.T) {
		res := directory.Query(pair, "a@", domain.RoleFilter(domain.RoleRecruiter), 1, 5)
		assert.Empty(t, res.Items)
		assert.Equal(t, 1, res.TotalPages)
		assert.Equal(t, 0, res.Total)
	})

	t.Run("FirstPageInInsertionOrder", func(t *testing.T) {
		records := numbered(12)
		res := directory.Query(records, "", domain.RoleFilterAll, 1, 5)
		assert.Equal(t, records[:5], res.Items)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, 12, res.Total)
	})

	t.Run("LastPartialPage", func(t *testing.T) {
		records := numbered(12)
		res := directory.Query(records, "", domain.RoleFilterAll, 3, 5)
		assert.Equal(t, records[10:], res.Items)
	})

	t.Run("ExactMultipleOfPageSize", func(t *testing.T) {
		res := directory.Query(numbered(10), "", domain.RoleFilterAll, 1, 5)
		assert.Equal(t, 2, res.TotalPages)
	})

	t.Run("EmptySetHasOnePage", func(t *testing.T) {
		res := directory.Query(nil, "", domain.RoleFilterAll, 1, 5)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("PageBeyondEnd", func(t *testing.T) {
		res := directory.Query(numbered(6), "", domain.RoleFilterAll, 4, 5)
		assert.Empty(t, res.Items)
		assert.Equal(t, 2, res.TotalPages)
	})

	t.Run("HugePageIsEmpty", func(t *testing.T) {
		res := directory.Query(numbered(6), "", domain.RoleFilterAll, math.MaxInt/5+3, 5)
		assert.Empty(t, res.Items)
		assert.Equal(t, 2, res.TotalPages)

		res = directory.Query(numbered(6), "", domain.RoleFilterAll, math.MaxInt, 5)
		assert.Empty(t, res.Items)
	})

	t.Run("HugePageSize", func(t *testing.T) {
		res := directory.Query(numbered(3), "", domain.RoleFilterAll, 1, math.MaxInt)
		assert.Len(t, res.Items, 3)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("NonPositivePageSizeFallsBack", func(t *testing.T) {
		res := directory.Query(numbered(7), "", domain.RoleFilterAll, 1, 0)
		assert.Len(t, res.Items, directory.DefaultPageSize)
	})
}

func TestSuggestEmails(t *testing.T) {
	records := []domain.UserRecord{
		record("alice@corp.com", domain.RoleEmployee),
		record("bob@corp.com", domain.RoleRecruiter),
		record("Alicia@other.org", domain.RoleEmployee),
	}

	assert.Equal(t, []string{"alice@corp.com", "Alicia@other.org"}, directory.SuggestEmails(records, "ALI"))
	assert.Equal(t, []string{"alice@corp.com", "bob@corp.com"}, directory.SuggestEmails(records, "corp"))
	assert.Empty(t, directory.SuggestEmails(records, ""))
	assert.Empty(t, directory.SuggestEmails(records, "zzz"))
}
