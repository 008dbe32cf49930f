package directory

import (
	"strings"

	"github.com/userdir/directory-service/internal/domain"
)

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 5

// QueryResult is one page of the filtered record set.
type QueryResult struct {
	Items      []domain.UserRecord
	TotalPages int
	Total      int
}

// Query filters records by a case-insensitive email substring and a role,
// then cuts the window for page. Pages outside [1, TotalPages] return no
// items. TotalPages is never below 1.
func Query(records []domain.UserRecord, searchTerm string, role domain.RoleFilter, page, pageSize int) QueryResult {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	needle := strings.ToLower(searchTerm)

	filtered := make([]domain.UserRecord, 0, len(records))
	for _, rec := range records {
		if needle != "" && !strings.Contains(strings.ToLower(rec.Email), needle) {
			continue
		}
		if !role.Matches(rec.Role) {
			continue
		}
		filtered = append(filtered, rec)
	}

	totalPages := len(filtered) / pageSize
	if len(filtered)%pageSize != 0 || totalPages < 1 {
		totalPages = 1
	}

	result := QueryResult{Items: []domain.UserRecord{}, TotalPages: totalPages, Total: len(filtered)}
	// Bounding page by totalPages keeps the offset arithmetic from overflowing.
	if page < 1 || page > totalPages {
		return result
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(filtered))
	result.Items = filtered[start:end]
	return result
}

// SuggestEmails returns emails containing input case-insensitively, in
// insertion order. An empty input yields no suggestions.
func SuggestEmails(records []domain.UserRecord, input string) []string {
	out := []string{}
	if input == "" {
		return out
	}
	needle := strings.ToLower(input)
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Email), needle) {
			out = append(out, rec.Email)
		}
	}
	return out
}
