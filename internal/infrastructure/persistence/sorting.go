package persistence

import "strings"

// sortable lists the columns a listing may be ordered by
type sortable map[string]bool

var (
	productSort = sortable{"created_at": true, "price": true, "rating": true, "name": true}
	orderSort   = sortable{"created_at": true, "total": true, "status": true}
	userSort    = sortable{"created_at": true, "name": true, "email": true, "last_login": true}
)

// sortDirection normalizes dir to ASC or DESC. Anything but "asc" sorts descending.
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// column returns field when it is whitelisted and created_at otherwise
func (s sortable) column(field string) string {
	field = strings.TrimSpace(field)
	if s[field] {
		return field
	}
	return "created_at"
}

// clause builds the ORDER BY clause for a listing. The id tie-breaker keeps
// pages stable when many rows share the sort value.
func (s sortable) clause(table, field, dir string) string {
	prefix := ""
	if table != "" {
		prefix = table + "."
	}
	direction := sortDirection(dir)
	return prefix + s.column(field) + " " + direction + ", " + prefix + "id " + direction
}
