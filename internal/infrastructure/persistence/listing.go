package persistence

import (
	"strings"

	"github.com/propertyhub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultPageSize = 20

// sortSpec whitelists the columns a listing may be ordered by. Anything
// outside the whitelist falls back to the default column, so a client value
// never reaches the ORDER BY clause.
type sortSpec struct {
	columns       map[string]bool
	defaultColumn string
}

var (
	tenantSort = sortSpec{
		columns:       setOf("id", "created_at", "updated_at", "email", "first_name", "last_name", "is_active"),
		defaultColumn: "created_at",
	}
	presetSort = sortSpec{
		columns:       setOf("id", "created_at", "updated_at", "name", "category", "is_system", "link_expiry_days"),
		defaultColumn: "name",
	}
)

func setOf(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func (s sortSpec) column(requested string) string {
	if c := strings.TrimSpace(requested); s.columns[c] {
		return c
	}
	return s.defaultColumn
}

// orderBy sorts descending unless the direction is exactly asc
func (s sortSpec) orderBy(f shared.Filter) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Name: s.column(f.OrderBy)},
		Desc:   !strings.EqualFold(strings.TrimSpace(f.OrderDir), "asc"),
	}
}

// page applies ordering, offset and limit for one listing page
func (s sortSpec) page(query *gorm.DB, f shared.Filter) *gorm.DB {
	size := f.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	f.PageSize = size
	return query.Order(s.orderBy(f)).Offset(f.Offset()).Limit(size)
}
