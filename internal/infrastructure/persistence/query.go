package persistence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortSpec whitelists sortable columns of a resource
type sortSpec struct {
	fields       map[string]bool
	defaultOrder string
}

func newSortSpec(defaultOrder string, fields ...string) sortSpec {
	m := map[string]bool{"created_at": true, "updated_at": true}
	for _, f := range fields {
		m[f] = true
	}
	return sortSpec{fields: m, defaultOrder: defaultOrder}
}

// order resolves the ORDER BY clause; unknown fields fall back to the default
func (s sortSpec) order(filter shared.Filter) string {
	field := strings.TrimSpace(filter.OrderBy)
	if field == "" || !s.fields[field] {
		return s.defaultOrder
	}
	return field + " " + sortDirection(filter.OrderDir)
}

// sortDirection normalizes a direction, defaulting to DESC
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// paginate applies ordering, offset and limit
func paginate(query *gorm.DB, filter shared.Filter, spec sortSpec) *gorm.DB {
	f := filter.Normalize()
	return query.Order(spec.order(f)).Offset(f.Offset()).Limit(f.PageSize)
}

// search adds a case-insensitive substring match across columns. LOWER/LIKE
// works on both PostgreSQL and SQLite.
func search(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// mapNotFound converts gorm.ErrRecordNotFound to shared.ErrNotFound
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// mapDuplicate converts a unique constraint violation to shared.ErrAlreadyExists.
// Requires gorm.Config.TranslateError.
func mapDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// deleteResult turns a zero-row delete into shared.ErrNotFound
func deleteResult(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// filterString reads a string filter value, ignoring empty strings
func filterString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, s != ""
	case fmt.Stringer:
		str := s.String()
		return str, str != ""
	}
	return "", false
}

// filterBool reads a bool filter value given as bool or "true"/"false"
func filterBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(b) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

// filterUUID reads a UUID filter value given as uuid.UUID or string
func filterUUID(v any) (uuid.UUID, bool) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, id != uuid.Nil
	case *uuid.UUID:
		if id != nil {
			return *id, *id != uuid.Nil
		}
	case string:
		parsed, err := uuid.Parse(id)
		return parsed, err == nil
	}
	return uuid.Nil, false
}

// filterDate reads a date filter value given as time.Time or YYYY-MM-DD
func filterDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, !d.IsZero()
	case *time.Time:
		if d != nil {
			return *d, true
		}
	case string:
		t, err := time.Parse(time.DateOnly, d)
		return t, err == nil
	}
	return time.Time{}, false
}

// dateRange applies date_from/date_to filters to column (inclusive)
func dateRange(query *gorm.DB, filters map[string]any, column string) *gorm.DB {
	if from, ok := filterDate(filters["date_from"]); ok {
		query = query.Where(column+" >= ?", from)
	}
	if to, ok := filterDate(filters["date_to"]); ok {
		query = query.Where(column+" < ?", to.AddDate(0, 0, 1))
	}
	return query
}
