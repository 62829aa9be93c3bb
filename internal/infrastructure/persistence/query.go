package persistence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// FilterKind is the type a filter parameter is parsed as
type FilterKind int

const (
	FilterString FilterKind = iota
	FilterBool
	FilterUUID
	FilterInt
	FilterDate
)

// FilterField maps a query parameter onto an equality condition
type FilterField struct {
	Column string
	Kind   FilterKind
}

// SearchField is a column matched by the free-text search. When Table is
// set the column belongs to a related table joined through ForeignKey.
type SearchField struct {
	Column     string
	Table      string
	ForeignKey string
}

// QuerySpec declares how a resource can be listed
type QuerySpec struct {
	// Resource names the entity in not-found messages.
	Resource string
	Filters  map[string]FilterField
	Search   []SearchField
	// Sorts maps ordering keys to columns.
	Sorts       map[string]string
	DefaultSort string
	Preloads    []string
	// OwnerColumn is the column compared against a scoped identity.
	OwnerColumn string
}

// Eq declares a string equality filter on the column of the same name
func Eq(column string) FilterField {
	return FilterField{Column: column, Kind: FilterString}
}

// Flag declares a boolean filter
func Flag(column string) FilterField {
	return FilterField{Column: column, Kind: FilterBool}
}

// Ref declares a uuid filter
func Ref(column string) FilterField {
	return FilterField{Column: column, Kind: FilterUUID}
}

// Day declares a calendar-date filter
func Day(column string) FilterField {
	return FilterField{Column: column, Kind: FilterDate}
}

// Num declares an integer filter
func Num(column string) FilterField {
	return FilterField{Column: column, Kind: FilterInt}
}

// Cols declares search over columns of the resource's own table
func Cols(columns ...string) []SearchField {
	fields := make([]SearchField, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, SearchField{Column: c})
	}
	return fields
}

// Related declares search over a column of a referenced table
func Related(foreignKey, table, column string) SearchField {
	return SearchField{Column: column, Table: table, ForeignKey: foreignKey}
}

// SortKeys declares sort keys that match their column names
func SortKeys(keys ...string) map[string]string {
	sorts := make(map[string]string, len(keys))
	for _, k := range keys {
		sorts[k] = k
	}
	return sorts
}

// escapeLike escapes LIKE wildcards in a user-provided term
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// applySearch matches term case-insensitively against the declared fields
func (s QuerySpec) applySearch(query *gorm.DB, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(s.Search) == 0 {
		return query
	}
	pattern := "%" + escapeLike(cases.Fold().String(term)) + "%"

	clauses := make([]string, 0, len(s.Search))
	args := make([]any, 0, len(s.Search))
	for _, f := range s.Search {
		if f.Table == "" {
			clauses = append(clauses, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, f.Column))
		} else {
			clauses = append(clauses, fmt.Sprintf(
				`%s IN (SELECT id FROM %s WHERE LOWER(%s) LIKE ? ESCAPE '\')`,
				f.ForeignKey, f.Table, f.Column))
		}
		args = append(args, pattern)
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// applyFilters adds an equality condition for every declared parameter present
func (s QuerySpec) applyFilters(query *gorm.DB, params map[string]string) (*gorm.DB, error) {
	var details []shared.FieldError
	for name, raw := range params {
		field, ok := s.Filters[name]
		if !ok || raw == "" {
			continue
		}
		value, msg := parseFilter(field.Kind, raw)
		if msg != "" {
			details = append(details, shared.FieldError{Field: name, Message: msg})
			continue
		}
		query = query.Where(field.Column+" = ?", value)
	}
	if len(details) > 0 {
		return nil, shared.NewValidationError(details...)
	}
	return query, nil
}

// parseFilter converts raw into the filter's type, returning a message
// describing the expected format when it cannot.
func parseFilter(kind FilterKind, raw string) (any, string) {
	switch kind {
	case FilterBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, "Must be true or false"
		}
		return b, ""
	case FilterUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, "Must be a valid UUID"
		}
		return id, ""
	case FilterInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, "Must be an integer"
		}
		return n, ""
	case FilterDate:
		d, err := shared.ParseDate(raw)
		if err != nil {
			return nil, "Must be a date in YYYY-MM-DD format"
		}
		return d, ""
	default:
		return raw, ""
	}
}
