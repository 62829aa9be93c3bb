package persistence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/supplychain/backend/internal/domain/shared"
)

// ResolveOrdering turns an ordering parameter into an ORDER BY clause.
// A leading "-" sorts descending. Keys not in sorts are rejected so that
// user input never reaches the SQL text. An empty ordering yields the
// default clause.
func ResolveOrdering(ordering string, sorts map[string]string, defaultSort string) (string, error) {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return defaultSort, nil
	}

	parts := strings.Split(ordering, ",")
	clauses := make([]string, 0, len(parts))
	for _, part := range parts {
		key := strings.TrimSpace(part)
		dir := "ASC"
		if strings.HasPrefix(key, "-") {
			key = key[1:]
			dir = "DESC"
		}
		column, ok := sorts[key]
		if !ok {
			return "", shared.NewValidationError(shared.FieldError{
				Field:   "ordering",
				Message: fmt.Sprintf("Unknown ordering field %q, allowed: %s", key, strings.Join(allowedKeys(sorts), ", ")),
			})
		}
		clauses = append(clauses, column+" "+dir)
	}
	return strings.Join(clauses, ", "), nil
}

func allowedKeys(sorts map[string]string) []string {
	keys := make([]string, 0, len(sorts))
	for k := range sorts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
