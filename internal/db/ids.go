package db

import "github.com/google/uuid"

// ValidID reports whether id can be compared with a UUID key column.
// PostgreSQL rejects such comparisons outright, so callers treat an invalid
// id as one that matches no row.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// ValidFilter reports whether every non-empty id is valid. Empty ids are unset
// filters.
func ValidFilter(ids ...string) bool {
	for _, id := range ids {
		if id != "" && !ValidID(id) {
			return false
		}
	}
	return true
}
