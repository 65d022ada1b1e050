package constraint

import (
	"math"
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 255

// Name trims value and checks it fits a name column.
func Name(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", Field(field, ErrNameRequired)
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return "", Field(field, ErrNameTooLong)
	}
	return value, nil
}

// Hours rejects negative and non-finite hour values.
func Hours(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return Field(field, ErrNegativeValue)
	}
	return nil
}
