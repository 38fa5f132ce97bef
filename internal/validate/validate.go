// Package validate holds the field format rules applied by the conversation
// flows. Every function returns nil for valid input and a user-presentable
// error otherwise; the flows re-prompt the same step on error.
package validate

import (
	"errors"
	"strings"
)

var (
	ErrNameTooShort      = errors.New("name too short")
	ErrInvalidUniversity = errors.New("invalid university id")
	ErrInvalidNationalID = errors.New("invalid national id: must be 16 digits")
	ErrInvalidPrice      = errors.New("invalid price: numbers only")
)

// FullName requires at least 3 characters.
func FullName(name string) error {
	if len(name) < 3 {
		return ErrNameTooShort
	}
	return nil
}

// UniversityID requires the institutional prefix and exactly 10 characters
// total. Matching is case-insensitive; callers should store the value
// returned by NormalizeID.
func UniversityID(id, prefix string) error {
	id = NormalizeID(id)
	if !strings.HasPrefix(id, strings.ToUpper(prefix)) || len(id) != 10 {
		return ErrInvalidUniversity
	}
	return nil
}

// NationalID requires exactly 16 digits.
func NationalID(id string) error {
	id = NormalizeID(id)
	if len(id) != 16 || !isDigits(id) {
		return ErrInvalidNationalID
	}
	return nil
}

// Price requires a non-negative integer literal with no currency suffix.
func Price(price string) error {
	price = strings.TrimSpace(price)
	if price == "" || !isDigits(price) {
		return ErrInvalidPrice
	}
	return nil
}

// NormalizeID trims and upper-cases an id value for storage and comparison.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
