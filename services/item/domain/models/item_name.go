package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ItemName is a display name in normalized form: trimmed, with internal
// whitespace runs collapsed to one space. Two names denote the same item when
// their Key values are equal.
type ItemName string

const maxItemNameLength = 255

// NormalizeName trims s and collapses internal whitespace to single spaces.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NewItemName normalizes s and checks it is non-empty, at most 255 characters
// and free of control characters.
func NewItemName(s string) (ItemName, error) {
	n := NormalizeName(s)
	if n == "" {
		return "", fmt.Errorf("item name must not be empty")
	}
	if utf8.RuneCountInString(n) > maxItemNameLength {
		return "", fmt.Errorf("item name must not exceed %d characters", maxItemNameLength)
	}
	for _, r := range n {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("item name must not contain control characters")
		}
	}
	return ItemName(n), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}

// Key returns the case-folded identity of the name.
func (n ItemName) Key() string {
	return NameKey(string(n))
}

// NameKey normalizes and case-folds s. A Caser is not safe for concurrent
// use, so each call builds its own.
func NameKey(s string) string {
	return cases.Fold().String(NormalizeName(s))
}

// Capitalize upper-cases the first character of s and leaves the rest as typed.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}
