// Package reconcile collapses duplicate committee rows onto a canonical
// row while keeping every dependent foreign key valid.
//
// Duplicates come from the same real-world committee being registered with
// different casing, accents or whitespace ("Direccion financiera",
// "Dirección Financiera ", ...). Two names denote the same committee iff
// their normalized forms are equal; within a group the row with the
// smallest id survives and every asset and user pointing at a duplicate is
// repointed before the duplicate is deleted.
package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops Unicode combining marks (Mn) and
// recomposes, turning "Dirección" into "Direccion".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical comparison form of a committee name:
// lowercase, diacritics removed, surrounding whitespace stripped and
// internal whitespace runs collapsed to single spaces.
func Normalize(name string) string {
	s := strings.ToLower(name)
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	return strings.Join(strings.Fields(s), " ")
}
