// Package search normalizes free-text search terms and sort parameters for
// list queries.
//
// Folding must be applied identically to stored text and to the search term.
// Repos therefore store Fold(column) in a companion *_folded column on every
// write and compare it against LikePattern(term) on every read.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// strokes maps letters that carry no combining mark after NFD and therefore
// survive decomposition unchanged.
var strokes = map[rune]rune{
	'ł': 'l', 'Ł': 'L',
	'đ': 'd', 'Đ': 'D',
	'ø': 'o', 'Ø': 'O',
}

// Fold lower-cases s and strips diacritics.
// Fold("Łódź") == Fold("LODZ") == "lodz".
func Fold(s string) string {
	return strings.ToLower(Strip(s))
}

// Strip removes diacritics but keeps case: canonical decomposition, removal
// of nonspacing marks, then the stroke-letter map.
func Strip(s string) string {
	// transform.Chain keeps state, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Map(func(r rune) rune {
		if m, ok := strokes[r]; ok {
			return m
		}
		return r
	}, out)
}

// LikePattern returns a "contains" LIKE pattern for the folded term with
// LIKE metacharacters escaped. Compare it against a folded column.
func LikePattern(term string) string {
	return "%" + escapeLike(Fold(term)) + "%"
}

// RawLikePattern is LikePattern without folding, for columns such as dates
// that are matched on their literal text.
func RawLikePattern(term string) string {
	return "%" + escapeLike(term) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
