// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"strings"
	"unicode"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Dedupe collapses records that refer to the same paper across sources. Two
// records are duplicates when their titles are equal after lowercasing,
// punctuation stripping, and whitespace collapsing; catalogs rarely share a
// persistent identifier, so the normalized title is the signal that works
// everywhere.
//
// Of each duplicate group exactly one record survives: the one with the
// longer abstract, then the one from the higher-priority source, then the
// first encountered. Output preserves the relative input order of the
// survivors' first appearances, so the result is deterministic and
// Dedupe(Dedupe(x)) == Dedupe(x).
func Dedupe(records []types.PaperRecord) ([]types.PaperRecord, int) {
	seen := make(map[string]int) // dedupe key → index in kept
	var kept []types.PaperRecord
	removed := 0

	for _, r := range records {
		key := dedupeKey(r.Title)
		idx, ok := seen[key]
		if !ok {
			seen[key] = len(kept)
			kept = append(kept, r)
			continue
		}

		removed++
		if prefer(r, kept[idx]) {
			kept[idx] = r
		}
	}
	return kept, removed
}

// prefer reports whether challenger should replace incumbent within a
// duplicate group: longer abstract first, then source priority. Returning
// false on a full tie keeps the first-encountered record.
func prefer(challenger, incumbent types.PaperRecord) bool {
	if len(challenger.Abstract) != len(incumbent.Abstract) {
		return len(challenger.Abstract) > len(incumbent.Abstract)
	}
	return challenger.Source.Priority() < incumbent.Source.Priority()
}

// dedupeKey returns the normalized-title equality key: lowercased, with
// punctuation removed and runs of whitespace folded to single spaces.
func dedupeKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
