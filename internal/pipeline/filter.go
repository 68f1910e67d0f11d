// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"sort"
	"strings"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// FilterRelevant keeps the records whose title or abstract contains at least
// one keyword (case-insensitive substring match) and stamps each survivor
// with the sorted set of keywords that matched.
//
// An empty keyword set yields an empty result. A scan with no filter
// criterion is a configuration mistake, not a request for everything, so the
// filter fails closed; Run rejects that configuration before fetching.
func FilterRelevant(records []types.PaperRecord, keywords []string) []types.PaperRecord {
	if len(keywords) == 0 {
		return nil
	}

	var kept []types.PaperRecord
	for _, r := range records {
		matched := matchKeywords(r, keywords)
		if len(matched) == 0 {
			continue
		}
		r.MatchedKeywords = matched
		kept = append(kept, r)
	}
	return kept
}

// matchKeywords returns the keywords found in the record's title or
// abstract, sorted and without duplicates.
func matchKeywords(r types.PaperRecord, keywords []string) []string {
	title := strings.ToLower(r.Title)
	abstract := strings.ToLower(r.Abstract)

	set := make(map[string]struct{})
	for _, kw := range keywords {
		needle := strings.ToLower(strings.TrimSpace(kw))
		if needle == "" {
			continue
		}
		if strings.Contains(title, needle) || strings.Contains(abstract, needle) {
			set[strings.TrimSpace(kw)] = struct{}{}
		}
	}

	if len(set) == 0 {
		return nil
	}
	matched := make([]string, 0, len(set))
	for kw := range set {
		matched = append(matched, kw)
	}
	sort.Strings(matched)
	return matched
}
