// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package recommend

import (
	"fmt"
	"sort"
)

// reasonPopular is the justification attached to popularity-ranked results.
const reasonPopular = "popular item"

// Recommend ranks the catalog for a user and returns at most limit results
// using the default weights.
//
// Policy:
//   - Only active catalog items are considered.
//   - A user with no declared interests gets the cold-start ranking: items
//     sorted by popularity descending, ties broken by catalog order, each
//     scored with its popularity and justified as a popular item.
//   - Otherwise every active item is scored; items scoring zero or below are
//     dropped, the rest are sorted by score descending with catalog order
//     breaking ties. The cold-start ranking is never used as padding when
//     fewer than limit items qualify.
//
// A negative limit returns ErrNegativeLimit; a zero limit returns an empty
// list.
func Recommend(userInterests []string, userPreferences []UserPreference, catalog []ContentItem, limit int) ([]Result, error) {
	return RecommendWith(DefaultWeights(), userInterests, userPreferences, catalog, limit)
}

// RecommendWith is Recommend with an explicit weight policy.
func RecommendWith(w Weights, userInterests []string, userPreferences []UserPreference, catalog []ContentItem, limit int) ([]Result, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, ErrNegativeLimit)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	active := make([]ContentItem, 0, len(catalog))
	for _, item := range catalog {
		if item.Active {
			active = append(active, item)
		}
	}

	var results []Result
	if len(userInterests) == 0 {
		results = rankByPopularity(active)
	} else {
		results = rankByScore(w, userInterests, userPreferences, active)
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// rankByPopularity produces the cold-start ranking: pure popularity order,
// stable so that equally popular items keep their catalog order.
func rankByPopularity(items []ContentItem) []Result {
	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, Result{
			Item:    item,
			Score:   item.Popularity,
			Reason:  reasonPopular,
			Reasons: []string{reasonPopular},
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// rankByScore produces the personalized ranking. Items that score zero or
// below are excluded entirely rather than reported with a useless score.
func rankByScore(w Weights, interests []string, prefs []UserPreference, items []ContentItem) []Result {
	results := make([]Result, 0, len(items))
	for _, item := range items {
		value, reasons := ScoreWith(w, interests, prefs, item)
		if value <= 0 {
			continue
		}

		reason := reasonPopular // popularity was the only positive signal
		if len(reasons) > 0 {
			reason = reasons[0]
		}

		results = append(results, Result{
			Item:    item,
			Score:   value,
			Reason:  reason,
			Reasons: reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
