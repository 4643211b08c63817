// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package recommend

import "fmt"

// Weights contains the scoring policy constants. The defaults reproduce the
// production ranking; they are exposed so deployments can tune the balance
// between declared interests, learned preferences, and raw popularity.
type Weights struct {
	// CategoryMatch is added when an item's category appears in the tag set
	// mapped from one of the user's interests.
	CategoryMatch float64 `json:"category_match" koanf:"category_match"`

	// TagMatch is added once per overlapping tag between the item and the
	// tag set mapped from one of the user's interests.
	TagMatch float64 `json:"tag_match" koanf:"tag_match"`

	// PreferenceScale multiplies the accumulated preference weight for the
	// item's category.
	PreferenceScale float64 `json:"preference_scale" koanf:"preference_scale"`

	// PopularityFactor multiplies the item's popularity as an unconditional
	// baseline nudge.
	PopularityFactor float64 `json:"popularity_factor" koanf:"popularity_factor"`
}

// DefaultWeights returns the production scoring constants.
func DefaultWeights() Weights {
	return Weights{
		CategoryMatch:    30,
		TagMatch:         10,
		PreferenceScale:  20,
		PopularityFactor: 0.1,
	}
}

// Validate checks that no weight is negative. Zero weights are allowed;
// they disable the corresponding signal.
func (w Weights) Validate() error {
	if w.CategoryMatch < 0 || w.TagMatch < 0 || w.PreferenceScale < 0 || w.PopularityFactor < 0 {
		return fmt.Errorf("scoring weights must be non-negative: %+v", w)
	}
	return nil
}

// Score computes the relevance of item for a user described by their declared
// interests and accumulated preference vector, using the default weights.
// It returns the score and the ordered list of human-readable justifications
// (interest matches first, then preference matches).
//
// Score is pure: identical inputs always produce identical output, and none
// of the inputs are mutated.
func Score(userInterests []string, userPreferences []UserPreference, item ContentItem) (float64, []string) {
	return ScoreWith(DefaultWeights(), userInterests, userPreferences, item)
}

// ScoreWith is Score with an explicit weight policy.
func ScoreWith(w Weights, userInterests []string, userPreferences []UserPreference, item ContentItem) (float64, []string) {
	var value float64
	reasons := []string{}

	for _, interest := range userInterests {
		mapped := MapInterestTags(interest)
		if len(mapped) == 0 {
			// Unmapped interests contribute zero score.
			continue
		}

		mappedSet := make(map[string]struct{}, len(mapped))
		for _, tag := range mapped {
			mappedSet[tag] = struct{}{}
		}

		if _, ok := mappedSet[item.Category]; ok {
			value += w.CategoryMatch
			reasons = append(reasons, fmt.Sprintf("category %q matches your interest in %q", item.Category, interest))
		}

		overlap := 0
		for _, tag := range item.Tags {
			if _, ok := mappedSet[tag]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			value += w.TagMatch * float64(overlap)
			reasons = append(reasons, fmt.Sprintf("%d tag(s) match your interest in %q", overlap, interest))
		}
	}

	for _, pref := range userPreferences {
		if pref.Category == item.Category {
			value += pref.Weight * w.PreferenceScale
			reasons = append(reasons, fmt.Sprintf("matches your personal preference for %q", pref.Category))
		}
	}

	value += item.Popularity * w.PopularityFactor

	return value, reasons
}
