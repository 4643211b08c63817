// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package recommend

// interestTags maps the coarse interest categories a user picks during
// onboarding to the content tags and categories they imply. The table is
// fixed at compile time and never mutated at runtime; every lookup goes
// through MapInterestTags, which copies, so callers cannot alias the table.
//
// Unmapped categories are not an error; they simply contribute zero score.
var interestTags = map[string][]string{
	"food":      {"food", "cooking", "mukbang", "recipe", "snack", "chef"},
	"kpop":      {"kpop", "idol", "music", "dance", "fandom", "comeback"},
	"gaming":    {"gaming", "esports", "streamer", "speedrun", "rpg", "fps"},
	"sports":    {"sports", "soccer", "baseball", "basketball", "workout"},
	"movies":    {"movies", "cinema", "drama", "netflix", "actor", "scene"},
	"animals":   {"animals", "cat", "dog", "pet", "wildlife"},
	"music":     {"music", "hiphop", "indie", "concert", "playlist"},
	"travel":    {"travel", "trip", "backpacking", "airport", "vacation"},
	"fashion":   {"fashion", "outfit", "streetwear", "thrift"},
	"tech":      {"tech", "programming", "gadget", "ai", "startup"},
	"study":     {"study", "school", "exam", "university", "deadline"},
	"work":      {"work", "office", "meeting", "overtime", "monday"},
	"relatable": {"relatable", "mood", "daily", "introvert", "procrastination"},
}

// MapInterestTags returns the content tags implied by an interest category.
// Unknown categories return an empty slice, never an error. The returned
// slice is a copy; mutating it does not affect the table.
func MapInterestTags(categoryID string) []string {
	tags, ok := interestTags[categoryID]
	if !ok {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// KnownInterests returns every interest category the mapping table covers.
// Used by the API layer to validate onboarding selections.
func KnownInterests() []string {
	out := make([]string, 0, len(interestTags))
	for category := range interestTags {
		out = append(out, category)
	}
	return out
}

// IsKnownInterest reports whether the category has a mapping entry.
func IsKnownInterest(categoryID string) bool {
	_, ok := interestTags[categoryID]
	return ok
}
