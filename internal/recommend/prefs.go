// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package recommend

import "fmt"

// tagWeightFactor scales the action weight down for tag preferences so a
// single interaction moves the broad category more than any one tag.
const tagWeightFactor = 0.5

// UpdatePreferences folds a single interaction event into a user's
// preference list and returns the updated list. The input slice is never
// mutated; callers may keep references to it.
//
// The event's category gains the full action weight, each of the event's
// tags gains half of it. Existing entries are incremented in place, missing
// ones are appended with the interaction source. Entries are never removed
// and weights never decrease, so repeated interactions only strengthen a
// preference.
//
// An event whose action has no defined weight yields ErrUnknownAction and
// leaves the returned list nil.
func UpdatePreferences(prefs []UserPreference, event InteractionEvent) ([]UserPreference, error) {
	weight, err := event.Action.Weight()
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}

	updated := make([]UserPreference, len(prefs))
	copy(updated, prefs)

	updated = bump(updated, event.TargetCategory, event.TargetCategory, weight)
	for _, tag := range event.TargetTags {
		updated = bump(updated, TagNamespace, tag, weight*tagWeightFactor)
	}
	return updated, nil
}

// bump adds delta to the preference identified by (category, value),
// appending a new interaction-sourced entry when none exists.
func bump(prefs []UserPreference, category, value string, delta float64) []UserPreference {
	for i := range prefs {
		if prefs[i].Category == category && prefs[i].Value == value {
			prefs[i].Weight += delta
			return prefs
		}
	}
	return append(prefs, UserPreference{
		Category: category,
		Value:    value,
		Weight:   delta,
		Source:   SourceInteraction,
	})
}
