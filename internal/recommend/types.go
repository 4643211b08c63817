// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package recommend

import "errors"

// Sentinel errors returned at the engine boundary.
var (
	// ErrUnknownAction is returned when an interaction event carries an
	// action outside the fixed action-weight table. Rejecting instead of
	// defaulting to zero keeps caller bugs visible.
	ErrUnknownAction = errors.New("unknown interaction action")

	// ErrNegativeLimit is returned when a recommendation request asks for a
	// negative number of results.
	ErrNegativeLimit = errors.New("negative recommendation limit")
)

// PreferenceSource records how a preference entry came to exist.
type PreferenceSource string

const (
	// SourceOnboarding marks preferences seeded from interest selection.
	SourceOnboarding PreferenceSource = "onboarding"
	// SourceInteraction marks preferences accumulated from user behavior.
	SourceInteraction PreferenceSource = "interaction"
	// SourceExplicit marks preferences the user set directly.
	SourceExplicit PreferenceSource = "explicit"
)

// TagNamespace is the category marker used for tag-level preference entries.
// Category-level entries use the category name as both key parts; tag-level
// entries use this marker as the category and the tag as the value.
const TagNamespace = "tag"

// UserPreference is one entry of a user's sparse preference vector, keyed by
// (Category, Value). Weight is a running accumulator: it only ever grows as
// interactions are folded in.
type UserPreference struct {
	Category string           `json:"category"`
	Value    string           `json:"value"`
	Weight   float64          `json:"weight"`
	Source   PreferenceSource `json:"source"`
}

// SelfKeyedPreference builds a category-level preference entry. The source
// system keys category entries by the category name in both positions; the
// convention is preserved here behind a named constructor so it appears in
// exactly one place.
func SelfKeyedPreference(category string, weight float64, source PreferenceSource) UserPreference {
	return UserPreference{
		Category: category,
		Value:    category,
		Weight:   weight,
		Source:   source,
	}
}

// TagPreference builds a tag-level preference entry in the tag namespace.
func TagPreference(tag string, weight float64, source PreferenceSource) UserPreference {
	return UserPreference{
		Category: TagNamespace,
		Value:    tag,
		Weight:   weight,
		Source:   source,
	}
}

// ContentItem is a recommendable catalog entity (a meme template). The
// catalog owns these records; the engine treats them as read-only.
type ContentItem struct {
	ID         string   `json:"id"`
	Title      string   `json:"title,omitempty"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Popularity float64  `json:"popularity"`
	Active     bool     `json:"active"`
}

// Result is one scored recommendation. Results are transient: computed per
// request and discarded after the response is sent.
type Result struct {
	Item ContentItem `json:"item"`

	// Score is the combined relevance score (higher is better).
	Score float64 `json:"score"`

	// Reason is the primary human-readable justification, the first entry
	// of Reasons.
	Reason string `json:"reason"`

	// Reasons lists every justification in insertion order: interest
	// matches before preference matches.
	Reasons []string `json:"reasons,omitempty"`
}

// Action classifies a user interaction with a content item.
type Action string

const (
	ActionView     Action = "view"
	ActionLike     Action = "like"
	ActionShare    Action = "share"
	ActionCreate   Action = "create"
	ActionDownload Action = "download"
)

// actionWeights is the fixed per-action contribution to a user's preference
// vector. Creating content is the strongest signal, passive viewing the
// weakest.
var actionWeights = map[Action]float64{
	ActionView:     0.1,
	ActionLike:     0.3,
	ActionShare:    0.5,
	ActionCreate:   0.7,
	ActionDownload: 0.4,
}

// Weight returns the preference contribution for this action, or
// ErrUnknownAction for actions outside the fixed table.
func (a Action) Weight() (float64, error) {
	w, ok := actionWeights[a]
	if !ok {
		return 0, ErrUnknownAction
	}
	return w, nil
}

// Valid reports whether the action is one of the known actions.
func (a Action) Valid() bool {
	_, ok := actionWeights[a]
	return ok
}

// InteractionEvent is a single user action on a content item, as produced by
// the web layer. Events are transient inputs to UpdatePreferences; the
// engine does not persist them.
type InteractionEvent struct {
	Action         Action   `json:"action"`
	TargetCategory string   `json:"target_category"`
	TargetTags     []string `json:"target_tags,omitempty"`
}
