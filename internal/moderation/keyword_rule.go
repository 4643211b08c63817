// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package moderation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// RuleNameKeywords identifies the flagged keyword rule.
const RuleNameKeywords = "flagged_keywords"

// KeywordRuleConfig configures the flagged keyword rule.
type KeywordRuleConfig struct {
	// Keywords is the list of flagged terms, matched case-insensitively as
	// substrings of the content text.
	Keywords []string `json:"keywords"`

	// Weight is the risk contribution when any keyword matches.
	Weight float64 `json:"weight"`
}

// DefaultKeywordRuleConfig returns the seed keyword list. Deployments
// replace it with their own list through Configure.
func DefaultKeywordRuleConfig() KeywordRuleConfig {
	return KeywordRuleConfig{
		Keywords: []string{"free money", "click here", "hot singles", "crypto giveaway"},
		Weight:   40,
	}
}

// KeywordRule flags content whose text contains a configured keyword.
type KeywordRule struct {
	mu       sync.RWMutex
	config   KeywordRuleConfig
	keywords []string // lowercased copies of config.Keywords
	enabled  bool
}

// NewKeywordRule creates the rule with the default keyword list.
func NewKeywordRule() *KeywordRule {
	r := &KeywordRule{enabled: true}
	r.apply(DefaultKeywordRuleConfig())
	return r
}

func (r *KeywordRule) apply(config KeywordRuleConfig) {
	lowered := make([]string, 0, len(config.Keywords))
	for _, kw := range config.Keywords {
		lowered = append(lowered, strings.ToLower(kw))
	}
	r.config = config
	r.keywords = lowered
}

// Name returns the rule name.
func (r *KeywordRule) Name() string { return RuleNameKeywords }

// Class reports the abuse class.
func (r *KeywordRule) Class() RuleClass { return ClassInappropriate }

// Weight returns the configured risk contribution.
func (r *KeywordRule) Weight() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Weight
}

// Triggered reports whether the content text contains any flagged keyword.
func (r *KeywordRule) Triggered(f Features) bool {
	if f.Text == "" {
		return false
	}

	r.mu.RLock()
	keywords := r.keywords
	r.mu.RUnlock()

	text := strings.ToLower(f.Text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Configure replaces the keyword list and weight.
func (r *KeywordRule) Configure(config json.RawMessage) error {
	var newConfig KeywordRuleConfig
	if err := json.Unmarshal(config, &newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if newConfig.Weight < 0 {
		return fmt.Errorf("weight must be non-negative, got %.1f", newConfig.Weight)
	}
	if len(newConfig.Keywords) == 0 {
		return fmt.Errorf("at least one keyword must be configured")
	}
	for _, kw := range newConfig.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("keywords must not be blank")
		}
	}

	r.mu.Lock()
	r.apply(newConfig)
	r.mu.Unlock()
	return nil
}

// Enabled reports whether this rule is enabled.
func (r *KeywordRule) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// SetEnabled enables or disables the rule.
func (r *KeywordRule) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// Config returns the current configuration.
func (r *KeywordRule) Config() KeywordRuleConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}
