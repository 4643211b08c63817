// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package moderation

import (
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// RuleNameLinkSpam identifies the link spam rule.
const RuleNameLinkSpam = "link_spam"

// LinkSpamRuleConfig configures the link spam rule.
type LinkSpamRuleConfig struct {
	// MaxLinks is the highest embedded link count that passes. One more
	// triggers the rule.
	MaxLinks int `json:"max_links"`

	// Weight is the risk contribution when triggered.
	Weight float64 `json:"weight"`
}

// DefaultLinkSpamRuleConfig returns sensible defaults.
func DefaultLinkSpamRuleConfig() LinkSpamRuleConfig {
	return LinkSpamRuleConfig{
		MaxLinks: 2,
		Weight:   15,
	}
}

// LinkSpamRule flags content carrying more embedded links than a meme
// caption has any business containing.
type LinkSpamRule struct {
	mu      sync.RWMutex
	config  LinkSpamRuleConfig
	enabled bool
}

// NewLinkSpamRule creates the rule with default configuration.
func NewLinkSpamRule() *LinkSpamRule {
	return &LinkSpamRule{
		config:  DefaultLinkSpamRuleConfig(),
		enabled: true,
	}
}

// Name returns the rule name.
func (r *LinkSpamRule) Name() string { return RuleNameLinkSpam }

// Class reports the abuse class.
func (r *LinkSpamRule) Class() RuleClass { return ClassSpam }

// Weight returns the configured risk contribution.
func (r *LinkSpamRule) Weight() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Weight
}

// Triggered reports whether the link count exceeds the configured maximum.
func (r *LinkSpamRule) Triggered(f Features) bool {
	r.mu.RLock()
	max := r.config.MaxLinks
	r.mu.RUnlock()
	return f.LinkCount > max
}

// Configure replaces the rule configuration.
func (r *LinkSpamRule) Configure(config json.RawMessage) error {
	var newConfig LinkSpamRuleConfig
	if err := json.Unmarshal(config, &newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if newConfig.MaxLinks < 0 {
		return fmt.Errorf("max_links must be non-negative, got %d", newConfig.MaxLinks)
	}
	if newConfig.Weight < 0 {
		return fmt.Errorf("weight must be non-negative, got %.1f", newConfig.Weight)
	}

	r.mu.Lock()
	r.config = newConfig
	r.mu.Unlock()
	return nil
}

// Enabled reports whether this rule is enabled.
func (r *LinkSpamRule) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// SetEnabled enables or disables the rule.
func (r *LinkSpamRule) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// Config returns the current configuration.
func (r *LinkSpamRule) Config() LinkSpamRuleConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}
