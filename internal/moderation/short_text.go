// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package moderation

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// RuleNameShortText identifies the degenerate text rule.
const RuleNameShortText = "short_text"

// ShortTextRuleConfig configures the degenerate text rule.
type ShortTextRuleConfig struct {
	// MinRunes is the rune count below which non-empty text is considered
	// degenerate. Empty text never triggers; image-only memes are valid.
	MinRunes int `json:"min_runes"`

	// Weight is the risk contribution when triggered.
	Weight float64 `json:"weight"`
}

// DefaultShortTextRuleConfig returns sensible defaults.
func DefaultShortTextRuleConfig() ShortTextRuleConfig {
	return ShortTextRuleConfig{
		MinRunes: 2,
		Weight:   5,
	}
}

// ShortTextRule flags captions too short to carry meaning, a weak signal
// that on its own never crosses a classification threshold.
type ShortTextRule struct {
	mu      sync.RWMutex
	config  ShortTextRuleConfig
	enabled bool
}

// NewShortTextRule creates the rule with default configuration.
func NewShortTextRule() *ShortTextRule {
	return &ShortTextRule{
		config:  DefaultShortTextRuleConfig(),
		enabled: true,
	}
}

// Name returns the rule name.
func (r *ShortTextRule) Name() string { return RuleNameShortText }

// Class reports the abuse class.
func (r *ShortTextRule) Class() RuleClass { return ClassSpam }

// Weight returns the configured risk contribution.
func (r *ShortTextRule) Weight() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Weight
}

// Triggered reports whether non-empty text falls below the minimum length.
func (r *ShortTextRule) Triggered(f Features) bool {
	r.mu.RLock()
	min := r.config.MinRunes
	r.mu.RUnlock()

	trimmed := strings.TrimSpace(f.Text)
	if trimmed == "" {
		return false
	}
	return utf8.RuneCountInString(trimmed) < min
}

// Configure replaces the rule configuration.
func (r *ShortTextRule) Configure(config json.RawMessage) error {
	var newConfig ShortTextRuleConfig
	if err := json.Unmarshal(config, &newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if newConfig.MinRunes < 1 {
		return fmt.Errorf("min_runes must be at least 1, got %d", newConfig.MinRunes)
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
func (r *ShortTextRule) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// SetEnabled enables or disables the rule.
func (r *ShortTextRule) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// Config returns the current configuration.
func (r *ShortTextRule) Config() ShortTextRuleConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}
