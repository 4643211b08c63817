// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package moderation

import (
	"fmt"
	"sync"
	"unicode"

	"github.com/goccy/go-json"
)

// RuleNameCapsRatio identifies the shouting rule.
const RuleNameCapsRatio = "caps_ratio"

// CapsRatioRuleConfig configures the shouting rule.
type CapsRatioRuleConfig struct {
	// MinRatio is the uppercase fraction (0-1) at which the rule triggers.
	MinRatio float64 `json:"min_ratio"`

	// MinLetters is the minimum letter count before the ratio is
	// meaningful. Short all-caps captions like "LOL" are normal meme
	// vernacular and must not trigger.
	MinLetters int `json:"min_letters"`

	// Weight is the risk contribution when triggered.
	Weight float64 `json:"weight"`
}

// DefaultCapsRatioRuleConfig returns sensible defaults.
func DefaultCapsRatioRuleConfig() CapsRatioRuleConfig {
	return CapsRatioRuleConfig{
		MinRatio:   0.8,
		MinLetters: 12,
		Weight:     10,
	}
}

// CapsRatioRule flags sustained all-caps text.
type CapsRatioRule struct {
	mu      sync.RWMutex
	config  CapsRatioRuleConfig
	enabled bool
}

// NewCapsRatioRule creates the rule with default configuration.
func NewCapsRatioRule() *CapsRatioRule {
	return &CapsRatioRule{
		config:  DefaultCapsRatioRuleConfig(),
		enabled: true,
	}
}

// Name returns the rule name.
func (r *CapsRatioRule) Name() string { return RuleNameCapsRatio }

// Class reports the abuse class.
func (r *CapsRatioRule) Class() RuleClass { return ClassInappropriate }

// Weight returns the configured risk contribution.
func (r *CapsRatioRule) Weight() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Weight
}

// Triggered reports whether the text's uppercase ratio crosses the
// configured threshold. Only letters count; digits, punctuation, and
// non-cased scripts are ignored.
func (r *CapsRatioRule) Triggered(f Features) bool {
	r.mu.RLock()
	config := r.config
	r.mu.RUnlock()

	letters, upper := 0, 0
	for _, ch := range f.Text {
		if !unicode.IsLetter(ch) {
			continue
		}
		letters++
		if unicode.IsUpper(ch) {
			upper++
		}
	}

	if letters < config.MinLetters {
		return false
	}
	return float64(upper)/float64(letters) >= config.MinRatio
}

// Configure replaces the rule configuration.
func (r *CapsRatioRule) Configure(config json.RawMessage) error {
	var newConfig CapsRatioRuleConfig
	if err := json.Unmarshal(config, &newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if newConfig.MinRatio <= 0 || newConfig.MinRatio > 1 {
		return fmt.Errorf("min_ratio must be within (0, 1], got %.2f", newConfig.MinRatio)
	}
	if newConfig.MinLetters < 1 {
		return fmt.Errorf("min_letters must be at least 1, got %d", newConfig.MinLetters)
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
func (r *CapsRatioRule) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// SetEnabled enables or disables the rule.
func (r *CapsRatioRule) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// Config returns the current configuration.
func (r *CapsRatioRule) Config() CapsRatioRuleConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}
