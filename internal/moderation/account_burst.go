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

// RuleNameAccountBurst identifies the new-account burst rule.
const RuleNameAccountBurst = "new_account_burst"

// AccountBurstRuleConfig configures the new-account burst rule.
type AccountBurstRuleConfig struct {
	// MaxAccountAgeHours bounds how young an account must be for the rule
	// to apply.
	MaxAccountAgeHours float64 `json:"max_account_age_hours"`

	// MinUploadsPerHour is the hourly upload count at which the rule
	// triggers for a young account.
	MinUploadsPerHour int `json:"min_uploads_per_hour"`

	// Weight is the risk contribution when triggered.
	Weight float64 `json:"weight"`
}

// DefaultAccountBurstRuleConfig returns sensible defaults.
func DefaultAccountBurstRuleConfig() AccountBurstRuleConfig {
	return AccountBurstRuleConfig{
		MaxAccountAgeHours: 24,
		MinUploadsPerHour:  5,
		Weight:             20,
	}
}

// AccountBurstRule flags freshly created accounts uploading at a rate
// typical of spam bots.
type AccountBurstRule struct {
	mu      sync.RWMutex
	config  AccountBurstRuleConfig
	enabled bool
}

// NewAccountBurstRule creates the rule with default configuration.
func NewAccountBurstRule() *AccountBurstRule {
	return &AccountBurstRule{
		config:  DefaultAccountBurstRuleConfig(),
		enabled: true,
	}
}

// Name returns the rule name.
func (r *AccountBurstRule) Name() string { return RuleNameAccountBurst }

// Class reports the abuse class.
func (r *AccountBurstRule) Class() RuleClass { return ClassSpam }

// Weight returns the configured risk contribution.
func (r *AccountBurstRule) Weight() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Weight
}

// Triggered reports whether a young account exceeded the upload rate.
func (r *AccountBurstRule) Triggered(f Features) bool {
	r.mu.RLock()
	config := r.config
	r.mu.RUnlock()

	return f.AccountAgeHours >= 0 &&
		f.AccountAgeHours <= config.MaxAccountAgeHours &&
		f.UploadsLastHour >= config.MinUploadsPerHour
}

// Configure replaces the rule configuration.
func (r *AccountBurstRule) Configure(config json.RawMessage) error {
	var newConfig AccountBurstRuleConfig
	if err := json.Unmarshal(config, &newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if newConfig.MaxAccountAgeHours <= 0 {
		return fmt.Errorf("max_account_age_hours must be positive, got %.1f", newConfig.MaxAccountAgeHours)
	}
	if newConfig.MinUploadsPerHour < 1 {
		return fmt.Errorf("min_uploads_per_hour must be at least 1, got %d", newConfig.MinUploadsPerHour)
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
func (r *AccountBurstRule) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// SetEnabled enables or disables the rule.
func (r *AccountBurstRule) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// Config returns the current configuration.
func (r *AccountBurstRule) Config() AccountBurstRuleConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}
