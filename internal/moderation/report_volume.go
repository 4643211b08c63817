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

// RuleNameReportVolume identifies the report volume rule.
const RuleNameReportVolume = "report_volume"

// ReportVolumeRuleConfig configures the report volume rule.
type ReportVolumeRuleConfig struct {
	// MinReports is the report count at which the rule triggers.
	MinReports int `json:"min_reports"`

	// Weight is the risk contribution when triggered.
	Weight float64 `json:"weight"`
}

// DefaultReportVolumeRuleConfig returns sensible defaults.
func DefaultReportVolumeRuleConfig() ReportVolumeRuleConfig {
	return ReportVolumeRuleConfig{
		MinReports: 5,
		Weight:     25,
	}
}

// ReportVolumeRule flags content that accumulated too many user reports.
type ReportVolumeRule struct {
	mu      sync.RWMutex
	config  ReportVolumeRuleConfig
	enabled bool
}

// NewReportVolumeRule creates the rule with default configuration.
func NewReportVolumeRule() *ReportVolumeRule {
	return &ReportVolumeRule{
		config:  DefaultReportVolumeRuleConfig(),
		enabled: true,
	}
}

// Name returns the rule name.
func (r *ReportVolumeRule) Name() string { return RuleNameReportVolume }

// Class reports the abuse class.
func (r *ReportVolumeRule) Class() RuleClass { return ClassSpam }

// Weight returns the configured risk contribution.
func (r *ReportVolumeRule) Weight() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Weight
}

// Triggered reports whether the report count reached the configured minimum.
func (r *ReportVolumeRule) Triggered(f Features) bool {
	r.mu.RLock()
	min := r.config.MinReports
	r.mu.RUnlock()
	return f.ReportCount >= min
}

// Configure replaces the rule configuration.
func (r *ReportVolumeRule) Configure(config json.RawMessage) error {
	var newConfig ReportVolumeRuleConfig
	if err := json.Unmarshal(config, &newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if newConfig.MinReports < 1 {
		return fmt.Errorf("min_reports must be at least 1, got %d", newConfig.MinReports)
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
func (r *ReportVolumeRule) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// SetEnabled enables or disables the rule.
func (r *ReportVolumeRule) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// Config returns the current configuration.
func (r *ReportVolumeRule) Config() ReportVolumeRuleConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}
