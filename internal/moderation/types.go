// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package moderation

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Classification is the engine's final decision for a content item.
type Classification string

const (
	// ClassificationClean means no rule combination crossed a threshold.
	ClassificationClean Classification = "clean"

	// ClassificationFlagged means the content should be hidden pending review.
	ClassificationFlagged Classification = "flagged"

	// ClassificationBlocked means the content must not be served.
	ClassificationBlocked Classification = "blocked"
)

// RuleClass groups rules by the kind of abuse they detect. Inappropriate
// rules flag at a lower risk threshold than spam rules.
type RuleClass string

const (
	ClassSpam          RuleClass = "spam"
	ClassInappropriate RuleClass = "inappropriate"
)

// Features is the flat, caller-supplied feature vector the rules evaluate.
// The engine never fetches anything itself; whoever calls Evaluate is
// responsible for extracting these values from the content item and its
// uploader's account record.
type Features struct {
	// Text is the caption or title attached to the content.
	Text string `json:"text"`

	// ReportCount is how many distinct users reported the content.
	ReportCount int `json:"report_count"`

	// AccountAgeHours is the uploader's account age at upload time.
	AccountAgeHours float64 `json:"account_age_hours"`

	// UploadsLastHour is the uploader's upload count in the trailing hour.
	UploadsLastHour int `json:"uploads_last_hour"`

	// LinkCount is the number of URLs embedded in the content text.
	LinkCount int `json:"link_count"`
}

// Verdict is the transient result of evaluating one content item. It is
// returned to the caller and never persisted by the engine.
type Verdict struct {
	ContentID       string         `json:"content_id"`
	Classification  Classification `json:"classification"`
	RiskScore       float64        `json:"risk_score"`
	ConfidenceScore float64        `json:"confidence_score"`

	// TriggeredRules lists the names of triggered rules in registration
	// order.
	TriggeredRules []string `json:"triggered_rules"`

	// NeedsReview is set when the verdict is not clean but confidence fell
	// below the configured threshold.
	NeedsReview bool `json:"needs_review"`
}

// Thresholds maps a risk score onto a classification.
type Thresholds struct {
	// Spam is the risk score at which content is flagged.
	Spam float64 `json:"spam" koanf:"spam"`

	// Inappropriate is the lower flagging bar applied when an
	// inappropriate-class rule triggered.
	Inappropriate float64 `json:"inappropriate" koanf:"inappropriate"`

	// HighRisk is the risk score at which content is blocked outright.
	HighRisk float64 `json:"high_risk" koanf:"high_risk"`

	// Confidence is the 0-100 confidence floor below which non-clean
	// verdicts are marked for manual review.
	Confidence float64 `json:"confidence" koanf:"confidence"`
}

// DefaultThresholds returns the production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Spam:          40,
		Inappropriate: 25,
		HighRisk:      80,
		Confidence:    40,
	}
}

// Validate checks threshold ordering and ranges.
func (t Thresholds) Validate() error {
	if t.Spam < 0 || t.Inappropriate < 0 || t.HighRisk < 0 {
		return fmt.Errorf("risk thresholds must be non-negative: %+v", t)
	}
	if t.Inappropriate > t.Spam {
		return fmt.Errorf("inappropriate threshold %.1f must not exceed spam threshold %.1f", t.Inappropriate, t.Spam)
	}
	if t.Spam > t.HighRisk {
		return fmt.Errorf("spam threshold %.1f must not exceed high-risk threshold %.1f", t.Spam, t.HighRisk)
	}
	if t.Confidence < 0 || t.Confidence > 100 {
		return fmt.Errorf("confidence threshold %.1f must be within 0-100", t.Confidence)
	}
	return nil
}

// Rule is a named pure predicate over a feature vector. Implementations
// must be safe for concurrent use: Triggered is called under concurrent
// Evaluate calls while Configure may run from an admin request.
type Rule interface {
	// Name identifies the rule in verdicts and configuration.
	Name() string

	// Class reports which abuse class the rule detects.
	Class() RuleClass

	// Weight is the amount the rule contributes to the risk score when
	// triggered.
	Weight() float64

	// Triggered evaluates the rule against the feature vector. It must be
	// pure and must not panic for any feature values.
	Triggered(f Features) bool

	// Configure replaces the rule's configuration.
	Configure(config json.RawMessage) error

	// Enabled reports whether the rule participates in evaluation.
	Enabled() bool

	// SetEnabled enables or disables the rule.
	SetEnabled(enabled bool)
}
