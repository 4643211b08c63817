// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package moderation

import (
	"fmt"
	"sync"

	"github.com/memezing/engine/internal/logging"
)

// Evaluator holds the ordered rule set and the classification thresholds.
// Evaluate may be called concurrently; Register and SetThresholds are safe
// to call from admin requests while evaluations are in flight.
type Evaluator struct {
	mu         sync.RWMutex
	rules      []Rule
	thresholds Thresholds
}

// NewEvaluator creates an empty evaluator with the given thresholds.
func NewEvaluator(thresholds Thresholds) (*Evaluator, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("moderation thresholds: %w", err)
	}
	return &Evaluator{thresholds: thresholds}, nil
}

// DefaultEvaluator creates an evaluator with the default thresholds and
// every built-in rule registered in weight order.
func DefaultEvaluator() *Evaluator {
	e := &Evaluator{thresholds: DefaultThresholds()}
	for _, rule := range []Rule{
		NewKeywordRule(),
		NewReportVolumeRule(),
		NewAccountBurstRule(),
		NewLinkSpamRule(),
		NewCapsRatioRule(),
		NewShortTextRule(),
	} {
		// Built-in names are unique, Register cannot fail here.
		_ = e.Register(rule)
	}
	return e
}

// Register appends a rule to the evaluation order. Rule names must be
// unique; a duplicate name is rejected so verdicts stay unambiguous.
func (e *Evaluator) Register(rule Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.rules {
		if existing.Name() == rule.Name() {
			return fmt.Errorf("rule %q is already registered", rule.Name())
		}
	}
	e.rules = append(e.rules, rule)

	logging.Info().
		Str("rule", rule.Name()).
		Str("class", string(rule.Class())).
		Float64("weight", rule.Weight()).
		Msg("registered moderation rule")
	return nil
}

// Rule returns the registered rule with the given name.
func (e *Evaluator) Rule(name string) (Rule, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, rule := range e.rules {
		if rule.Name() == name {
			return rule, true
		}
	}
	return nil, false
}

// Rules returns the registered rules in evaluation order.
func (e *Evaluator) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Thresholds returns the active thresholds.
func (e *Evaluator) Thresholds() Thresholds {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.thresholds
}

// SetThresholds replaces the active thresholds.
func (e *Evaluator) SetThresholds(thresholds Thresholds) error {
	if err := thresholds.Validate(); err != nil {
		return fmt.Errorf("moderation thresholds: %w", err)
	}

	e.mu.Lock()
	e.thresholds = thresholds
	e.mu.Unlock()
	return nil
}

// Evaluate runs every enabled rule against the feature vector and returns
// the verdict. It never fails: an empty rule set or an all-zero feature
// vector produces a clean verdict with zero confidence.
func (e *Evaluator) Evaluate(contentID string, f Features) Verdict {
	e.mu.RLock()
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	thresholds := e.thresholds
	e.mu.RUnlock()

	var (
		risk          float64
		triggered     []string
		enabled       int
		inappropriate bool
	)
	for _, rule := range rules {
		if !rule.Enabled() {
			continue
		}
		enabled++
		if !rule.Triggered(f) {
			continue
		}
		risk += rule.Weight()
		triggered = append(triggered, rule.Name())
		if rule.Class() == ClassInappropriate {
			inappropriate = true
		}
	}

	classification := classify(risk, inappropriate, thresholds)

	confidence := 0.0
	if enabled > 0 {
		confidence = 100 * float64(len(triggered)) / float64(enabled)
	}

	return Verdict{
		ContentID:       contentID,
		Classification:  classification,
		RiskScore:       risk,
		ConfidenceScore: confidence,
		TriggeredRules:  triggered,
		NeedsReview:     classification != ClassificationClean && confidence < thresholds.Confidence,
	}
}

// classify maps a risk score onto a classification. Content carrying an
// inappropriate-class hit is flagged at the lower inappropriate threshold.
func classify(risk float64, inappropriate bool, t Thresholds) Classification {
	switch {
	case risk >= t.HighRisk:
		return ClassificationBlocked
	case risk >= t.Spam:
		return ClassificationFlagged
	case inappropriate && risk >= t.Inappropriate:
		return ClassificationFlagged
	default:
		return ClassificationClean
	}
}
