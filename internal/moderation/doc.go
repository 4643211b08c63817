// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

/*
Package moderation implements the heuristic content moderation engine.

The engine is a rule evaluator, not a statistical classifier. Callers
extract a flat Features vector from a content item and its uploader
(text, report count, account age, recent upload volume, link count) and
pass it to an Evaluator. Each registered Rule is a named predicate over
the feature vector contributing a fixed weight; the weights of triggered
rules sum into a risk score that the configured Thresholds translate
into a clean, flagged, or blocked Verdict.

Confidence is the fraction of enabled rules that triggered, scaled to
0-100. A flagged or blocked verdict whose confidence falls below the
confidence threshold carries NeedsReview, signalling that a human should
confirm before the verdict is acted on. The classification itself never
changes based on confidence.

Evaluation is pure and performs no I/O: empty feature vectors, zero
weights, and an empty rule set are all valid inputs producing a clean
verdict. Malformed rule configuration is rejected at Configure time,
never during evaluation.
*/
package moderation
