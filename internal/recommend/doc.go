// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

/*
Package recommend implements the preference-driven recommendation engine.

The engine is a set of pure, synchronous functions over fully materialized
inputs: the caller fetches a user's interests, their accumulated preference
vector, and the candidate catalog, and the engine ranks candidates without
performing any I/O of its own. This keeps scoring deterministic and safely
callable from any concurrency model the host application uses.

# Data flow

An interaction event (view, like, share, create, download) is folded into the
user's preference vector by UpdatePreferences. On the next recommendation
request, Score combines the static interest-to-tag mapping, the stored
preferences, and item popularity into a relevance score, and Recommend ranks
and truncates the scored candidates into a top-N list with human-readable
justifications.

# Purity and concurrency

Score, Recommend, and UpdatePreferences have no hidden state and never mutate
their inputs. Concurrent calls for different users are fully independent.
Serializing read-modify-write cycles on a single user's preference list is
the persistence layer's responsibility (see internal/store), not the
engine's.

# Failure semantics

The functions are total over structurally valid input: empty lists, zero
weights, and unknown interest categories are valid no-ops, not errors. The
only error conditions are malformed input at the boundary, an action outside
the known set (ErrUnknownAction) or a negative limit (ErrNegativeLimit),
which fail fast rather than being silently coerced.
*/
package recommend
