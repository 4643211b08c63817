// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package recommend

import "testing"

func TestMapInterestTags(t *testing.T) {
	tags := MapInterestTags("gaming")
	if len(tags) == 0 {
		t.Fatal("gaming should map to at least one tag")
	}
	found := false
	for _, tag := range tags {
		if tag == "esports" {
			found = true
		}
	}
	if !found {
		t.Errorf("gaming tags %v missing esports", tags)
	}
}

func TestMapInterestTagsUnknown(t *testing.T) {
	tags := MapInterestTags("astrology")
	if tags == nil {
		t.Fatal("unknown category should return an empty slice, not nil")
	}
	if len(tags) != 0 {
		t.Errorf("unknown category returned tags %v", tags)
	}
}

func TestMapInterestTagsReturnsCopy(t *testing.T) {
	tags := MapInterestTags("food")
	if len(tags) == 0 {
		t.Fatal("food should map to tags")
	}
	tags[0] = "tampered"
	again := MapInterestTags("food")
	if again[0] == "tampered" {
		t.Error("mutating the returned slice leaked into the table")
	}
}

func TestKnownInterests(t *testing.T) {
	known := KnownInterests()
	if len(known) != len(interestTags) {
		t.Fatalf("KnownInterests() returned %d categories, table has %d", len(known), len(interestTags))
	}
	for _, category := range known {
		if !IsKnownInterest(category) {
			t.Errorf("category %q listed but not recognized", category)
		}
	}
	if IsKnownInterest("astrology") {
		t.Error("astrology should not be a known interest")
	}
}

func TestActionValidity(t *testing.T) {
	for _, a := range []Action{ActionView, ActionLike, ActionShare, ActionCreate, ActionDownload} {
		if !a.Valid() {
			t.Errorf("action %q should be valid", a)
		}
		if _, err := a.Weight(); err != nil {
			t.Errorf("action %q weight error: %v", a, err)
		}
	}
	if Action("upvote").Valid() {
		t.Error("upvote should not be a valid action")
	}
}
