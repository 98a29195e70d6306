package model

import (
	"testing"
	"time"
)

func TestOwnerFor(t *testing.T) {
	cases := []struct {
		in      string
		legacy  bool
		display string
	}{
		{"alice", false, "alice"},
		{"  bob ", false, "bob"},
		{"", true, LegacyUsername},
		{"   ", true, LegacyUsername},
	}
	for _, tc := range cases {
		o := OwnerFor(tc.in)
		if o.IsLegacy() != tc.legacy {
			t.Fatalf("OwnerFor(%q).IsLegacy: want=%v got=%v", tc.in, tc.legacy, o.IsLegacy())
		}
		if o.DisplayName() != tc.display {
			t.Fatalf("OwnerFor(%q).DisplayName: want=%q got=%q", tc.in, tc.display, o.DisplayName())
		}
		if tc.legacy && o.Username() != nil {
			t.Fatalf("OwnerFor(%q).Username: want nil", tc.in)
		}
		if !tc.legacy && (o.Username() == nil || *o.Username() != tc.display) {
			t.Fatalf("OwnerFor(%q).Username: want %q", tc.in, tc.display)
		}
	}
	if OwnerFromPtr(nil) != LegacyOwner {
		t.Fatalf("OwnerFromPtr(nil): want legacy owner")
	}
}

func TestEnumsValid(t *testing.T) {
	if !DifficultyMedium.Valid() || Difficulty("medium").Valid() {
		t.Fatalf("difficulty validation is case sensitive on the stored form")
	}
	if !ProgressInProgress.Valid() || ProgressStatus("STARTED").Valid() {
		t.Fatalf("unexpected progress status validation")
	}
	if !InterviewCancelled.Valid() || InterviewStatus("").Valid() {
		t.Fatalf("unexpected interview status validation")
	}
}

func TestAnnotationsApplyReplacesEverything(t *testing.T) {
	old := "old notes"
	p := &ProgressRecord{Notes: &old, Topics: []string{"dp"}}
	newTC := "O(n)"
	Annotations{TimeComplexity: &newTC}.Apply(p)
	if p.Notes != nil || p.Topics != nil {
		t.Fatalf("expected omitted annotations to be cleared, got notes=%v topics=%v", p.Notes, p.Topics)
	}
	if p.TimeComplexity == nil || *p.TimeComplexity != "O(n)" {
		t.Fatalf("TimeComplexity: want O(n) got %v", p.TimeComplexity)
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Fatalf("session should still be live")
	}
	if !s.Expired(now.Add(time.Minute)) {
		t.Fatalf("session should be expired at ExpiresAt")
	}
}
