package entity

import (
	"testing"
)

func TestConversationStatusNext(t *testing.T) {
	tests := []struct {
		name string
		from ConversationStatus
		want ConversationStatus
	}{
		{name: "unresolved escalates", from: ConversationStatusUnresolved, want: ConversationStatusEscalated},
		{name: "escalated resolves", from: ConversationStatusEscalated, want: ConversationStatusResolved},
		{name: "resolved reopens", from: ConversationStatusResolved, want: ConversationStatusUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Next(); got != tt.want {
				t.Errorf("Next(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestConversationStatusCycleCloses(t *testing.T) {
	// Three toggles from any valid status must return to the start and never
	// leave the valid set.
	for _, start := range []ConversationStatus{
		ConversationStatusUnresolved,
		ConversationStatusEscalated,
		ConversationStatusResolved,
	} {
		s := start
		for i := 0; i < 3; i++ {
			s = s.Next()
			if !s.Valid() {
				t.Fatalf("cycle left the valid set at %q", s)
			}
		}
		if s != start {
			t.Errorf("cycle from %s closed at %s", start, s)
		}
	}
}

func TestConversationStatusValid(t *testing.T) {
	if ConversationStatus("archived").Valid() {
		t.Error("unknown status reported valid")
	}
	if !ConversationStatusUnresolved.Valid() {
		t.Error("unresolved reported invalid")
	}
}
