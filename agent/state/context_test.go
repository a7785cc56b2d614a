package state

import (
	"fmt"
	"testing"
)

func TestAppendAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	dc := NewDialogueContext()
	a := dc.Append(RoleUser, "hello")
	b := dc.Append(RoleAssistant, "hi there")

	if a.ID == "" || b.ID == "" {
		t.Fatal("entries must have ids")
	}
	if a.ID == b.ID {
		t.Fatalf("ids must be unique, both were %s", a.ID)
	}
	if dc.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", dc.Len())
	}
}

func TestMergeFromDropsDuplicatesKeepsOrder(t *testing.T) {
	t.Parallel()

	prev := NewDialogueContext()
	first := prev.Append(RoleUser, "I'd like to order")
	second := prev.Append(RoleAssistant, "Of course")
	third := prev.Append(RoleUser, "Two pizzas")

	next := NewDialogueContext()
	// simulate one entry already carried over
	next.appendEntry(first)
	next.MergeFrom(prev)

	entries := next.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries after merge, got %d", len(entries))
	}
	if entries[0].ID != first.ID || entries[1].ID != second.ID || entries[2].ID != third.ID {
		t.Fatal("merge must preserve relative order and drop duplicates")
	}
}

func TestMergeFromSkipsSystemEntries(t *testing.T) {
	t.Parallel()

	prev := NewDialogueContext()
	prev.Append(RoleSystem, "You are the order taker.")
	kept := prev.Append(RoleUser, "hello")

	next := NewDialogueContext()
	next.MergeFrom(prev)

	entries := next.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID != kept.ID {
		t.Fatal("only the non-system entry should carry over")
	}
}

func TestMergeFromTruncatesToTail(t *testing.T) {
	t.Parallel()

	prev := NewDialogueContext()
	for i := 0; i < 10; i++ {
		prev.Append(RoleUser, fmt.Sprintf("utterance %d", i))
	}

	next := NewDialogueContext()
	next.MergeFrom(prev)

	entries := next.Entries()
	if len(entries) != mergeKeepLast {
		t.Fatalf("expected %d entries, got %d", mergeKeepLast, len(entries))
	}
	if entries[len(entries)-1].Content != "utterance 9" {
		t.Fatalf("tail must end at the latest entry, got %q", entries[len(entries)-1].Content)
	}
}

func TestMergeFromDropsLeadingOrphanToolEntries(t *testing.T) {
	t.Parallel()

	prevTail := NewDialogueContext()
	prevTail.Append(RoleTool, "orphan tool output")
	for i := 0; i < 5; i++ {
		prevTail.Append(RoleUser, fmt.Sprintf("msg %d", i))
	}

	next := NewDialogueContext()
	next.MergeFrom(prevTail)

	entries := next.Entries()
	if len(entries) != 5 {
		t.Fatalf("expected orphan tool entry dropped, got %d entries", len(entries))
	}
	for _, e := range entries {
		if e.Role == RoleTool {
			t.Fatal("leading tool entry should have been dropped")
		}
	}
}
