package state

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContextEntry is one turn of dialogue. IDs are unique within a context and
// are what the handoff merge dedups on.
type ContextEntry struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DialogueContext is the ordered dialogue history owned by the active agent.
// It is transferred, not shared, on handoff: the next agent merges the
// previous agent's entries into its own context.
type DialogueContext struct {
	entries []ContextEntry
	seen    map[string]struct{}
}

func NewDialogueContext() *DialogueContext {
	return &DialogueContext{
		seen: make(map[string]struct{}, 16),
	}
}

// Append adds a new entry with a fresh unique id and returns it.
func (c *DialogueContext) Append(role Role, content string) ContextEntry {
	entry := ContextEntry{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}
	c.appendEntry(entry)
	return entry
}

func (c *DialogueContext) appendEntry(entry ContextEntry) {
	if c.seen == nil {
		c.seen = make(map[string]struct{}, 16)
	}
	if _, dup := c.seen[entry.ID]; dup {
		return
	}
	c.seen[entry.ID] = struct{}{}
	c.entries = append(c.entries, entry)
}

// Entries returns a copy of the dialogue in order.
func (c *DialogueContext) Entries() []ContextEntry {
	if c == nil {
		return nil
	}
	out := make([]ContextEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *DialogueContext) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Contains reports whether an entry with the given id is already present.
func (c *DialogueContext) Contains(id string) bool {
	if c == nil || c.seen == nil {
		return false
	}
	_, ok := c.seen[id]
	return ok
}

const mergeKeepLast = 6

// MergeFrom carries the tail of a previous agent's dialogue into this
// context. Only the last mergeKeepLast non-system entries are taken, leading
// orphaned tool entries are dropped, and entries whose id already exists here
// are skipped. Relative order is preserved.
func (c *DialogueContext) MergeFrom(prev *DialogueContext) {
	if c == nil || prev == nil {
		return
	}
	carried := truncateTail(prev.entries, mergeKeepLast)
	for _, entry := range carried {
		c.appendEntry(entry)
	}
}

func truncateTail(entries []ContextEntry, keep int) []ContextEntry {
	tail := make([]ContextEntry, 0, keep)
	for i := len(entries) - 1; i >= 0 && len(tail) < keep; i-- {
		if entries[i].Role == RoleSystem {
			continue
		}
		tail = append(tail, entries[i])
	}
	// restore original order
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	// drop tool output with no preceding call
	for len(tail) > 0 && tail[0].Role == RoleTool {
		tail = tail[1:]
	}
	return tail
}
