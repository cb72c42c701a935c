package dice

import (
	"sync"
	"time"
)

// MaxHistory is how many rolls a History keeps
const MaxHistory = 50

// HistoryEntry is one recorded roll
type HistoryEntry struct {
	Owner  string      `json:"owner,omitempty"`
	Label  string      `json:"label"`
	Result *RollResult `json:"result"`
	At     time.Time   `json:"at"`
}

// History keeps the most recent rolls, newest first
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
	now     func() time.Time
}

// NewHistory creates an empty History
func NewHistory() *History {
	return &History{now: time.Now}
}

// Add records a roll with no owner
func (h *History) Add(label string, result *RollResult) {
	h.AddFor("", label, result)
}

// AddFor records a roll made for owner. The oldest entry is dropped past MaxHistory.
func (h *History) AddFor(owner, label string, result *RollResult) {
	if result == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Owner: owner, Label: label, Result: result, At: h.now()}
	h.entries = append([]HistoryEntry{entry}, h.entries...)
	if len(h.entries) > MaxHistory {
		h.entries = h.entries[:MaxHistory]
	}
}

// Entries returns a copy of the recorded rolls, newest first
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// EntriesFor returns up to limit of owner's rolls, newest first. A limit of
// zero or less returns them all.
func (h *History) EntriesFor(owner string, limit int) []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []HistoryEntry
	for _, e := range h.entries {
		if e.Owner != owner {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Clear drops every entry
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// recordingRoller records every successful roll into a History
type recordingRoller struct {
	next    Roller
	history *History
	label   string
}

// NewRecordingRoller wraps next so each roll lands in history under label
func NewRecordingRoller(next Roller, history *History, label string) Roller {
	return &recordingRoller{next: next, history: history, label: label}
}

// Roll implements Roller.Roll
func (r *recordingRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	result, err := r.next.Roll(count, sides, bonus)
	if err != nil {
		return nil, err
	}
	r.history.Add(r.label, result)
	return result, nil
}
