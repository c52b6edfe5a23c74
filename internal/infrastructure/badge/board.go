// Package badge keeps the badge each tab currently shows.
package badge

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// Entry is a tab's rendered badge plus the state it came from.
type Entry struct {
	TabID int               `json:"tabId"`
	State domain.BadgeState `json:"state"`
	domain.Badge
}

// Board is the in-process badge surface polled by the browser shim.
type Board struct {
	logger *slog.Logger

	mu   sync.RWMutex
	tabs map[int]domain.BadgeState
}

var _ ports.BadgeRenderer = (*Board)(nil)

// NewBoard builds an empty board; nil logger discards.
func NewBoard(logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Board{logger: logger, tabs: map[int]domain.BadgeState{}}
}

// SetBadge records state for tabID. Empty states are forgotten.
func (b *Board) SetBadge(_ context.Context, tabID int, state domain.BadgeState) error {
	b.mu.Lock()
	if state == domain.BadgeEmpty {
		delete(b.tabs, tabID)
	} else {
		b.tabs[tabID] = state
	}
	b.mu.Unlock()

	badge := state.Render()
	b.logger.Debug("badge updated", "tab_id", tabID, "text", badge.Text, "color", badge.Color)
	return nil
}

// Get returns the badge currently shown on tabID.
func (b *Board) Get(tabID int) Entry {
	b.mu.RLock()
	state, ok := b.tabs[tabID]
	b.mu.RUnlock()
	if !ok {
		state = domain.BadgeEmpty
	}
	return Entry{TabID: tabID, State: state, Badge: state.Render()}
}

// All lists non-empty badges ordered by tab.
func (b *Board) All() []Entry {
	b.mu.RLock()
	entries := make([]Entry, 0, len(b.tabs))
	for id, state := range b.tabs {
		entries = append(entries, Entry{TabID: id, State: state, Badge: state.Render()})
	}
	b.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].TabID < entries[j].TabID })
	return entries
}
