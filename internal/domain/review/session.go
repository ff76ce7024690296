package review

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned for a category index outside 1..3
var ErrUnknownCategory = errors.New("unknown category index")

// Session tracks the expansion state of one dashboard view. It is created
// when the view is constructed and discarded on navigation away; nothing
// here is persisted. All access happens from handlers serving one view,
// so the session carries no locking.
//
// Reset rules (invariants, not heuristics):
//   - Toggling a category other than the last one touched resets that
//     category to Collapsed first, so a freshly touched category always
//     opens on its first click regardless of prior history.
//   - Opening a ticket for a different bill than the last one resets the
//     edit slot to Collapsed first, so a new bill's panel always opens
//     on the first click and never toggles shut.
type Session struct {
	categories map[CategoryIndex]PanelState
	lastIndex  CategoryIndex

	lastBillID string
	edit       PanelState
}

// NewSession creates a review session with every panel collapsed
func NewSession() *Session {
	return &Session{
		categories: make(map[CategoryIndex]PanelState),
		edit:       PanelCollapsed,
	}
}

// ToggleCategory flips the expansion state of category i and returns the
// resulting state.
func (s *Session) ToggleCategory(i CategoryIndex) (PanelState, error) {
	if !i.IsValid() {
		return PanelCollapsed, fmt.Errorf("%w: %d", ErrUnknownCategory, i)
	}
	if s.lastIndex != i {
		s.categories[i] = PanelCollapsed
		s.lastIndex = i
	}
	next := s.state(i).Toggled()
	s.categories[i] = next
	return next, nil
}

// CategoryState returns the current expansion state of category i
func (s *Session) CategoryState(i CategoryIndex) PanelState {
	return s.state(i)
}

func (s *Session) state(i CategoryIndex) PanelState {
	if st, ok := s.categories[i]; ok {
		return st
	}
	return PanelCollapsed
}

// ToggleTicket flips the edit panel for the given bill and returns the
// resulting state. A click on a bill other than the last opened one
// always yields Expanded.
func (s *Session) ToggleTicket(billID string) PanelState {
	if s.lastBillID != billID {
		s.edit = PanelCollapsed
		s.lastBillID = billID
	}
	s.edit = s.edit.Toggled()
	return s.edit
}

// OpenBill returns the id of the bill whose edit panel is currently
// expanded, or "" and false when no panel is open.
func (s *Session) OpenBill() (string, bool) {
	if s.edit != PanelExpanded {
		return "", false
	}
	return s.lastBillID, true
}
