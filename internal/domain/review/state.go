// Package review holds the expansion state machines of the administrator's
// review queue: one panel per status category plus the single ticket-edit
// panel layered on top of the rendered card list.
package review

import "github.com/franky15/billed-portal/internal/domain/entity"

// PanelState is the expansion state of a queue panel
type PanelState string

const (
	PanelCollapsed PanelState = "COLLAPSED"
	PanelExpanded  PanelState = "EXPANDED"
)

// Toggled returns the opposite panel state
func (s PanelState) Toggled() PanelState {
	if s == PanelExpanded {
		return PanelCollapsed
	}
	return PanelExpanded
}

// String returns the string representation of the panel state
func (s PanelState) String() string {
	return string(s)
}

// CategoryIndex identifies one of the three fixed status categories of
// the admin queue: 1=pending, 2=accepted, 3=refused.
type CategoryIndex int

const (
	CategoryPending  CategoryIndex = 1
	CategoryAccepted CategoryIndex = 2
	CategoryRefused  CategoryIndex = 3
)

// IsValid returns true for the three known category indexes
func (i CategoryIndex) IsValid() bool {
	return i >= CategoryPending && i <= CategoryRefused
}

// Status returns the bill status shown by the category
func (i CategoryIndex) Status() entity.Status {
	switch i {
	case CategoryPending:
		return entity.StatusPending
	case CategoryAccepted:
		return entity.StatusAccepted
	case CategoryRefused:
		return entity.StatusRefused
	}
	return ""
}
