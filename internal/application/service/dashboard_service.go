package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/billing"
	"github.com/franky15/billed-portal/internal/domain/entity"
	"github.com/franky15/billed-portal/internal/domain/review"
)

// View-layer contract carried back to the templates. The identifiers and
// style values mirror what the dashboard markup expects.
const (
	arrowOpen   = "rotate(0deg)"
	arrowClosed = "rotate(90deg)"

	cardHighlightOpen    = "#2A2B35"
	cardHighlightDefault = "#0D5AE5"

	navbarHeightExpanded = "150vh"
	navbarHeightDefault  = "120vh"
)

// ErrBillNotFound is returned when a ticket references an unknown bill id
var ErrBillNotFound = errors.New("bill not found")

// CategoryView is the render instruction produced by a category toggle:
// which arrow to rotate, which container to fill, and with what.
type CategoryView struct {
	Index          review.CategoryIndex `json:"index"`
	Status         entity.Status        `json:"status"`
	State          review.PanelState    `json:"state"`
	ArrowID        string               `json:"arrow_id"`
	ArrowTransform string               `json:"arrow_transform"`
	ContainerID    string               `json:"container_id"`
	Markup         string               `json:"markup"`
	// BillIDs are the open-bill click targets to (re-)register after an
	// expansion; registration is idempotent per bill id.
	BillIDs []string `json:"bill_ids"`
}

// TicketView is the render instruction produced by a card click: the
// detail panel content plus the highlight and layout adjustments.
type TicketView struct {
	BillID               string            `json:"bill_id"`
	CardID               string            `json:"card_id"`
	State                review.PanelState `json:"state"`
	FormMarkup           string            `json:"form_markup"`
	CardBackground       string            `json:"card_background"`
	OtherCardsBackground string            `json:"other_cards_background"`
	NavbarHeight         string            `json:"navbar_height"`
}

// DashboardService drives the administrator's review queue: per-view
// expansion state, category list assembly and the single open ticket.
type DashboardService interface {
	// OpenView creates (or resets) the review session of a dashboard view
	OpenView(viewID string)

	// CloseView discards a view's session on navigation away
	CloseView(viewID string)

	// ToggleCategory flips a status category and, when expanding,
	// assembles its filtered card list for the reviewer
	ToggleCategory(ctx context.Context, viewID string, index review.CategoryIndex, reviewerEmail string) (*CategoryView, error)

	// ToggleTicket flips the detail panel of one bill
	ToggleTicket(ctx context.Context, viewID string, billID string) (*TicketView, error)
}

type dashboardServiceImpl struct {
	billRepo       port.BillRepository
	excludedEmails []string
	logger         Logger

	mu    sync.Mutex
	views map[string]*review.Session
}

// NewDashboardService creates a new DashboardService. excludedEmails are
// the designated test accounts a reviewer must never see.
func NewDashboardService(billRepo port.BillRepository, excludedEmails []string, logger Logger) DashboardService {
	return &dashboardServiceImpl{
		billRepo:       billRepo,
		excludedEmails: excludedEmails,
		logger:         logger,
		views:          make(map[string]*review.Session),
	}
}

// OpenView creates or resets the session backing one dashboard view
func (s *dashboardServiceImpl) OpenView(viewID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[viewID] = review.NewSession()
}

// CloseView discards the view's session; toggle state never survives
// navigation
func (s *dashboardServiceImpl) CloseView(viewID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, viewID)
}

func (s *dashboardServiceImpl) session(viewID string) *review.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.views[viewID]
	if !ok {
		sess = review.NewSession()
		s.views[viewID] = sess
	}
	return sess
}

// ToggleCategory flips category state and assembles the rendered list on
// expansion. Collapsing clears the container.
func (s *dashboardServiceImpl) ToggleCategory(ctx context.Context, viewID string, index review.CategoryIndex, reviewerEmail string) (*CategoryView, error) {
	sess := s.session(viewID)

	state, err := sess.ToggleCategory(index)
	if err != nil {
		return nil, err
	}

	view := &CategoryView{
		Index:       index,
		Status:      index.Status(),
		State:       state,
		ArrowID:     fmt.Sprintf("arrow-icon%d", index),
		ContainerID: fmt.Sprintf("status-bills-container%d", index),
	}

	if state == review.PanelCollapsed {
		view.ArrowTransform = arrowClosed
		return view, nil
	}
	view.ArrowTransform = arrowOpen

	bills, err := s.billRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list bills for category", "error", err, "index", int(index))
		return nil, fmt.Errorf("list bills: %w", err)
	}

	reviewer := billing.ReviewerContext{
		Email:          reviewerEmail,
		ExcludedEmails: s.excludedEmails,
	}
	filtered := billing.Filter(bills, index.Status(), reviewer)

	markup, err := billing.Cards(filtered)
	if err != nil {
		return nil, fmt.Errorf("render cards: %w", err)
	}
	view.Markup = markup

	view.BillIDs = make([]string, 0, len(filtered))
	for _, bill := range filtered {
		view.BillIDs = append(view.BillIDs, bill.ID)
	}

	return view, nil
}

// ToggleTicket flips the detail panel for billID. A first click on a new
// bill always opens; a repeated click collapses back.
func (s *dashboardServiceImpl) ToggleTicket(ctx context.Context, viewID string, billID string) (*TicketView, error) {
	sess := s.session(viewID)
	state := sess.ToggleTicket(billID)

	view := &TicketView{
		BillID: billID,
		CardID: fmt.Sprintf("open-bill%s", billID),
		State:  state,
	}

	if state == review.PanelCollapsed {
		view.CardBackground = cardHighlightDefault
		view.OtherCardsBackground = cardHighlightDefault
		view.NavbarHeight = navbarHeightDefault
		return view, nil
	}

	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		s.logger.Error("Failed to load bill for ticket", "error", err, "bill_id", billID)
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill == nil {
		return nil, fmt.Errorf("%w: %s", ErrBillNotFound, billID)
	}

	markup, err := billing.TicketForm(*bill)
	if err != nil {
		return nil, fmt.Errorf("render ticket form: %w", err)
	}

	view.FormMarkup = markup
	view.CardBackground = cardHighlightOpen
	view.OtherCardsBackground = cardHighlightDefault
	view.NavbarHeight = navbarHeightExpanded

	return view, nil
}
