package service

import (
	"context"
	"fmt"
	"time"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/domain/entity"
)

// DecisionResult is the structured outcome of an accept/refuse action.
// The workflow never surfaces persistence or notification failures to
// the operator; it records them here so callers and tests can observe
// what a log line used to swallow. Navigation happens regardless.
type DecisionResult struct {
	Bill       *entity.Bill
	PersistErr error
	NotifyErr  error
}

// OK reports whether the decision was persisted
func (r DecisionResult) OK() bool {
	return r.Bill != nil && r.PersistErr == nil
}

// ReviewService drives the accept/refuse status-transition workflow
type ReviewService interface {
	// Accept moves a pending bill to accepted with the operator's comment
	Accept(ctx context.Context, bill entity.Bill, comment string) DecisionResult

	// Refuse moves a pending bill to refused with the operator's comment
	Refuse(ctx context.Context, bill entity.Bill, comment string) DecisionResult
}

type reviewServiceImpl struct {
	billRepo  port.BillRepository
	txManager port.TransactionManager
	navigator port.Navigator
	notifier  port.DecisionNotifier
	logger    Logger
}

// NewReviewService creates a new ReviewService. notifier may be nil when
// decision notifications are not configured.
func NewReviewService(
	billRepo port.BillRepository,
	txManager port.TransactionManager,
	navigator port.Navigator,
	notifier port.DecisionNotifier,
	logger Logger,
) ReviewService {
	return &reviewServiceImpl{
		billRepo:  billRepo,
		txManager: txManager,
		navigator: navigator,
		notifier:  notifier,
		logger:    logger,
	}
}

// Accept moves a pending bill to accepted
func (s *reviewServiceImpl) Accept(ctx context.Context, bill entity.Bill, comment string) DecisionResult {
	return s.decide(ctx, bill, entity.StatusAccepted, comment)
}

// Refuse moves a pending bill to refused
func (s *reviewServiceImpl) Refuse(ctx context.Context, bill entity.Bill, comment string) DecisionResult {
	return s.decide(ctx, bill, entity.StatusRefused, comment)
}

// decide builds the reviewed record, persists it keyed by bill id, then
// navigates back to the dashboard to force a fresh fetch-and-render
// cycle. The stored record is re-read and the transition re-checked
// inside the transaction, so a decision taken on a stale snapshot never
// overwrites another reviewer's verdict. There is no retry; a failed
// update is logged and recorded in the result while the navigation
// still happens.
func (s *reviewServiceImpl) decide(ctx context.Context, bill entity.Bill, to entity.Status, comment string) DecisionResult {
	defer s.navigator.Navigate(entity.RouteDashboard)

	reviewed, err := bill.WithDecision(to, comment)
	if err != nil {
		s.logger.Error("Rejected review decision", "error", err, "bill_id", bill.ID)
		return DecisionResult{PersistErr: err}
	}

	reviewed.UpdatedAt = time.Now()
	result := DecisionResult{Bill: &reviewed}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		stored, err := s.billRepo.GetByID(txCtx, reviewed.ID)
		if err != nil {
			return fmt.Errorf("get bill: %w", err)
		}
		if stored == nil {
			return fmt.Errorf("bill not found: %s", reviewed.ID)
		}
		if !entity.CanTransition(stored.Status, to) {
			return fmt.Errorf("%w: %s -> %s for bill %s",
				entity.ErrInvalidTransition, stored.Status, to, reviewed.ID)
		}
		return s.billRepo.Update(txCtx, &reviewed)
	})
	if err != nil {
		s.logger.Error("Failed to persist review decision",
			"error", err, "bill_id", reviewed.ID, "status", reviewed.Status)
		result.PersistErr = err
		return result
	}

	s.logger.Info("Bill reviewed",
		"bill_id", reviewed.ID, "status", reviewed.Status, "email", reviewed.Email)

	if s.notifier != nil {
		if err := s.notifier.NotifyDecision(ctx, reviewed); err != nil {
			s.logger.Error("Failed to notify submitter",
				"error", err, "bill_id", reviewed.ID, "email", reviewed.Email)
			result.NotifyErr = err
		}
	}

	return result
}
