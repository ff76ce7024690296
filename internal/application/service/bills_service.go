package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/billing"
	"github.com/franky15/billed-portal/internal/domain/entity"
	"github.com/franky15/billed-portal/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ErrUnsupportedProofFile is returned when a bill draft references a
// proof file whose extension is not an allowed image type
var ErrUnsupportedProofFile = errors.New("unsupported proof file type")

// ErrInvalidDraft is returned when a bill draft fails field validation
var ErrInvalidDraft = errors.New("invalid bill draft")

// BillDraft carries the fields of a bill being submitted by an employee.
// The proof file itself is uploaded by an external collaborator; only
// its reference lands here.
type BillDraft struct {
	Email      string
	Type       string
	Name       string
	Commentary string
	Date       string
	Amount     float64
	VAT        float64
	Pct        int
	FileURL    string
	FileName   string
}

// BillsService is the employee-facing bill surface: listing one's own
// bills with display formatting, and submitting new ones.
type BillsService interface {
	// GetBills returns every bill with display-ready date and status.
	// A nil store yields no result and no error; the view handles the
	// absence of data.
	GetBills(ctx context.Context) ([]entity.FormattedBill, error)

	// Create persists a new pending bill from a draft
	Create(ctx context.Context, draft BillDraft) (*entity.Bill, error)
}

type billsServiceImpl struct {
	billRepo port.BillRepository
	logger   Logger
}

// NewBillsService creates a new BillsService
func NewBillsService(billRepo port.BillRepository, logger Logger) BillsService {
	return &billsServiceImpl{
		billRepo: billRepo,
		logger:   logger,
	}
}

// GetBills lists raw bill snapshots and applies display formatting.
// A record whose date cannot be parsed keeps its original date string;
// the failure is logged and the rest of the batch is unaffected. An
// unknown status is an implementation error and fails the call.
func (s *billsServiceImpl) GetBills(ctx context.Context) ([]entity.FormattedBill, error) {
	if s.billRepo == nil {
		return nil, nil
	}

	snapshot, err := s.billRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list bills", "error", err)
		return nil, fmt.Errorf("list bills: %w", err)
	}

	formatted := make([]entity.FormattedBill, 0, len(snapshot))
	for _, bill := range snapshot {
		displayStatus, err := billing.FormatStatus(bill.Status)
		if err != nil {
			return nil, fmt.Errorf("format status for bill %s: %w", bill.ID, err)
		}

		displayDate, err := billing.FormatDate(bill.Date)
		if err != nil {
			s.logger.Error("Keeping raw date for malformed record",
				"bill_id", bill.ID, "date", bill.Date, "error", err)
			displayDate = bill.Date
		}

		formatted = append(formatted, entity.FormattedBill{
			Bill:          bill,
			DisplayDate:   displayDate,
			DisplayStatus: displayStatus,
		})
	}

	return formatted, nil
}

// Create assigns an id, stamps the draft pending and persists it
func (s *billsServiceImpl) Create(ctx context.Context, draft BillDraft) (*entity.Bill, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	now := time.Now()
	bill := &entity.Bill{
		ID:         uuid.NewString(),
		Email:      draft.Email,
		Type:       draft.Type,
		Name:       draft.Name,
		Commentary: draft.Commentary,
		Date:       draft.Date,
		Amount:     draft.Amount,
		VAT:        draft.VAT,
		Pct:        draft.Pct,
		Status:     entity.StatusPending,
		FileURL:    draft.FileURL,
		FileName:   draft.FileName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		s.logger.Error("Failed to create bill", "error", err, "email", draft.Email)
		return nil, fmt.Errorf("create bill: %w", err)
	}

	s.logger.Info("Bill created", "bill_id", bill.ID, "email", bill.Email)
	return bill, nil
}

func validateDraft(draft BillDraft) error {
	if err := validateProofFile(draft.FileName); err != nil {
		return err
	}
	if err := utils.ValidateEmail(draft.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if err := utils.ValidateAmount(draft.Amount); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if err := utils.ValidatePct(draft.Pct); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return nil
}

func validateProofFile(fileName string) error {
	if fileName == "" {
		return nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	switch ext {
	case entity.ProofExtJPG, entity.ProofExtJPEG, entity.ProofExtPNG:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedProofFile, fileName)
}
