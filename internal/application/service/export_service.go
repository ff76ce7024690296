package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/billing"
	"github.com/franky15/billed-portal/internal/domain/entity"
	"github.com/franky15/billed-portal/internal/domain/review"
)

// ExportService writes the administrator's review queue to an xlsx
// workbook, one sheet per status category, applying the same eligibility
// filter as the dashboard itself.
type ExportService interface {
	ExportQueue(ctx context.Context, outputPath string, reviewerEmail string) error
}

type exportServiceImpl struct {
	billRepo       port.BillRepository
	excludedEmails []string
	logger         Logger
}

// NewExportService creates a new ExportService
func NewExportService(billRepo port.BillRepository, excludedEmails []string, logger Logger) ExportService {
	return &exportServiceImpl{
		billRepo:       billRepo,
		excludedEmails: excludedEmails,
		logger:         logger,
	}
}

var exportHeader = []string{
	"ID", "Email", "Nom", "Type", "Date", "Montant", "TVA", "Pct", "Commentaire", "Commentaire admin",
}

// ExportQueue writes the three category buckets to outputPath
func (s *exportServiceImpl) ExportQueue(ctx context.Context, outputPath string, reviewerEmail string) error {
	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list bills: %w", err)
	}

	reviewer := billing.ReviewerContext{
		Email:          reviewerEmail,
		ExcludedEmails: s.excludedEmails,
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, index := range []review.CategoryIndex{review.CategoryPending, review.CategoryAccepted, review.CategoryRefused} {
		status := index.Status()
		label, err := billing.FormatStatus(status)
		if err != nil {
			return err
		}

		if _, err := f.NewSheet(label); err != nil {
			return fmt.Errorf("create sheet %q: %w", label, err)
		}

		for col, title := range exportHeader {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(label, cell, title); err != nil {
				return err
			}
		}

		for row, bill := range billing.Filter(bills, status, reviewer) {
			if err := s.writeBillRow(f, label, row+2, bill); err != nil {
				return err
			}
		}
	}

	// Drop the default sheet so only the three categories remain
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	s.logger.Info("Review queue exported", "path", outputPath, "bills", len(bills))
	return nil
}

func (s *exportServiceImpl) writeBillRow(f *excelize.File, sheet string, row int, bill entity.Bill) error {
	date, err := billing.FormatDate(bill.Date)
	if err != nil {
		date = bill.Date
	}

	values := []interface{}{
		bill.ID, bill.Email, bill.Name, bill.Type, date,
		bill.Amount, bill.VAT, bill.Pct, bill.Commentary, bill.CommentAdmin,
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
