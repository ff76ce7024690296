package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/domain/entity"
	"github.com/franky15/billed-portal/internal/infrastructure/persistence/sqlite"
)

// executor abstracts over *sql.DB and *sql.Tx so repository methods
// run against whichever the context carries.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const billColumns = `id, email, type, name, commentary, date, amount, vat, pct,
		status, comment_admin, file_url, file_name, created_at, updated_at`

// BillRepository implements port.BillRepository using SQLite
type BillRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBillRepository creates a new SQLite bill repository
func NewBillRepository(db *sql.DB, logger *zap.Logger) *BillRepository {
	return &BillRepository{
		db:     db,
		logger: logger,
	}
}

// getExecutor returns the transaction from context if present, otherwise the database
func (r *BillRepository) getExecutor(ctx context.Context) executor {
	if tx, ok := sqlite.TxFromContext(ctx); ok {
		return tx
	}
	return r.db
}

// Create inserts a new bill
func (r *BillRepository) Create(ctx context.Context, bill *entity.Bill) error {
	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		bill.ID,
		bill.Email,
		bill.Type,
		bill.Name,
		bill.Commentary,
		bill.Date,
		bill.Amount,
		bill.VAT,
		bill.Pct,
		string(bill.Status),
		bill.CommentAdmin,
		bill.FileURL,
		bill.FileName,
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create bill", zap.String("bill_id", bill.ID), zap.Error(err))
		return fmt.Errorf("failed to create bill: %w", err)
	}

	return nil
}

// GetByID retrieves a bill by its ID, returning nil when absent
func (r *BillRepository) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = ?`

	row := r.getExecutor(ctx).QueryRowContext(ctx, query, id)

	bill, err := scanBill(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get bill", zap.String("bill_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return bill, nil
}

// List retrieves all bills ordered by creation time
func (r *BillRepository) List(ctx context.Context) ([]entity.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills ORDER BY created_at DESC, id`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list bills", zap.Error(err))
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]entity.Bill, 0)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// Update persists the mutable fields of an existing bill
func (r *BillRepository) Update(ctx context.Context, bill *entity.Bill) error {
	query := `
		UPDATE bills
		SET email = ?, type = ?, name = ?, commentary = ?, date = ?,
			amount = ?, vat = ?, pct = ?, status = ?, comment_admin = ?,
			file_url = ?, file_name = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		bill.Email,
		bill.Type,
		bill.Name,
		bill.Commentary,
		bill.Date,
		bill.Amount,
		bill.VAT,
		bill.Pct,
		string(bill.Status),
		bill.CommentAdmin,
		bill.FileURL,
		bill.FileName,
		bill.UpdatedAt,
		bill.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update bill", zap.String("bill_id", bill.ID), zap.Error(err))
		return fmt.Errorf("failed to update bill: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bill not found: %s", bill.ID)
	}

	return nil
}

// scanner covers *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBill(s scanner) (*entity.Bill, error) {
	var bill entity.Bill
	var status string

	err := s.Scan(
		&bill.ID,
		&bill.Email,
		&bill.Type,
		&bill.Name,
		&bill.Commentary,
		&bill.Date,
		&bill.Amount,
		&bill.VAT,
		&bill.Pct,
		&status,
		&bill.CommentAdmin,
		&bill.FileURL,
		&bill.FileName,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bill.Status = entity.Status(status)
	if !bill.Status.IsValid() {
		return nil, fmt.Errorf("corrupt status %q for bill %s", status, bill.ID)
	}
	return &bill, nil
}

// Verify interface compliance
var _ port.BillRepository = (*BillRepository)(nil)
