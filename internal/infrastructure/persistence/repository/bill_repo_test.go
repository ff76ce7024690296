package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/franky15/billed-portal/internal/domain/entity"
	"github.com/franky15/billed-portal/internal/infrastructure/persistence/sqlite"
)

const billsSchema = `
	CREATE TABLE bills (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL,
		type          TEXT NOT NULL,
		name          TEXT NOT NULL,
		commentary    TEXT NOT NULL DEFAULT '',
		date          TEXT NOT NULL,
		amount        REAL NOT NULL,
		vat           REAL NOT NULL DEFAULT 0,
		pct           INTEGER NOT NULL DEFAULT 20,
		status        TEXT NOT NULL DEFAULT 'pending',
		comment_admin TEXT NOT NULL DEFAULT '',
		file_url      TEXT NOT NULL DEFAULT '',
		file_name     TEXT NOT NULL DEFAULT '',
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	)`

func newTestRepo(t *testing.T) (*BillRepository, *sqlite.DB) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	// One connection keeps the in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = sqlDB.Exec(billsSchema)
	require.NoError(t, err)

	return NewBillRepository(sqlDB, zap.NewNop()), sqlite.NewDB(sqlDB, zap.NewNop())
}

func sampleBill(id string) *entity.Bill {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.Bill{
		ID:         id,
		Email:      "john.doe@billed.com",
		Type:       "Transports",
		Name:       "vol Paris Londres",
		Commentary: "séminaire billed",
		Date:       "2004-04-04",
		Amount:     348,
		VAT:        70,
		Pct:        20,
		Status:     entity.StatusPending,
		FileURL:    "https://storage.example/proof.jpg",
		FileName:   "proof.jpg",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestBillRepository_CreateAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	bill := sampleBill("b1")
	require.NoError(t, repo.Create(ctx, bill))

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bill.ID, got.ID)
	assert.Equal(t, bill.Email, got.Email)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.Equal(t, bill.Amount, got.Amount)
}

func TestBillRepository_GetByID_Absent(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBillRepository_Update(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	bill := sampleBill("b1")
	require.NoError(t, repo.Create(ctx, bill))

	reviewed, err := bill.WithDecision(entity.StatusAccepted, "ok")
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, &reviewed))

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StatusAccepted, got.Status)
	assert.Equal(t, "ok", got.CommentAdmin)
}

func TestBillRepository_UpdateMissingBill(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Update(context.Background(), sampleBill("ghost"))
	assert.Error(t, err)
}

func TestBillRepository_CorruptStatusRejected(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	bill := sampleBill("b1")
	require.NoError(t, repo.Create(ctx, bill))

	_, err := repo.db.Exec("UPDATE bills SET status = 'archived' WHERE id = 'b1'")
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, "b1")
	assert.Error(t, err)

	_, err = repo.List(ctx)
	assert.Error(t, err)
}

func TestBillRepository_List(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleBill("b1")))
	require.NoError(t, repo.Create(ctx, sampleBill("b2")))

	bills, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, bills, 2)
}

func TestBillRepository_TransactionRollback(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, sampleBill("b1")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, got, "rolled back write must not be visible")
}

func TestBillRepository_TransactionCommit(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		return repo.Create(txCtx, sampleBill("b1"))
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
