package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/franky15/billed-portal/internal/domain/entity"
)

func TestExportService_ExportQueue(t *testing.T) {
	svc := NewExportService(dashboardFixture(), entity.TestAccountEmails, &mockLogger{})

	path := filepath.Join(t.TempDir(), "queue.xlsx")
	err := svc.ExportQueue(context.Background(), path, "john.doe@billed.com")
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"En attente", "Accepté", "Refused"}, sheets)

	// Only p2 is eligible for the pending bucket: john.doe reviews
	// their own queue and the seed account is excluded.
	id, err := f.GetCellValue("En attente", "A2")
	require.NoError(t, err)
	assert.Equal(t, "p2", id)

	next, err := f.GetCellValue("En attente", "A3")
	require.NoError(t, err)
	assert.Empty(t, next)

	header, err := f.GetCellValue("Accepté", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	accepted, err := f.GetCellValue("Accepté", "A2")
	require.NoError(t, err)
	assert.Equal(t, "a1", accepted)
}

func TestExportService_ExportQueue_ListError(t *testing.T) {
	repo := &mockBillRepo{
		listFunc: func(ctx context.Context) ([]entity.Bill, error) {
			return nil, assert.AnError
		},
	}
	svc := NewExportService(repo, nil, &mockLogger{})

	err := svc.ExportQueue(context.Background(), filepath.Join(t.TempDir(), "queue.xlsx"), "")
	assert.Error(t, err)
}
