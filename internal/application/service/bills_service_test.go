package service

import (
	"context"
	"errors"
	"testing"

	"github.com/franky15/billed-portal/internal/domain/entity"
)

// Mock repository
type mockBillRepo struct {
	createFunc  func(ctx context.Context, bill *entity.Bill) error
	getByIDFunc func(ctx context.Context, id string) (*entity.Bill, error)
	listFunc    func(ctx context.Context) ([]entity.Bill, error)
	updateFunc  func(ctx context.Context, bill *entity.Bill) error
}

func (m *mockBillRepo) Create(ctx context.Context, bill *entity.Bill) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, bill)
	}
	return nil
}

func (m *mockBillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBillRepo) List(ctx context.Context) ([]entity.Bill, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []entity.Bill{}, nil
}

func (m *mockBillRepo) Update(ctx context.Context, bill *entity.Bill) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, bill)
	}
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func TestBillsService_GetBills(t *testing.T) {
	repo := &mockBillRepo{
		listFunc: func(ctx context.Context) ([]entity.Bill, error) {
			return []entity.Bill{
				{ID: "b1", Date: "2004-04-04", Status: entity.StatusPending},
				{ID: "b2", Date: "2005-12-01", Status: entity.StatusAccepted},
			}, nil
		},
	}
	svc := NewBillsService(repo, &mockLogger{})

	bills, err := svc.GetBills(context.Background())
	if err != nil {
		t.Fatalf("GetBills() failed: %v", err)
	}
	if len(bills) != 2 {
		t.Fatalf("GetBills() returned %d bills, want 2", len(bills))
	}

	if bills[0].DisplayDate != "4 Avr. 04" {
		t.Errorf("DisplayDate = %q, want %q", bills[0].DisplayDate, "4 Avr. 04")
	}
	if bills[0].DisplayStatus != "En attente" {
		t.Errorf("DisplayStatus = %q, want %q", bills[0].DisplayStatus, "En attente")
	}
	if bills[1].DisplayStatus != "Accepté" {
		t.Errorf("DisplayStatus = %q, want %q", bills[1].DisplayStatus, "Accepté")
	}
	// Raw date stays untouched
	if bills[0].Date != "2004-04-04" {
		t.Errorf("raw Date mutated to %q", bills[0].Date)
	}
}

func TestBillsService_GetBills_MalformedDateKeptRaw(t *testing.T) {
	repo := &mockBillRepo{
		listFunc: func(ctx context.Context) ([]entity.Bill, error) {
			return []entity.Bill{
				{ID: "b1", Date: "2004-04-04", Status: entity.StatusPending},
				{ID: "b2", Date: "corrupted", Status: entity.StatusRefused},
				{ID: "b3", Date: "2006-06-06", Status: entity.StatusAccepted},
			}, nil
		},
	}
	svc := NewBillsService(repo, &mockLogger{})

	bills, err := svc.GetBills(context.Background())
	if err != nil {
		t.Fatalf("GetBills() failed: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("one malformed record aborted the batch: got %d bills", len(bills))
	}

	if bills[1].DisplayDate != "corrupted" {
		t.Errorf("malformed record DisplayDate = %q, want raw %q", bills[1].DisplayDate, "corrupted")
	}
	if bills[1].DisplayStatus != "Refused" {
		t.Errorf("status formatting should still apply, got %q", bills[1].DisplayStatus)
	}
	if bills[0].DisplayDate != "4 Avr. 04" || bills[2].DisplayDate != "6 Jui. 06" {
		t.Errorf("well-formed records should format: %q, %q", bills[0].DisplayDate, bills[2].DisplayDate)
	}
}

func TestBillsService_GetBills_NoStore(t *testing.T) {
	svc := NewBillsService(nil, &mockLogger{})

	bills, err := svc.GetBills(context.Background())
	if err != nil {
		t.Fatalf("GetBills() without store should be a no-op, got error %v", err)
	}
	if bills != nil {
		t.Errorf("GetBills() without store = %v, want no result", bills)
	}
}

func TestBillsService_GetBills_UnknownStatusFails(t *testing.T) {
	repo := &mockBillRepo{
		listFunc: func(ctx context.Context) ([]entity.Bill, error) {
			return []entity.Bill{{ID: "b1", Date: "2004-04-04", Status: "archived"}}, nil
		},
	}
	svc := NewBillsService(repo, &mockLogger{})

	if _, err := svc.GetBills(context.Background()); err == nil {
		t.Fatal("GetBills() should fail on unknown status")
	}
}

func TestBillsService_GetBills_ListError(t *testing.T) {
	repo := &mockBillRepo{
		listFunc: func(ctx context.Context) ([]entity.Bill, error) {
			return nil, errors.New("store unavailable")
		},
	}
	svc := NewBillsService(repo, &mockLogger{})

	if _, err := svc.GetBills(context.Background()); err == nil {
		t.Fatal("GetBills() should propagate store errors")
	}
}

func TestBillsService_Create(t *testing.T) {
	var created *entity.Bill
	repo := &mockBillRepo{
		createFunc: func(ctx context.Context, bill *entity.Bill) error {
			created = bill
			return nil
		},
	}
	svc := NewBillsService(repo, &mockLogger{})

	bill, err := svc.Create(context.Background(), BillDraft{
		Email:    "john.doe@billed.com",
		Type:     "Transports",
		Name:     "vol Paris Londres",
		Date:     "2023-04-04",
		Amount:   348,
		VAT:      70,
		Pct:      20,
		FileURL:  "https://storage.example/proof.jpg",
		FileName: "proof.jpg",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if bill.ID == "" {
		t.Error("Create() should assign an id")
	}
	if bill.Status != entity.StatusPending {
		t.Errorf("Status = %v, want %v", bill.Status, entity.StatusPending)
	}
	if created == nil || created.ID != bill.ID {
		t.Error("Create() should persist the new record")
	}
}

func TestBillsService_Create_RejectsProofExtension(t *testing.T) {
	svc := NewBillsService(&mockBillRepo{}, &mockLogger{})

	_, err := svc.Create(context.Background(), BillDraft{
		Email:    "john.doe@billed.com",
		FileName: "proof.pdf",
	})
	if !errors.Is(err, ErrUnsupportedProofFile) {
		t.Fatalf("Create() error = %v, want %v", err, ErrUnsupportedProofFile)
	}
}

func TestBillsService_CreateRejectsInvalidDraft(t *testing.T) {
	svc := NewBillsService(&mockBillRepo{}, &mockLogger{})

	tests := []struct {
		name  string
		draft BillDraft
	}{
		{"bad email", BillDraft{Email: "not-an-email", Amount: 100, Pct: 20}},
		{"zero amount", BillDraft{Email: "john.doe@billed.com", Amount: 0, Pct: 20}},
		{"pct out of range", BillDraft{Email: "john.doe@billed.com", Amount: 100, Pct: 120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.draft)
			if !errors.Is(err, ErrInvalidDraft) {
				t.Fatalf("Create() error = %v, want %v", err, ErrInvalidDraft)
			}
		})
	}
}
