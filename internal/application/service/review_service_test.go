package service

import (
	"context"
	"errors"
	"testing"

	"github.com/franky15/billed-portal/internal/domain/entity"
)

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockNavigator struct {
	routes []entity.Route
}

func (m *mockNavigator) Navigate(route entity.Route) {
	m.routes = append(m.routes, route)
}

type mockNotifier struct {
	notifyFunc func(ctx context.Context, bill entity.Bill) error
	notified   []entity.Bill
}

func (m *mockNotifier) NotifyDecision(ctx context.Context, bill entity.Bill) error {
	m.notified = append(m.notified, bill)
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, bill)
	}
	return nil
}

func pendingBill() entity.Bill {
	return entity.Bill{
		ID:         "b1",
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
	}
}

func storedPendingRepo() *mockBillRepo {
	return &mockBillRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.Bill, error) {
			stored := pendingBill()
			stored.ID = id
			return &stored, nil
		},
	}
}

func TestReviewService_Accept(t *testing.T) {
	var updated *entity.Bill
	repo := storedPendingRepo()
	repo.updateFunc = func(ctx context.Context, bill *entity.Bill) error {
		updated = bill
		return nil
	}
	nav := &mockNavigator{}
	tx := &mockTxManager{}
	svc := NewReviewService(repo, tx, nav, nil, &mockLogger{})

	original := pendingBill()
	result := svc.Accept(context.Background(), original, "ok")

	if !result.OK() {
		t.Fatalf("Accept() not ok: persist=%v", result.PersistErr)
	}
	if result.Bill.Status != entity.StatusAccepted {
		t.Errorf("Status = %v, want %v", result.Bill.Status, entity.StatusAccepted)
	}
	if result.Bill.CommentAdmin != "ok" {
		t.Errorf("CommentAdmin = %q, want %q", result.Bill.CommentAdmin, "ok")
	}

	// Every other field is preserved
	check := *result.Bill
	check.Status = original.Status
	check.CommentAdmin = original.CommentAdmin
	check.UpdatedAt = original.UpdatedAt
	if check != original {
		t.Errorf("Accept() altered fields beyond status/commentAdmin: %+v", result.Bill)
	}

	if updated == nil || updated.ID != "b1" {
		t.Error("Accept() should persist the reviewed record keyed by id")
	}
	if tx.calls != 1 {
		t.Errorf("transaction invoked %d times, want 1", tx.calls)
	}
	if len(nav.routes) != 1 || nav.routes[0] != entity.RouteDashboard {
		t.Errorf("navigation = %v, want [Dashboard]", nav.routes)
	}
}

func TestReviewService_Refuse(t *testing.T) {
	repo := storedPendingRepo()
	nav := &mockNavigator{}
	svc := NewReviewService(repo, &mockTxManager{}, nav, nil, &mockLogger{})

	result := svc.Refuse(context.Background(), pendingBill(), "justificatif illisible")

	if !result.OK() {
		t.Fatalf("Refuse() not ok: persist=%v", result.PersistErr)
	}
	if result.Bill.Status != entity.StatusRefused {
		t.Errorf("Status = %v, want %v", result.Bill.Status, entity.StatusRefused)
	}
	if result.Bill.CommentAdmin != "justificatif illisible" {
		t.Errorf("CommentAdmin = %q", result.Bill.CommentAdmin)
	}
}

func TestReviewService_PersistFailureStillNavigates(t *testing.T) {
	persistErr := errors.New("store down")
	repo := storedPendingRepo()
	repo.updateFunc = func(ctx context.Context, bill *entity.Bill) error {
		return persistErr
	}
	nav := &mockNavigator{}
	notifier := &mockNotifier{}
	svc := NewReviewService(repo, &mockTxManager{}, nav, notifier, &mockLogger{})

	result := svc.Accept(context.Background(), pendingBill(), "ok")

	if result.OK() {
		t.Fatal("result should report the persistence failure")
	}
	if !errors.Is(result.PersistErr, persistErr) {
		t.Errorf("PersistErr = %v, want %v", result.PersistErr, persistErr)
	}
	if len(nav.routes) != 1 || nav.routes[0] != entity.RouteDashboard {
		t.Errorf("navigation must still happen, got %v", nav.routes)
	}
	if len(notifier.notified) != 0 {
		t.Error("no notification should go out for an unpersisted decision")
	}
}

func TestReviewService_RejectsNonPendingBill(t *testing.T) {
	var updateCalled bool
	repo := storedPendingRepo()
	repo.updateFunc = func(ctx context.Context, bill *entity.Bill) error {
		updateCalled = true
		return nil
	}
	nav := &mockNavigator{}
	svc := NewReviewService(repo, &mockTxManager{}, nav, nil, &mockLogger{})

	bill := pendingBill()
	bill.Status = entity.StatusAccepted
	result := svc.Refuse(context.Background(), bill, "non")

	if !errors.Is(result.PersistErr, entity.ErrInvalidTransition) {
		t.Fatalf("PersistErr = %v, want %v", result.PersistErr, entity.ErrInvalidTransition)
	}
	if updateCalled {
		t.Error("an invalid transition must not reach the store")
	}
	if len(nav.routes) != 1 {
		t.Errorf("navigation must still happen, got %v", nav.routes)
	}
}

func TestReviewService_StaleSnapshotLosesToStoredVerdict(t *testing.T) {
	// The operator's snapshot is still pending, but another reviewer's
	// decision already landed in the store.
	var updateCalled bool
	repo := &mockBillRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.Bill, error) {
			stored := pendingBill()
			stored.Status = entity.StatusRefused
			return &stored, nil
		},
		updateFunc: func(ctx context.Context, bill *entity.Bill) error {
			updateCalled = true
			return nil
		},
	}
	nav := &mockNavigator{}
	svc := NewReviewService(repo, &mockTxManager{}, nav, nil, &mockLogger{})

	result := svc.Accept(context.Background(), pendingBill(), "ok")

	if !errors.Is(result.PersistErr, entity.ErrInvalidTransition) {
		t.Fatalf("PersistErr = %v, want %v", result.PersistErr, entity.ErrInvalidTransition)
	}
	if updateCalled {
		t.Error("a stale decision must not overwrite the stored verdict")
	}
	if len(nav.routes) != 1 {
		t.Errorf("navigation must still happen, got %v", nav.routes)
	}
}

func TestReviewService_NotifierFailureRecorded(t *testing.T) {
	notifyErr := errors.New("messenger unreachable")
	repo := storedPendingRepo()
	nav := &mockNavigator{}
	notifier := &mockNotifier{
		notifyFunc: func(ctx context.Context, bill entity.Bill) error {
			return notifyErr
		},
	}
	svc := NewReviewService(repo, &mockTxManager{}, nav, notifier, &mockLogger{})

	result := svc.Accept(context.Background(), pendingBill(), "ok")

	if !result.OK() {
		t.Fatal("notification failure must not fail the decision")
	}
	if !errors.Is(result.NotifyErr, notifyErr) {
		t.Errorf("NotifyErr = %v, want %v", result.NotifyErr, notifyErr)
	}
}

func TestReviewService_NotifiesSubmitter(t *testing.T) {
	repo := storedPendingRepo()
	notifier := &mockNotifier{}
	svc := NewReviewService(repo, &mockTxManager{}, &mockNavigator{}, notifier, &mockLogger{})

	svc.Accept(context.Background(), pendingBill(), "ok")

	if len(notifier.notified) != 1 {
		t.Fatalf("notified %d times, want 1", len(notifier.notified))
	}
	if notifier.notified[0].Status != entity.StatusAccepted {
		t.Errorf("notification should carry the reviewed record, got status %v", notifier.notified[0].Status)
	}
}
