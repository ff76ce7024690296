package lark

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/billing"
	"github.com/franky15/billed-portal/internal/domain/entity"
)

// DecisionNotifier implements port.DecisionNotifier over Lark messaging.
// Submitters are addressed by the email on the bill.
type DecisionNotifier struct {
	client *Client
	logger *zap.Logger
}

// NewDecisionNotifier creates a new Lark decision notifier
func NewDecisionNotifier(client *Client, logger *zap.Logger) *DecisionNotifier {
	return &DecisionNotifier{
		client: client,
		logger: logger,
	}
}

// NotifyDecision tells the submitter that their bill was reviewed
func (n *DecisionNotifier) NotifyDecision(ctx context.Context, bill entity.Bill) error {
	if bill.Email == "" {
		return fmt.Errorf("bill %s has no submitter email", bill.ID)
	}

	label, err := billing.FormatStatus(bill.Status)
	if err != nil {
		label = bill.Status.String()
	}

	text := fmt.Sprintf("Votre note de frais %q du %s (%.2f €) est passée au statut : %s.",
		bill.Name, bill.Date, bill.Amount, label)
	if bill.CommentAdmin != "" {
		text += fmt.Sprintf(" Commentaire : %s", bill.CommentAdmin)
	}

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to build message content: %w", err)
	}

	if _, err := n.client.SendMessage(ctx, "email", bill.Email, "text", string(content)); err != nil {
		return fmt.Errorf("failed to notify submitter: %w", err)
	}

	n.logger.Info("Decision notification sent",
		zap.String("bill_id", bill.ID),
		zap.String("email", bill.Email),
		zap.String("status", bill.Status.String()))

	return nil
}

// Verify interface compliance
var _ port.DecisionNotifier = (*DecisionNotifier)(nil)
