package port

import (
	"context"

	"github.com/franky15/billed-portal/internal/domain/entity"
)

// SessionStore reads the authenticated user bootstrapped by the login
// flow. The store holds, per session, a "user" key with a serialized
// {type, email} document.
type SessionStore interface {
	// User returns the session's authenticated user, nil when the
	// session is unknown or expired
	User(ctx context.Context, sessionID string) (*entity.SessionUser, error)

	// Clear discards the session on logout
	Clear(ctx context.Context, sessionID string) error
}

// Navigator is the single navigation collaborator: the workflow calls it
// after a decision to force a fresh fetch-and-render cycle.
type Navigator interface {
	Navigate(route entity.Route)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(route entity.Route)

// Navigate calls the wrapped function
func (f NavigatorFunc) Navigate(route entity.Route) { f(route) }

// DecisionNotifier tells a submitter that their bill was reviewed.
// Failures never block the workflow; they are recorded in the decision
// result.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, bill entity.Bill) error
}
