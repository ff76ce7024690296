package entity

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the review status of a bill
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusAccepted: true,
	StatusRefused:  true,
}

// IsValid returns true if the status is one of the three review statuses
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from the status
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRefused
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ErrInvalidTransition is returned when a status transition is not allowed
var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransition reports whether a bill may move from one status to another.
// The only permitted transitions are pending -> accepted and pending -> refused.
func CanTransition(from, to Status) bool {
	return from == StatusPending && to.IsTerminal()
}

// Bill represents one submitted expense record. Bills are immutable once
// received: review decisions produce a new record rather than mutating in place.
type Bill struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Commentary   string  `json:"commentary"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	VAT          float64 `json:"vat"`
	Pct          int     `json:"pct"`
	Status       Status  `json:"status"`
	CommentAdmin string  `json:"commentAdmin"`
	FileURL      string  `json:"fileUrl"`
	FileName     string  `json:"fileName"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WithDecision returns a copy of the bill carrying the review decision.
// The stored record is left untouched; ID remains the persistence key.
func (b Bill) WithDecision(to Status, commentAdmin string) (Bill, error) {
	if !CanTransition(b.Status, to) {
		return Bill{}, fmt.Errorf("%w: %s -> %s for bill %s", ErrInvalidTransition, b.Status, to, b.ID)
	}
	reviewed := b
	reviewed.Status = to
	reviewed.CommentAdmin = commentAdmin
	return reviewed, nil
}

// FormattedBill is a bill carrying display-ready date and status strings
// alongside the raw record. The raw Date field keeps its stored form.
type FormattedBill struct {
	Bill
	DisplayDate   string `json:"display_date"`
	DisplayStatus string `json:"display_status"`
}
