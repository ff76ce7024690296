package billing

import "github.com/franky15/billed-portal/internal/domain/entity"

// ReviewerContext carries the conflict-of-interest exclusions applied when
// an administrator assembles their queue: the reviewer's own email plus the
// designated test accounts. A zero context applies no exclusion, which is
// how non-reviewer callers (and tests of the plain status filter) run.
// The context is always injected; the filter never inspects its execution
// environment to decide which rule applies.
type ReviewerContext struct {
	Email          string
	ExcludedEmails []string
}

func (rc ReviewerContext) excluded() map[string]bool {
	set := make(map[string]bool, len(rc.ExcludedEmails)+1)
	for _, email := range rc.ExcludedEmails {
		if email != "" {
			set[email] = true
		}
	}
	if rc.Email != "" {
		set[rc.Email] = true
	}
	return set
}

// Filter selects the bills of the requested status, excluding any bill
// whose submitter falls under the reviewer's conflict-of-interest set.
// Nil or empty input yields an empty result, never an error.
func Filter(bills []entity.Bill, status entity.Status, reviewer ReviewerContext) []entity.Bill {
	if len(bills) == 0 {
		return []entity.Bill{}
	}

	excluded := reviewer.excluded()
	selected := make([]entity.Bill, 0, len(bills))
	for _, bill := range bills {
		if bill.Status != status {
			continue
		}
		if excluded[bill.Email] {
			continue
		}
		selected = append(selected, bill)
	}
	return selected
}
