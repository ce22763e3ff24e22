// Package audience resolves the recipient set for a survey delivery.
//
// There are exactly two strategies: recent-activity windows for post-visit
// triggers, and role+department targeting for everything else. Callers are
// expected to bound recipient-set size externally (department cardinality);
// the resolver does not paginate.
package audience

import (
	"context"
	"time"

	"surveyd/internal/domain"
	"surveyd/internal/store"
)

// Resolver turns a survey's targeting rule into a candidate recipient set.
type Resolver struct {
	recipients store.RecipientStore
}

func NewResolver(recipients store.RecipientStore) Resolver {
	return Resolver{recipients: recipients}
}

// RecentPatients returns patients whose activity timestamp falls within
// window of now. The caller parses the survey's trigger metadata into the
// window so that a malformed window is classified as a schedule error, not
// a resolution error.
func (r Resolver) RecentPatients(ctx context.Context, window time.Duration, now time.Time) ([]domain.Recipient, error) {
	cutoff := now.Add(-window)

	candidates, err := r.recipients.FindByActivityWindow(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	out := candidates[:0]
	for _, c := range candidates {
		if c.Role == domain.RolePatient {
			out = append(out, c)
		}
	}
	return out, nil
}

// TargetPatients returns patients for a scheduled/recurring/manual send,
// filtered by department when the survey sets one.
func (r Resolver) TargetPatients(ctx context.Context, department string) ([]domain.Recipient, error) {
	return r.recipients.FindByRoleAndDepartment(ctx, domain.RolePatient, department)
}
