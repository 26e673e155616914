package ports

import (
	"context"

	"flow-seal-proxy/internal/features/subscriptions/domain"
)

// SubscriptionProvider defines access to the subscription management API.
// This is a Secondary Port (Driven Port).
type SubscriptionProvider interface {
	// Search returns the subscriptions recorded for a customer email (first page only).
	Search(ctx context.Context, email, token string) ([]domain.Stub, error)
	// Detail fetches one subscription and reduces it to a Summary.
	Detail(ctx context.Context, id domain.ID, token string) (*domain.Summary, error)
}
