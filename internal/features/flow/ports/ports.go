package ports

import (
	"context"

	flowdomain "flow-seal-proxy/internal/features/flow/domain"
	orderdomain "flow-seal-proxy/internal/features/orders/domain"
	regiondomain "flow-seal-proxy/internal/features/regions/domain"
	subdomain "flow-seal-proxy/internal/features/subscriptions/domain"
)

// RegionGuard resolves a shop to its region and checks the request may proceed.
type RegionGuard interface {
	Resolve(shopDomain string) (regiondomain.Region, error)
	Authenticate(region regiondomain.Region, header string) error
	CheckCredentials(region regiondomain.Region, mode string) error
}

// ContextResolver completes a partial order context.
type ContextResolver interface {
	Ensure(ctx context.Context, partial orderdomain.Context, token string) (orderdomain.Context, error)
}

// SubscriptionLookup finds the subscriptions of a customer email.
type SubscriptionLookup interface {
	Search(ctx context.Context, email, token string) ([]subdomain.Stub, error)
	Summaries(ctx context.Context, email, token string) ([]subdomain.Summary, error)
}

// TagApplier writes tags to one target and reports the outcome without failing.
type TagApplier interface {
	Apply(ctx context.Context, target, shop, token, targetID string, tags []string) orderdomain.TagWriteResult
}

// FlowService defines the business logic of the order-created webhook.
// This is a Primary Port (Driving Port).
type FlowService interface {
	// Process resolves the order, looks up subscriptions and writes tags.
	Process(ctx context.Context, in flowdomain.Input) (*flowdomain.Result, error)
	// Search only looks up the raw subscriptions of the webhook email.
	Search(ctx context.Context, in flowdomain.Input) (*flowdomain.SearchResult, error)
}
