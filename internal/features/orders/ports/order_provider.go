package ports

import (
	"context"

	"flow-seal-proxy/internal/features/orders/domain"
)

// OrderProvider defines the interface for reading orders from the Admin API.
// This is a Secondary Port (Driven Port).
type OrderProvider interface {
	// FindOrderByName returns the order whose name equals name exactly, or nil if none matches.
	FindOrderByName(ctx context.Context, shop, token, name string) (*domain.Order, error)
	// GetOrderByID returns the order with the given global id, or nil if it does not exist.
	GetOrderByID(ctx context.Context, shop, token, id string) (*domain.Order, error)
}

// TagProvider defines the interface for adding tags to an order or a customer.
type TagProvider interface {
	// AddTags adds tags to the resource identified by id.
	AddTags(ctx context.Context, shop, token, id string, tags []string) (*domain.TagsAdded, error)
}
