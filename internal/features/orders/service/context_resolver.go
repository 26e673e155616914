package service

import (
	"context"
	"fmt"

	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/features/orders/domain"
	"flow-seal-proxy/internal/features/orders/ports"

	"go.uber.org/zap"
)

// ContextResolver completes a partial order context from the Admin API.
type ContextResolver struct {
	// provider is the interface for reading orders.
	provider ports.OrderProvider
}

// NewContextResolver creates a new instance of ContextResolver.
func NewContextResolver(provider ports.OrderProvider) *ContextResolver {
	return &ContextResolver{
		provider: provider,
	}
}

// Ensure fills the unknown fields of partial with as few remote calls as possible:
//  1. a complete context is returned untouched;
//  2. without an order id, the order is looked up by name;
//  3. with an order id but missing fields, the order is fetched by id.
//
// The result may still lack the order id or the email; callers decide whether that is fatal.
// Remote errors are returned as is.
func (r *ContextResolver) Ensure(ctx context.Context, partial domain.Context, token string) (domain.Context, error) {
	c := partial
	if c.Complete() {
		return c, nil
	}

	log := logger.Named("orders").With(zap.String("shop", c.ShopDomain))

	fetched := false
	if c.OrderID == nil && c.OrderName != nil {
		order, err := r.provider.FindOrderByName(ctx, c.ShopDomain, token, *c.OrderName)
		if err != nil {
			return c, fmt.Errorf("failed to find order %s: %w", *c.OrderName, err)
		}
		if order != nil {
			c.Fill(*order)
			fetched = true
		} else {
			log.Info("No order matches name", zap.String("order_name", *c.OrderName))
		}
	}

	// The by-name query selects the same fields as the by-id one, so a second call would add nothing.
	if !fetched && c.OrderID != nil && (c.Email == nil || c.CustomerID == nil || c.OrderName == nil) {
		order, err := r.provider.GetOrderByID(ctx, c.ShopDomain, token, *c.OrderID)
		if err != nil {
			return c, fmt.Errorf("failed to get order %s: %w", *c.OrderID, err)
		}
		if order != nil {
			c.Fill(*order)
		} else {
			log.Info("Order not found", zap.String("order_id", *c.OrderID))
		}
	}

	return c, nil
}
