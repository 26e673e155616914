package service

import (
	"context"

	"flow-seal-proxy/internal/core/config"
	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/features/flow/domain"
	"flow-seal-proxy/internal/features/flow/ports"
	orderdomain "flow-seal-proxy/internal/features/orders/domain"
	orderservice "flow-seal-proxy/internal/features/orders/service"
	regiondomain "flow-seal-proxy/internal/features/regions/domain"
	subdomain "flow-seal-proxy/internal/features/subscriptions/domain"

	"go.uber.org/zap"
)

// FlowService runs the order-created webhook from shop validation to tag writes.
type FlowService struct {
	regions       ports.RegionGuard
	resolver      ports.ContextResolver
	subscriptions ports.SubscriptionLookup
	tags          ports.TagApplier
}

// NewFlowService creates a new instance of FlowService.
func NewFlowService(
	regions ports.RegionGuard,
	resolver ports.ContextResolver,
	subscriptions ports.SubscriptionLookup,
	tags ports.TagApplier,
) *FlowService {
	return &FlowService{
		regions:       regions,
		resolver:      resolver,
		subscriptions: subscriptions,
		tags:          tags,
	}
}

// Process handles a webhook in full mode. Failures before the tag writes are returned
// as *domain.StepError and stop the webhook. Tag write failures are reported in the result.
func (s *FlowService) Process(ctx context.Context, in domain.Input) (*domain.Result, error) {
	region, err := s.admit(in, config.ModeFull)
	if err != nil {
		return nil, err
	}
	code := string(region.Code)

	log := logger.Named("flow").With(
		zap.String("region", code),
		zap.String("shop", region.ShopDomain),
	)

	oc, err := s.resolver.Ensure(ctx, orderdomain.Context{
		ShopDomain: region.ShopDomain,
		OrderID:    in.OrderID,
		OrderName:  in.OrderName,
		CustomerID: in.CustomerID,
		Email:      in.Email,
	}, region.ShopifyToken)
	if err != nil {
		return nil, &domain.StepError{Step: domain.StepResolveContext, Region: code, Err: err}
	}

	if oc.Email == nil {
		return nil, &domain.StepError{Step: domain.StepRequireFields, Region: code, Err: domain.ErrMissingEmail}
	}
	if oc.OrderID == nil {
		return nil, &domain.StepError{Step: domain.StepRequireFields, Region: code, Err: domain.ErrMissingOrderID}
	}

	summaries, err := s.subscriptions.Summaries(ctx, *oc.Email, region.SealToken)
	if err != nil {
		return nil, &domain.StepError{Step: domain.StepLookupSubscriptions, Region: code, Err: err}
	}

	tags := subdomain.DeriveTags(summaries)

	// Apply never fails, so the customer write runs whatever the order write returned.
	orderResult := s.tags.Apply(ctx, orderservice.TargetOrder, region.ShopDomain, region.ShopifyToken, *oc.OrderID, tags)

	var customerResult *orderdomain.TagWriteResult
	if oc.CustomerID != nil {
		r := s.tags.Apply(ctx, orderservice.TargetCustomer, region.ShopDomain, region.ShopifyToken, *oc.CustomerID, tags)
		customerResult = &r
	}

	log.Info("Order-created webhook processed",
		zap.String("order_id", *oc.OrderID),
		zap.Int("subscriptions", len(summaries)),
		zap.Strings("tags", tags),
		zap.String("order_tags", orderResult.Outcome()),
		zap.Bool("customer_tagged", customerResult != nil),
	)

	return &domain.Result{
		Region:            code,
		OK:                true,
		Mode:              config.ModeFull,
		ShopDomain:        region.ShopDomain,
		OrderID:           oc.OrderID,
		OrderName:         oc.OrderName,
		CustomerID:        oc.CustomerID,
		Email:             oc.Email,
		Subscriptions:     summaries,
		Tags:              tags,
		OrderTagResult:    orderResult,
		CustomerTagResult: customerResult,
	}, nil
}

// Search handles a webhook in search-only mode: it returns the raw subscription
// records for the email without touching Shopify.
func (s *FlowService) Search(ctx context.Context, in domain.Input) (*domain.SearchResult, error) {
	region, err := s.admit(in, config.ModeSearchOnly)
	if err != nil {
		return nil, err
	}
	code := string(region.Code)

	if in.Email == nil {
		return nil, &domain.StepError{Step: domain.StepRequireFields, Region: code, Err: domain.ErrMissingEmail}
	}

	stubs, err := s.subscriptions.Search(ctx, *in.Email, region.SealToken)
	if err != nil {
		return nil, &domain.StepError{Step: domain.StepLookupSubscriptions, Region: code, Err: err}
	}

	logger.Named("flow").Info("Subscription search processed",
		zap.String("region", code),
		zap.String("shop", region.ShopDomain),
		zap.Int("subscriptions", len(stubs)),
	)

	return &domain.SearchResult{
		Region:        code,
		OK:            true,
		Mode:          config.ModeSearchOnly,
		ShopDomain:    region.ShopDomain,
		Email:         *in.Email,
		Subscriptions: stubs,
	}, nil
}

// admit runs the checks that need no remote call: shop, shared secret and credentials.
func (s *FlowService) admit(in domain.Input, mode string) (regiondomain.Region, error) {
	region, err := s.regions.Resolve(in.ShopDomain)
	if err != nil {
		return region, &domain.StepError{Step: domain.StepValidateShop, Err: err}
	}
	code := string(region.Code)

	if err := s.regions.Authenticate(region, in.Secret); err != nil {
		return region, &domain.StepError{Step: domain.StepAuthenticate, Region: code, Err: err}
	}
	if err := s.regions.CheckCredentials(region, mode); err != nil {
		return region, &domain.StepError{Step: domain.StepCheckCredentials, Region: code, Err: err}
	}
	return region, nil
}
