package service

import (
	"context"
	"fmt"

	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/core/metrics"
	"flow-seal-proxy/internal/core/upstream"
	"flow-seal-proxy/internal/features/subscriptions/domain"
	"flow-seal-proxy/internal/features/subscriptions/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LookupService finds a customer's subscriptions and their details.
type LookupService struct {
	// provider is the subscription API.
	provider ports.SubscriptionProvider
	// metrics counts subscriptions found. May be nil.
	metrics *metrics.Recorder
}

// NewLookupService creates a new instance of LookupService.
func NewLookupService(provider ports.SubscriptionProvider, m *metrics.Recorder) *LookupService {
	return &LookupService{
		provider: provider,
		metrics:  m,
	}
}

// Search returns the raw subscription stubs for an email.
func (s *LookupService) Search(ctx context.Context, email, token string) ([]domain.Stub, error) {
	stubs, err := s.provider.Search(ctx, email, token)
	if err != nil {
		return nil, fmt.Errorf("failed to search subscriptions: %w", err)
	}
	return stubs, nil
}

// Summaries searches by email and fetches every subscription detail concurrently.
// The result follows search order. Any failed detail fetch fails the whole lookup.
func (s *LookupService) Summaries(ctx context.Context, email, token string) ([]domain.Summary, error) {
	stubs, err := s.Search(ctx, email, token)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.Summary, len(stubs))
	g, gctx := errgroup.WithContext(ctx)

	for i, stub := range stubs {
		i, stub := i, stub
		g.Go(func() error {
			detail, err := s.provider.Detail(gctx, stub.ID, token)
			if err != nil {
				return fmt.Errorf("failed to fetch subscription %s: %w", stub.ID, err)
			}
			if detail == nil {
				return upstream.New("seal", "detail", 0, []byte("empty subscription "+string(stub.ID)))
			}
			summaries[i] = *detail
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.metrics.SubscriptionsFound(len(summaries))
	logger.Named("subscriptions").Debug("Subscriptions resolved",
		zap.Int("count", len(summaries)),
	)

	return summaries, nil
}
