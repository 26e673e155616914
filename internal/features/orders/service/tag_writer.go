package service

import (
	"context"
	"fmt"

	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/core/metrics"
	"flow-seal-proxy/internal/features/orders/domain"
	"flow-seal-proxy/internal/features/orders/ports"

	"go.uber.org/zap"
)

// Tag write targets.
const (
	TargetOrder    = "order"
	TargetCustomer = "customer"
)

// TagWriter adds tags to orders and customers.
type TagWriter struct {
	// provider runs the tag mutation.
	provider ports.TagProvider
	// metrics counts write outcomes. May be nil.
	metrics *metrics.Recorder
}

// NewTagWriter creates a new instance of TagWriter.
func NewTagWriter(provider ports.TagProvider, m *metrics.Recorder) *TagWriter {
	return &TagWriter{
		provider: provider,
		metrics:  m,
	}
}

// Apply adds tags to the resource targetID and reports the outcome.
// It never fails. Provider errors and panics are captured in the result.
func (w *TagWriter) Apply(ctx context.Context, target, shop, token, targetID string, tags []string) (result domain.TagWriteResult) {
	log := logger.Named("tags").With(
		zap.String("shop", shop),
		zap.String("target", target),
		zap.String("target_id", targetID),
	)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Tag write panicked", zap.Any("panic", rec))
			result = domain.TagWriteResult{Error: fmt.Sprintf("panic: %v", rec)}
		}
		w.metrics.TagWrite(target, result.Outcome())
	}()

	tags = dedupe(tags)
	if len(tags) == 0 {
		return domain.TagWriteResult{Skipped: true}
	}

	added, err := w.provider.AddTags(ctx, shop, token, targetID, tags)
	if err != nil {
		log.Warn("Tag write failed", zap.Error(err))
		return domain.TagWriteResult{Error: err.Error()}
	}

	result = domain.TagWriteResult{
		NodeID:     added.NodeID,
		Tags:       tags,
		UserErrors: added.UserErrors,
	}
	if len(added.UserErrors) > 0 {
		log.Warn("Tag write rejected", zap.Any("user_errors", added.UserErrors))
	} else {
		log.Info("Tags added", zap.Strings("tags", tags))
	}
	return result
}

// dedupe removes repeated and empty tags, keeping first-seen order.
func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
