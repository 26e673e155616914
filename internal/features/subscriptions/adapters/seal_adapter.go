package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/core/upstream"
	"flow-seal-proxy/internal/features/subscriptions/domain"

	"go.uber.org/zap"
)

const (
	sealService  = "seal"
	sealTokenHdr = "X-Seal-Token"
	maxSealBody  = 5 << 20
)

// SealAdapter implements the SubscriptionProvider interface using the Seal merchant API.
type SealAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the merchant API root, without trailing slash.
	baseURL string
}

// NewSealAdapter creates a new instance of SealAdapter.
func NewSealAdapter(client *http.Client, baseURL string) *SealAdapter {
	return &SealAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Search lists the subscriptions of a customer email, inactive ones included.
// Only the first page is read.
func (a *SealAdapter) Search(ctx context.Context, email, token string) ([]domain.Stub, error) {
	q := url.Values{}
	q.Set("query", email)
	q.Set("active-only", "false")
	q.Set("page", "1")

	body, err := a.get(ctx, "search", "/subscriptions?"+q.Encode(), token)
	if err != nil {
		return nil, err
	}

	items, err := searchItems(body)
	if err != nil {
		return nil, upstream.New(sealService, "search", 0, body)
	}

	stubs := make([]domain.Stub, 0, len(items))
	for _, raw := range items {
		var head struct {
			ID domain.ID `json:"id"`
		}
		if err := json.Unmarshal(raw, &head); err != nil || head.ID == "" {
			logger.Named(sealService).Warn("Skipping subscription without id", zap.ByteString("record", raw))
			continue
		}
		stubs = append(stubs, domain.Stub{ID: head.ID, Raw: raw})
	}

	return stubs, nil
}

// Detail fetches one subscription by id.
func (a *SealAdapter) Detail(ctx context.Context, id domain.ID, token string) (*domain.Summary, error) {
	q := url.Values{}
	q.Set("id", string(id))

	body, err := a.get(ctx, "detail", "/subscription?"+q.Encode(), token)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Payload json.RawMessage `json:"payload"`
	}
	record := json.RawMessage(body)
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Payload) > 0 && !isNull(envelope.Payload) {
		record = envelope.Payload
	}

	var detail sealSubscription
	if err := json.Unmarshal(record, &detail); err != nil {
		return nil, upstream.New(sealService, "detail", 0, body)
	}

	summary := &domain.Summary{
		ID:               detail.ID,
		BillingMinCycles: detail.BillingMinCycles.Value,
	}
	if summary.ID == "" {
		summary.ID = id
	}
	return summary, nil
}

// get performs an authenticated GET and returns the body of a 2xx response.
func (a *SealAdapter) get(ctx context.Context, op, path, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create seal %s request: %w", op, err)
	}
	req.Header.Set(sealTokenHdr, token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("seal %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSealBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read seal %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.New(sealService, op, resp.StatusCode, body)
	}

	return body, nil
}

// searchItems normalises the search response shapes Seal is known to return:
// a bare array, {payload: [...]} and {payload: {subscriptions: [...]}}.
func searchItems(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		err := json.Unmarshal(trimmed, &items)
		return items, err
	}

	var envelope struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}

	payload := bytes.TrimSpace(envelope.Payload)
	if len(payload) == 0 || isNull(payload) {
		return nil, nil
	}
	if payload[0] == '[' {
		var items []json.RawMessage
		err := json.Unmarshal(payload, &items)
		return items, err
	}

	var nested struct {
		Subscriptions []json.RawMessage `json:"subscriptions"`
	}
	if err := json.Unmarshal(payload, &nested); err != nil {
		return nil, err
	}
	return nested.Subscriptions, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// internal structs for mapping

// sealSubscription is the subset of the Seal subscription record used for tagging.
type sealSubscription struct {
	// ID is the subscription id.
	ID domain.ID `json:"id"`
	// BillingMinCycles is the minimum number of paid cycles before cancellation.
	BillingMinCycles optionalInt `json:"billing_min_cycles"`
}

// optionalInt decodes a number, a numeric string or null.
type optionalInt struct {
	Value *int
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *optionalInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		o.Value = nil
		return nil
	}

	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			o.Value = nil
			return nil
		}
	} else {
		s = string(data)
	}

	if n, err := strconv.Atoi(s); err == nil {
		o.Value = &n
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return fmt.Errorf("billing_min_cycles is not an integer: %s", data)
	}
	n := int(f)
	o.Value = &n
	return nil
}
