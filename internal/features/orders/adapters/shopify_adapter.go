package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"flow-seal-proxy/internal/core/upstream"
	"flow-seal-proxy/internal/features/orders/domain"
)

const (
	shopifyService  = "shopify"
	shopifyTokenHdr = "X-Shopify-Access-Token"
	maxShopifyBody  = 5 << 20
)

const orderByNameQuery = `query OrderByName($query: String!) {
  orders(first: 5, query: $query) {
    nodes { id name email customer { id email } }
  }
}`

const orderByIDQuery = `query OrderByID($id: ID!) {
  order(id: $id) { id name email customer { id email } }
}`

const tagsAddMutation = `mutation TagsAdd($id: ID!, $tags: [String!]!) {
  tagsAdd(id: $id, tags: $tags) {
    node { id }
    userErrors { field message }
  }
}`

// ShopifyAdapter implements OrderProvider and TagProvider using the Shopify Admin GraphQL API.
type ShopifyAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// apiVersion is the versioned path segment, e.g. 2024-10.
	apiVersion string
	// baseURL replaces https://<shop> when set.
	baseURL string
}

// NewShopifyAdapter creates a new instance of ShopifyAdapter.
func NewShopifyAdapter(client *http.Client, apiVersion, baseURL string) *ShopifyAdapter {
	return &ShopifyAdapter{
		client:     client,
		apiVersion: apiVersion,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FindOrderByName searches orders by name and returns the exact match.
func (a *ShopifyAdapter) FindOrderByName(ctx context.Context, shop, token, name string) (*domain.Order, error) {
	name = domain.NormalizeOrderName(name)
	vars := map[string]any{"query": "name:" + name}

	var data struct {
		Orders struct {
			Nodes []shopifyOrder `json:"nodes"`
		} `json:"orders"`
	}
	if err := a.do(ctx, shop, token, "orderByName", orderByNameQuery, vars, &data); err != nil {
		return nil, err
	}

	for _, node := range data.Orders.Nodes {
		if node.Name == name {
			order := node.toDomain()
			return &order, nil
		}
	}
	return nil, nil
}

// GetOrderByID fetches one order by its global id.
func (a *ShopifyAdapter) GetOrderByID(ctx context.Context, shop, token, id string) (*domain.Order, error) {
	var data struct {
		Order *shopifyOrder `json:"order"`
	}
	if err := a.do(ctx, shop, token, "orderById", orderByIDQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Order == nil {
		return nil, nil
	}
	order := data.Order.toDomain()
	return &order, nil
}

// AddTags runs the tagsAdd mutation. User errors are returned in the payload, not as an error.
func (a *ShopifyAdapter) AddTags(ctx context.Context, shop, token, id string, tags []string) (*domain.TagsAdded, error) {
	var data struct {
		TagsAdd *struct {
			Node *struct {
				ID string `json:"id"`
			} `json:"node"`
			UserErrors []domain.UserError `json:"userErrors"`
		} `json:"tagsAdd"`
	}
	vars := map[string]any{"id": id, "tags": tags}
	if err := a.do(ctx, shop, token, "tagsAdd", tagsAddMutation, vars, &data); err != nil {
		return nil, err
	}
	if data.TagsAdd == nil {
		return nil, upstream.New(shopifyService, "tagsAdd", 0, []byte("missing tagsAdd payload"))
	}

	out := &domain.TagsAdded{UserErrors: data.TagsAdd.UserErrors}
	if data.TagsAdd.Node != nil {
		out.NodeID = data.TagsAdd.Node.ID
	}
	return out, nil
}

func (a *ShopifyAdapter) endpoint(shop string) string {
	root := "https://" + shop
	if a.baseURL != "" {
		root = a.baseURL
	}
	return fmt.Sprintf("%s/admin/api/%s/graphql.json", root, a.apiVersion)
}

// do posts a GraphQL document and decodes its data into out.
// Non-2xx responses, undecodable bodies and top-level GraphQL errors become *upstream.Error.
func (a *ShopifyAdapter) do(ctx context.Context, shop, token, op, query string, vars any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode shopify %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint(shop), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create shopify %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(shopifyTokenHdr, token)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("shopify %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxShopifyBody))
	if err != nil {
		return fmt.Errorf("failed to read shopify %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstream.New(shopifyService, op, resp.StatusCode, body)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return upstream.New(shopifyService, op, 0, body)
	}
	if len(envelope.Errors) > 0 {
		return upstream.New(shopifyService, op, resp.StatusCode, []byte(envelope.errorMessages()))
	}
	if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return upstream.New(shopifyService, op, 0, body)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return upstream.New(shopifyService, op, 0, body)
	}
	return nil
}

// internal structs for mapping

// graphQLRequest is the body of a GraphQL POST.
type graphQLRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables,omitempty"`
}

// graphQLError is one entry of the top-level errors array.
type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions"`
}

// graphQLResponse keeps data raw so each operation can decode its own shape.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (r graphQLResponse) errorMessages() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Extensions.Code != "" {
			msgs = append(msgs, e.Extensions.Code+": "+e.Message)
			continue
		}
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// shopifyOrder represents the order fields selected by the lookup queries.
type shopifyOrder struct {
	// ID is the order global id.
	ID string `json:"id"`
	// Name is the order name, e.g. #1001.
	Name string `json:"name"`
	// Email is the order contact email.
	Email string `json:"email"`
	// Customer is null for guest checkouts.
	Customer *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"customer"`
}

func (o shopifyOrder) toDomain() domain.Order {
	order := domain.Order{
		ID:    o.ID,
		Name:  o.Name,
		Email: o.Email,
	}
	if o.Customer != nil {
		order.CustomerID = o.Customer.ID
		order.CustomerEmail = o.Customer.Email
	}
	return order
}
