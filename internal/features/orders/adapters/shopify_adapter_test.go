package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flow-seal-proxy/internal/core/upstream"
	"flow-seal-proxy/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShop = "shop-uk.myshopify.com"

// graphQLCall is the decoded body of a request received by the fake Admin API.
type graphQLCall struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newShopifyServer starts a fake Admin API that checks the endpoint and token,
// then delegates to respond.
func newShopifyServer(t *testing.T, respond func(call graphQLCall) (int, string)) (*httptest.Server, *[]graphQLCall) {
	t.Helper()
	calls := &[]graphQLCall{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/api/2024-10/graphql.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var call graphQLCall
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		*calls = append(*calls, call)

		status, body := respond(call)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, calls
}

func newTestAdapter(server *httptest.Server) *ShopifyAdapter {
	return NewShopifyAdapter(server.Client(), "2024-10", server.URL+"/")
}

func TestShopifyAdapter_Endpoint(t *testing.T) {
	a := NewShopifyAdapter(http.DefaultClient, "2024-10", "")
	assert.Equal(t, "https://shop-uk.myshopify.com/admin/api/2024-10/graphql.json", a.endpoint(testShop))

	a = NewShopifyAdapter(http.DefaultClient, "2025-01", "http://localhost:9999/")
	assert.Equal(t, "http://localhost:9999/admin/api/2025-01/graphql.json", a.endpoint(testShop))
}

func TestShopifyAdapter_FindOrderByName(t *testing.T) {
	server, calls := newShopifyServer(t, func(call graphQLCall) (int, string) {
		return http.StatusOK, `{"data":{"orders":{"nodes":[
			{"id":"gid://shopify/Order/2","name":"#10010","email":"other@b.com","customer":null},
			{"id":"gid://shopify/Order/1","name":"#1001","email":null,"customer":{"id":"gid://shopify/Customer/9","email":"a@b.com"}}
		]}}}`
	})
	a := newTestAdapter(server)

	order, err := a.FindOrderByName(context.Background(), testShop, "shpat_test", "1001")

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, domain.Order{
		ID:            "gid://shopify/Order/1",
		Name:          "#1001",
		CustomerID:    "gid://shopify/Customer/9",
		CustomerEmail: "a@b.com",
	}, *order)

	require.Len(t, *calls, 1)
	assert.Contains(t, (*calls)[0].Query, "orders(first: 5, query: $query)")
	assert.Equal(t, "name:#1001", (*calls)[0].Variables["query"])
}

func TestShopifyAdapter_FindOrderByName_NoExactMatch(t *testing.T) {
	server, _ := newShopifyServer(t, func(call graphQLCall) (int, string) {
		return http.StatusOK, `{"data":{"orders":{"nodes":[{"id":"gid://shopify/Order/2","name":"#10010"}]}}}`
	})
	a := newTestAdapter(server)

	order, err := a.FindOrderByName(context.Background(), testShop, "shpat_test", "#1001")

	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestShopifyAdapter_GetOrderByID(t *testing.T) {
	server, calls := newShopifyServer(t, func(call graphQLCall) (int, string) {
		return http.StatusOK, `{"data":{"order":{"id":"gid://shopify/Order/1","name":"#1001","email":"a@b.com","customer":{"id":"gid://shopify/Customer/9","email":"c@b.com"}}}}`
	})
	a := newTestAdapter(server)

	order, err := a.GetOrderByID(context.Background(), testShop, "shpat_test", "gid://shopify/Order/1")

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "a@b.com", order.ContactEmail())
	assert.Equal(t, "gid://shopify/Customer/9", order.CustomerID)
	assert.Equal(t, "gid://shopify/Order/1", (*calls)[0].Variables["id"])
}

func TestShopifyAdapter_GetOrderByID_NotFound(t *testing.T) {
	server, _ := newShopifyServer(t, func(call graphQLCall) (int, string) {
		return http.StatusOK, `{"data":{"order":null}}`
	})
	a := newTestAdapter(server)

	order, err := a.GetOrderByID(context.Background(), testShop, "shpat_test", "gid://shopify/Order/404")

	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestShopifyAdapter_AddTags(t *testing.T) {
	server, calls := newShopifyServer(t, func(call graphQLCall) (int, string) {
		return http.StatusOK, `{"data":{"tagsAdd":{"node":{"id":"gid://shopify/Order/1"},"userErrors":[]}}}`
	})
	a := newTestAdapter(server)

	res, err := a.AddTags(context.Background(), testShop, "shpat_test", "gid://shopify/Order/1", []string{"seal_sub_id_77", "seal_min_cycles_3"})

	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Order/1", res.NodeID)
	assert.Empty(t, res.UserErrors)

	require.Len(t, *calls, 1)
	assert.True(t, strings.HasPrefix((*calls)[0].Query, "mutation TagsAdd"))
	assert.Equal(t, []any{"seal_sub_id_77", "seal_min_cycles_3"}, (*calls)[0].Variables["tags"])
}

func TestShopifyAdapter_AddTags_UserErrors(t *testing.T) {
	server, _ := newShopifyServer(t, func(call graphQLCall) (int, string) {
		return http.StatusOK, `{"data":{"tagsAdd":{"node":null,"userErrors":[{"field":["id"],"message":"Resource not found"}]}}}`
	})
	a := newTestAdapter(server)

	res, err := a.AddTags(context.Background(), testShop, "shpat_test", "gid://shopify/Order/404", []string{"seal_sub_id_77"})

	require.NoError(t, err)
	assert.Empty(t, res.NodeID)
	assert.Equal(t, []domain.UserError{{Field: []string{"id"}, Message: "Resource not found"}}, res.UserErrors)
}

func TestShopifyAdapter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Non2xx",
			status:     http.StatusUnauthorized,
			body:       `{"errors":"[API] Invalid API key or access token"}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid API key",
		},
		{
			name:       "TopLevelErrors",
			status:     http.StatusOK,
			body:       `{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}]}`,
			wantStatus: http.StatusOK,
			wantBody:   "THROTTLED: Throttled",
		},
		{
			name:       "Malformed",
			status:     http.StatusOK,
			body:       `<html>`,
			wantStatus: 0,
			wantBody:   "<html>",
		},
		{
			name:       "NullData",
			status:     http.StatusOK,
			body:       `{"data":null}`,
			wantStatus: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newShopifyServer(t, func(call graphQLCall) (int, string) {
				return tt.status, tt.body
			})
			a := newTestAdapter(server)

			order, err := a.GetOrderByID(context.Background(), testShop, "shpat_test", "gid://shopify/Order/1")

			assert.Nil(t, order)
			ue, ok := upstream.As(err)
			require.True(t, ok, "expected upstream error, got %v", err)
			assert.Equal(t, "shopify", ue.Service)
			assert.Equal(t, "orderById", ue.Operation)
			assert.Equal(t, tt.wantStatus, ue.Status)
			assert.Contains(t, ue.Body, tt.wantBody)
		})
	}
}

func TestShopifyAdapter_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := server.Client()
	client.Timeout = 20 * time.Millisecond
	a := NewShopifyAdapter(client, "2024-10", server.URL)

	_, err := a.GetOrderByID(context.Background(), testShop, "shpat_test", "gid://shopify/Order/1")

	require.Error(t, err)
	_, isUpstream := upstream.As(err)
	assert.False(t, isUpstream)
	assert.Contains(t, err.Error(), "shopify orderById request failed")
}
