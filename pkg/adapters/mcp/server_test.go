package mcp

import (
	"context"
	"encoding/json"
	"testing"

	annoor "github.com/An-Noor-Team/An-Noor-Store"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	shop, err := annoor.New(annoor.WithSubmitter(ports.SubmitterFunc(func(ctx context.Context, o domain.Order) error {
		return nil
	})))
	require.NoError(t, err)
	return NewServer(shop, nil)
}

func TestTools_CartLifecycle(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	cart, err := s.handleAddToCart(ctx, req, map[string]interface{}{"product_id": "aura-black", "qty": float64(2), "session_id": "agent"})
	require.NoError(t, err)
	assert.Equal(t, "agent", cart.SessionID)
	assert.Equal(t, 2, cart.Count)
	assert.Equal(t, int64(1798), cart.Subtotal)

	cart, err = s.handleAddToCart(ctx, req, map[string]interface{}{"product_id": "aura-black", "session_id": "agent"})
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Qty)

	cart, err = s.handleSetQuantity(ctx, req, map[string]interface{}{"product_id": "aura-black", "qty": float64(-1), "session_id": "agent"})
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Qty)

	quote, err := s.handleQuote(ctx, req, map[string]interface{}{"zone": "outside", "session_id": "agent"})
	require.NoError(t, err)
	assert.Equal(t, int64(1029), quote.Total)
	assert.Equal(t, "Outside Dhaka: ৳899 + ৳130 = ৳1029", quote.Display)

	cart, err = s.handleRemoveFromCart(ctx, req, map[string]interface{}{"product_id": "aura-black", "session_id": "agent"})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = s.handleAddToCart(ctx, req, map[string]interface{}{"product_id": "watch-arabic-white", "session_id": "agent"})
	require.NoError(t, err)
	cart, err = s.handleClearCart(ctx, req, map[string]interface{}{"session_id": "agent"})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.NotNil(t, cart.Items)
}

func TestTools_DefaultSession(t *testing.T) {
	s := newTestServer(t)
	cart, err := s.handleViewCart(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, domain.StorageKey, cart.SessionID)
}

func TestTools_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleAddToCart(ctx, mcp.CallToolRequest{}, map[string]interface{}{"product_id": "nope"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = s.handleAddToCart(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)

	_, err = s.handleQuote(ctx, mcp.CallToolRequest{}, map[string]interface{}{"zone": "mars"})
	assert.ErrorIs(t, err, domain.ErrUnknownZone)
}

func TestTools_ListProducts(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.handleListProducts(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Products, 4)
}

func TestServer_ListsTools(t *testing.T) {
	s := newTestServer(t)
	msg := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	for _, name := range []string{"list_products", "view_cart", "add_to_cart", "set_quantity", "remove_from_cart", "clear_cart", "quote"} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}
