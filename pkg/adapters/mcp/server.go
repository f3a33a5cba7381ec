package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	annoor "github.com/An-Noor-Team/An-Noor-Store"
	"github.com/An-Noor-Team/An-Noor-Store/internal/logging"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/catalog"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource exposing the product catalog.
const CatalogURI = "annoor://catalog"

// CartResponse is the cart view returned by every cart tool.
type CartResponse struct {
	SessionID string      `json:"session_id" jsonschema_description:"Cart session"`
	Items     domain.Cart `json:"items" jsonschema_description:"Line items in insertion order"`
	Subtotal  int64       `json:"subtotal" jsonschema_description:"Sum of price times quantity"`
	Count     int         `json:"count" jsonschema_description:"Total number of units"`
}

// ProductsResponse lists the catalog.
type ProductsResponse struct {
	Products []domain.Product `json:"products" jsonschema_description:"Catalog in display order"`
}

// QuoteResponse prices a cart for a shipping zone.
type QuoteResponse struct {
	SessionID   string      `json:"session_id"`
	Zone        domain.Zone `json:"zone" jsonschema_description:"inside or outside (Dhaka)"`
	Subtotal    int64       `json:"subtotal"`
	DeliveryFee int64       `json:"delivery_fee"`
	Total       int64       `json:"total"`
	Display     string      `json:"display" jsonschema_description:"Human readable summary"`
}

// Shop is the store surface exposed as MCP tools.
type Shop interface {
	Catalog() *catalog.Catalog
	Cart(ctx context.Context, sessionID string) (domain.Cart, error)
	AddProduct(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error)
	SetQty(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error)
	Remove(ctx context.Context, sessionID, productID string) (domain.Cart, error)
	Clear(ctx context.Context, sessionID string) (domain.Cart, error)
	Quote(ctx context.Context, sessionID string, zone domain.Zone) (domain.OrderTotals, error)
}

// Server exposes the shop as an MCP Server.
type Server struct {
	shop      Shop
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance. A nil logger discards output.
func NewServer(shop Shop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		shop:      shop,
		logger:    logger,
		mcpServer: server.NewMCPServer("annoor-mcp", strings.TrimSpace(annoor.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func sessionOption() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Description("Cart session (defaults to "+domain.StorageKey+")"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_products",
		mcp.WithDescription("List the watches for sale with prices in taka."),
		mcp.WithOutputSchema[ProductsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListProducts))

	s.mcpServer.AddTool(mcp.NewTool("view_cart",
		mcp.WithDescription("Show the cart of a session."),
		sessionOption(),
		mcp.WithOutputSchema[CartResponse](),
	), mcp.NewStructuredToolHandler(s.handleViewCart))

	s.mcpServer.AddTool(mcp.NewTool("add_to_cart",
		mcp.WithDescription("Add units of a catalog product. Adding a product already in the cart increases its quantity."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Catalog product id")),
		mcp.WithNumber("qty", mcp.Description("Units to add (at least 1, default 1)")),
		sessionOption(),
		mcp.WithOutputSchema[CartResponse](),
	), mcp.NewStructuredToolHandler(s.handleAddToCart))

	s.mcpServer.AddTool(mcp.NewTool("set_quantity",
		mcp.WithDescription("Set the quantity of a product in the cart. Values below 1 become 1."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product id in the cart")),
		mcp.WithNumber("qty", mcp.Required(), mcp.Description("New quantity")),
		sessionOption(),
		mcp.WithOutputSchema[CartResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetQuantity))

	s.mcpServer.AddTool(mcp.NewTool("remove_from_cart",
		mcp.WithDescription("Remove a product from the cart."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product id in the cart")),
		sessionOption(),
		mcp.WithOutputSchema[CartResponse](),
	), mcp.NewStructuredToolHandler(s.handleRemoveFromCart))

	s.mcpServer.AddTool(mcp.NewTool("clear_cart",
		mcp.WithDescription("Empty the cart."),
		sessionOption(),
		mcp.WithOutputSchema[CartResponse](),
	), mcp.NewStructuredToolHandler(s.handleClearCart))

	s.mcpServer.AddTool(mcp.NewTool("quote",
		mcp.WithDescription("Price the cart including the delivery fee for a zone."),
		mcp.WithString("zone", mcp.Description("inside or outside Dhaka (default inside)")),
		sessionOption(),
		mcp.WithOutputSchema[QuoteResponse](),
	), mcp.NewStructuredToolHandler(s.handleQuote))
}

func sessionArg(args map[string]interface{}) string {
	if id, ok := args["session_id"].(string); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	return domain.StorageKey
}

func productArg(args map[string]interface{}) (string, error) {
	id, _ := args["product_id"].(string)
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("product_id is required")
	}
	return id, nil
}

func cartResponse(sessionID string, cart domain.Cart) CartResponse {
	if cart == nil {
		cart = domain.Cart{}
	}
	return CartResponse{
		SessionID: sessionID,
		Items:     cart,
		Subtotal:  cart.Subtotal(),
		Count:     cart.ItemCount(),
	}
}

func (s *Server) handleListProducts(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ProductsResponse, error) {
	return ProductsResponse{Products: s.shop.Catalog().List()}, nil
}

func (s *Server) handleViewCart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CartResponse, error) {
	id := sessionArg(args)
	cart, err := s.shop.Cart(ctx, id)
	if err != nil {
		return CartResponse{}, fmt.Errorf("view cart failed: %w", err)
	}
	return cartResponse(id, cart), nil
}

func (s *Server) handleAddToCart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CartResponse, error) {
	id := sessionArg(args)
	productID, err := productArg(args)
	if err != nil {
		return CartResponse{}, err
	}
	cart, err := s.shop.AddProduct(ctx, id, productID, domain.ParseQty(args["qty"]))
	if err != nil {
		s.logger.Warn("MCP add_to_cart rejected", "session_id", id, "product_id", productID, "error", err)
		return CartResponse{}, fmt.Errorf("add to cart failed: %w", err)
	}
	return cartResponse(id, cart), nil
}

func (s *Server) handleSetQuantity(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CartResponse, error) {
	id := sessionArg(args)
	productID, err := productArg(args)
	if err != nil {
		return CartResponse{}, err
	}
	cart, err := s.shop.SetQty(ctx, id, productID, domain.ParseQty(args["qty"]))
	if err != nil {
		return CartResponse{}, fmt.Errorf("set quantity failed: %w", err)
	}
	return cartResponse(id, cart), nil
}

func (s *Server) handleRemoveFromCart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CartResponse, error) {
	id := sessionArg(args)
	productID, err := productArg(args)
	if err != nil {
		return CartResponse{}, err
	}
	cart, err := s.shop.Remove(ctx, id, productID)
	if err != nil {
		return CartResponse{}, fmt.Errorf("remove failed: %w", err)
	}
	return cartResponse(id, cart), nil
}

func (s *Server) handleClearCart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CartResponse, error) {
	id := sessionArg(args)
	cart, err := s.shop.Clear(ctx, id)
	if err != nil {
		return CartResponse{}, fmt.Errorf("clear failed: %w", err)
	}
	return cartResponse(id, cart), nil
}

func (s *Server) handleQuote(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (QuoteResponse, error) {
	id := sessionArg(args)
	zone := domain.ZoneInside
	if raw, ok := args["zone"].(string); ok && strings.TrimSpace(raw) != "" {
		parsed, err := domain.ParseZone(raw)
		if err != nil {
			return QuoteResponse{}, err
		}
		zone = parsed
	}
	totals, err := s.shop.Quote(ctx, id, zone)
	if err != nil {
		return QuoteResponse{}, fmt.Errorf("quote failed: %w", err)
	}
	return QuoteResponse{
		SessionID:   id,
		Zone:        zone,
		Subtotal:    totals.Subtotal,
		DeliveryFee: totals.DeliveryFee,
		Total:       totals.Total,
		Display: fmt.Sprintf("%s: %s + %s = %s", zone.Label(),
			domain.FormatAmount(totals.Subtotal),
			domain.FormatAmount(totals.DeliveryFee),
			domain.FormatAmount(totals.Total)),
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Product Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.shop.Catalog().List())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
