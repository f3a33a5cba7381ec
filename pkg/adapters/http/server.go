package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	annoor "github.com/An-Noor-Team/An-Noor-Store"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/catalog"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/checkout"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionHeader carries the cart session id on every cart request.
const SessionHeader = "X-Session-ID"

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,127}$`)

// errInvalidSession is returned for session ids that cannot name a cart.
var errInvalidSession = errors.New("invalid session id")

// Shop is the store surface served over HTTP.
type Shop interface {
	Catalog() *catalog.Catalog
	Tariffs() domain.Tariffs
	Cart(ctx context.Context, sessionID string) (domain.Cart, error)
	Dispatch(ctx context.Context, sessionID string, action domain.Action) (domain.Cart, error)
	AddProduct(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error)
	SetQty(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error)
	Remove(ctx context.Context, sessionID, productID string) (domain.Cart, error)
	Clear(ctx context.Context, sessionID string) (domain.Cart, error)
	Quote(ctx context.Context, sessionID string, zone domain.Zone) (domain.OrderTotals, error)
	Checkout(ctx context.Context, sessionID string, form checkout.Form) (checkout.Receipt, error)
}

// Server serves the store API.
type Server struct {
	Shop     Shop
	Streams  *StreamManager
	metrics  http.Handler
	merchant domain.MerchantNumbers
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a StreamManager whose Hooks are registered on the shop.
// Without it /events connects but never receives diffs.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics mounts a handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMerchant sets the wallet numbers reported on /info.
func WithMerchant(n domain.MerchantNumbers) Option {
	return func(s *Server) {
		s.merchant = n
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the shop.
func NewHandler(shop Shop, opts ...Option) http.Handler {
	s := &Server{
		Shop:     shop,
		merchant: domain.DefaultMerchantNumbers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/products", s.ListProducts)
	r.Get("/products/{id}", s.GetProduct)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.GetCart)
		r.Delete("/", s.ClearCart)
		r.Post("/items", s.AddItem)
		r.Put("/items/{id}", s.SetQuantity)
		r.Delete("/items/{id}", s.RemoveItem)
		r.Post("/actions", s.DispatchAction)
	})
	r.Get("/checkout/quote", s.Quote)
	r.Post("/checkout", s.SubmitOrder)
	r.Get("/events", s.SubscribeEvents)

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// sessionID reads the session from the header, then the query string,
// falling back to the default storage key.
func sessionID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("session_id"))
	}
	if id == "" {
		return domain.StorageKey, nil
	}
	if !sessionIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", errInvalidSession, id)
	}
	return id, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string                `json:"error"`
	Fields []checkout.FieldError `json:"fields"`
}

type cartView struct {
	SessionID string      `json:"session_id"`
	Items     domain.Cart `json:"items"`
	Subtotal  int64       `json:"subtotal"`
	Count     int         `json:"count"`
}

func newCartView(sessionID string, cart domain.Cart) cartView {
	if cart == nil {
		cart = domain.Cart{}
	}
	return cartView{
		SessionID: sessionID,
		Items:     cart,
		Subtotal:  cart.Subtotal(),
		Count:     cart.ItemCount(),
	}
}

type infoResponse struct {
	App        string                 `json:"app"`
	Version    string                 `json:"version"`
	APIVersion string                 `json:"api_version"`
	Currency   string                 `json:"currency"`
	Tariffs    domain.Tariffs         `json:"tariffs"`
	Merchant   domain.MerchantNumbers `json:"merchant"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       any    `json:"qty"`
}

type setQtyRequest struct {
	Qty any `json:"qty"`
}

type actionRequest struct {
	Type     domain.ActionType `json:"type"`
	Item     json.RawMessage   `json:"item"`
	ID       string            `json:"id"`
	Qty      any               `json:"qty"`
	Snapshot json.RawMessage   `json:"snapshot"`
}

// toAction coerces a loosely typed request into a reducer action.
// Items and snapshots go through the lenient snapshot decoder.
func (a actionRequest) toAction() domain.Action {
	action := domain.Action{Type: a.Type, ID: a.ID, Qty: domain.ParseQty(a.Qty)}
	if present(a.Item) {
		data := append(append([]byte("["), a.Item...), ']')
		if items, err := domain.DecodeSnapshot(data); err == nil && len(items) == 1 {
			action.Item = &items[0]
		}
	}
	if a.Type == domain.ActionInit {
		if snapshot, err := domain.DecodeSnapshot(a.Snapshot); err == nil {
			action.Snapshot = snapshot
		}
	}
	return action
}

func present(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

// session resolves the request session or writes a 400.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// cartResult writes the cart returned by a cart operation.
func (s *Server) cartResult(w http.ResponseWriter, r *http.Request, id string, cart domain.Cart, err error) {
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, newCartView(id, cart))
	case errors.Is(err, domain.ErrProductNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		s.logger.Error("cart operation failed", "path", r.URL.Path, "session_id", id, "error", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, infoResponse{
		App:        "annoor-http",
		Version:    strings.TrimSpace(annoor.Version),
		APIVersion: apiVersion,
		Currency:   domain.Currency,
		Tariffs:    s.Shop.Tariffs(),
		Merchant:   s.merchant,
	})
}

// ListProducts handles the GET /products request.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Shop.Catalog().List())
}

// GetProduct handles the GET /products/{id} request.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.Shop.Catalog().Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// GetCart handles the GET /cart request.
func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	cart, err := s.Shop.Cart(r.Context(), id)
	s.cartResult(w, r, id, cart, err)
}

// ClearCart handles the DELETE /cart request.
func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	cart, err := s.Shop.Clear(r.Context(), id)
	s.cartResult(w, r, id, cart, err)
}

// AddItem handles the POST /cart/items request.
func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	var body addItemRequest
	if !s.decode(w, r, &body) {
		return
	}
	cart, err := s.Shop.AddProduct(r.Context(), id, body.ProductID, domain.ParseQty(body.Qty))
	s.cartResult(w, r, id, cart, err)
}

// SetQuantity handles the PUT /cart/items/{id} request.
func (s *Server) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	var body setQtyRequest
	if !s.decode(w, r, &body) {
		return
	}
	cart, err := s.Shop.SetQty(r.Context(), id, chi.URLParam(r, "id"), domain.ParseQty(body.Qty))
	s.cartResult(w, r, id, cart, err)
}

// RemoveItem handles the DELETE /cart/items/{id} request.
func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	cart, err := s.Shop.Remove(r.Context(), id, chi.URLParam(r, "id"))
	s.cartResult(w, r, id, cart, err)
}

// DispatchAction handles the POST /cart/actions request.
func (s *Server) DispatchAction(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	var body actionRequest
	if !s.decode(w, r, &body) {
		return
	}
	cart, err := s.Shop.Dispatch(r.Context(), id, body.toAction())
	s.cartResult(w, r, id, cart, err)
}

// Quote handles the GET /checkout/quote request.
func (s *Server) Quote(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	zone := domain.ZoneInside
	if raw := r.URL.Query().Get("zone"); raw != "" {
		parsed, err := domain.ParseZone(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zone = parsed
	}
	totals, err := s.Shop.Quote(r.Context(), id, zone)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, totals)
}

// SubmitOrder handles the POST /checkout request. The cart is left intact
// whatever the outcome.
func (s *Server) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	var form checkout.Form
	if !s.decode(w, r, &form) {
		return
	}

	receipt, err := s.Shop.Checkout(r.Context(), id, form)
	var verr *checkout.ValidationError
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, receipt)
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: checkout.ErrInvalidForm.Error(), Fields: verr.Fields})
	case errors.Is(err, domain.ErrEmptyCart):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSubmissionFailed):
		s.writeError(w, http.StatusBadGateway, receipt.Message)
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		s.logger.Error("checkout failed", "session_id", id, "error", err)
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("streaming not supported")
		return
	}
	id, ok := s.session(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE subscribed", "session_id", id)
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
