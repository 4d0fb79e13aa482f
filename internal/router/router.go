package router

import (
	"net/http"

	"green-basket/internal/auth"
	"green-basket/internal/handler"
	"green-basket/internal/middleware"
	"green-basket/internal/service"

	"github.com/rs/zerolog"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Address  *handler.AddressHandler
	Auth     *handler.AuthHandler
	Payment  *handler.PaymentHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, tokens *auth.TokenIssuer, users service.UserService, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("POST /api/tg/webapp/auth", h.Auth.Authenticate)

	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("POST /api/products", h.Product.Create)
	mux.HandleFunc("PATCH /api/products/{id}", h.Product.Update)
	mux.HandleFunc("DELETE /api/products/{id}", h.Product.Delete)
	mux.HandleFunc("PUT /api/products/{id}/price", h.Product.SetPrice)
	mux.HandleFunc("GET /api/units", h.Product.ListUnits)

	mux.HandleFunc("GET /api/categories", h.Category.List)
	mux.HandleFunc("POST /api/categories", h.Category.Create)
	mux.HandleFunc("PATCH /api/categories/{id}", h.Category.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", h.Category.Delete)

	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("DELETE /api/cart", h.Cart.Clear)
	mux.HandleFunc("POST /api/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{productId}", h.Cart.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", h.Cart.RemoveItem)
	mux.HandleFunc("POST /api/cart/checkout", h.Cart.Checkout)

	mux.HandleFunc("POST /api/orders", h.Order.Create)
	mux.HandleFunc("GET /api/orders", h.Order.List)
	mux.HandleFunc("GET /api/orders/{id}", h.Order.GetByID)

	mux.HandleFunc("GET /api/addresses", h.Address.List)
	mux.HandleFunc("POST /api/addresses", h.Address.Create)
	mux.HandleFunc("PATCH /api/addresses/{id}", h.Address.Update)
	mux.HandleFunc("DELETE /api/addresses/{id}", h.Address.Delete)

	mux.HandleFunc("POST /api/payments", h.Payment.Create)
	mux.HandleFunc("POST /api/payments/yookassa/callback", h.Payment.Callback)

	// Apply middleware in order: Recovery -> Logging -> CORS -> RequestID -> Authenticate
	var root http.Handler = mux
	root = middleware.Authenticate(tokens, users, logger)(root)
	root = middleware.RequestID(root)
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
