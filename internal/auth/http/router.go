package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/internal/auth/store"
	"github.com/bookeez/accounts/pkg/httpx"
	"github.com/bookeez/accounts/pkg/slogx"

	_ "github.com/bookeez/accounts/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// QueueStats reports the depth of the push notification queue.
type QueueStats interface {
	Pending() int
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
	Queue       QueueStats // optional

	// StoreTimeout bounds the readiness ping; service.DefaultStoreTimeout
	// when zero.
	StoreTimeout time.Duration
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router. ApplyRoutes must have run.
//
//	@title			Bookeez Account Service API
//	@version		0.1.0
//	@description	User registration, login and token refresh for the Bookeez bookstore.
//	@description
//	@description	Access tokens (1h) and refresh tokens (7d) are HS256 JWTs signed with separate secrets.
//
//	@contact.name	Bookeez Team
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		http.Error(w, "routes not applied", http.StatusServiceUnavailable)
		return
	}
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	r.Mux.Handle("POST /register", &RegisterHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /login", &LoginHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /refresh", &RefreshHandler{AuthService: r.AuthService})
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.HandleFunc("GET /user/{id}", h.HandleGet)
	r.Mux.HandleFunc("GET /user", h.HandleList)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Queue, r.StoreTimeout))
}
