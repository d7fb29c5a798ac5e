// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/logging"
)

// DefaultAddr is where the dev backend listens when no address is given. It
// matches the API client's default base URL.
const DefaultAddr = "127.0.0.1:8000"

// trustedProxies may set X-Forwarded-For.
var trustedProxies = []string{"127.0.0.1", "::1"}

// ============================================================================
// SERVER
// ============================================================================

// Server is the in-memory dev backend. It serves the same routes the
// dashboard's API client calls.
type Server struct {
	addr       string
	store      *Store
	dispatcher dispatch.Dispatcher
	limiter    *RateLimiter
	logger     *slog.Logger

	engine *gin.Engine
	server *http.Server

	mu sync.Mutex
}

// NewServer creates a server over store. An empty addr means DefaultAddr.
func NewServer(addr string, store *Store) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		addr:    addr,
		store:   store,
		limiter: NewRateLimiter(0, 0),
		logger:  logging.Discard(),
	}
}

// WithLogger sets the request and error logger.
func (s *Server) WithLogger(logger *slog.Logger) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logging.Component(logger, "server")
	return s
}

// WithRateLimit limits each client IP to perSecond requests. Zero disables
// the limit.
func (s *Server) WithRateLimit(perSecond float64, burst int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = NewRateLimiter(perSecond, burst)
	return s
}

// WithDispatcher replaces the dispatcher behind POST /api/chat. By default
// it classifies messages and answers from the store.
func (s *Server) WithDispatcher(d dispatch.Dispatcher) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher = d
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Store returns the data behind the server.
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the HTTP handler with routes and middleware. It is built
// on first use; later With* calls do not change it.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		s.engine = s.buildEngine()
	}
	return s.engine
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) buildEngine() *gin.Engine {
	useJSONFieldNames()

	if s.dispatcher == nil {
		s.dispatcher = dispatch.NewIntentDispatcher(nil, dispatch.NewAPICatalog(s.store, s.logger), s.logger)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		s.logger.Warn("trusted proxies", "error", err)
	}
	r.Use(
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger),
		RateLimitMiddleware(s.limiter, s.logger),
	)
	r.NoRoute(func(c *gin.Context) {
		abortDetail(c, http.StatusNotFound, "Not Found")
	})

	r.GET("/health", s.handleHealth)

	apiGroup := r.Group("/api")
	{
		pedidos := apiGroup.Group("/pedidos")
		pedidos.GET("", s.handleListOrders)
		pedidos.POST("", s.handleCreateOrder)
		pedidos.GET("/:id", s.handleGetOrder)
		pedidos.PATCH("/:id/status", s.handleUpdateOrderStatus)

		receitas := apiGroup.Group("/receitas")
		receitas.GET("", s.handleListRecipes)
		receitas.GET("/:id", s.handleGetRecipe)

		apiGroup.GET("/stats", s.handleStats)
		apiGroup.GET("/agenda", s.handleAgenda)
		apiGroup.POST("/chat", s.handleChat)
	}
	return r
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report JSON field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on the configured address and blocks until the server
// stops. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	handler := s.Handler()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.logger.Info("server starting", "addr", s.addr)
	return srv.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
