// Package devserver is an in-memory backend serving the storefront HTTP API.
// It backs local runs of the CLI and the end-to-end tests.
package devserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Server struct {
	engine    *gin.Engine
	store     *Store
	tokens    *Tokens
	validator *validator.Validate
}

// New builds a server over the seeded catalog.
func New(cfg config.DevServer, logger *slog.Logger) *Server {
	return NewServer(NewStore(SeedProducts(), SeedCategories()), NewTokens([]byte(cfg.JWTKey), cfg.AccessTTL, cfg.RefreshTTL), logger)
}

func NewServer(store *Store, tokens *Tokens, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://web.telegram.org", "http://localhost:5173"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{engine: r, store: store, tokens: tokens, validator: validator.New()}
	s.registerRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) Tokens() *Tokens { return s.tokens }

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.healthz)
	s.engine.POST("/auth/refresh", s.refresh)

	catalog := s.engine.Group("/catalog")
	{
		catalog.GET("/categories", s.listCategories)
		catalog.GET("/products", s.listProducts)
		catalog.GET("/products/:id", s.getProduct)
	}

	private := s.engine.Group("", authenticate(s.tokens))
	{
		private.GET("/cart", s.getCart)
		private.DELETE("/cart", s.clearCart)
		private.POST("/cart/items", s.addItem)
		private.PUT("/cart/items", s.replaceItems)
		private.PATCH("/cart/items/:productId/:variantId", s.updateItem)
		private.DELETE("/cart/items/:productId/:variantId", s.removeItem)

		private.POST("/orders", s.createOrder)
	}
}
