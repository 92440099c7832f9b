package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitos/ust_basket/internal/metrics"
	"github.com/vitos/ust_basket/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router  *http.ServeMux
	server  *http.Server
	service *usecase.BasketService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewServer(port int, service *usecase.BasketService, m *metrics.Metrics, logger *zap.Logger) *Server {
	s := &Server{
		router:  http.NewServeMux(),
		service: service,
		metrics: m,
		logger:  logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Form
	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("POST /{$}", s.handleBasket)

	// JSON
	s.router.HandleFunc("GET /api/basket", s.handleBasketJSON)
	s.router.HandleFunc("GET /api/contracts", s.handleContractsJSON)
	s.router.HandleFunc("GET /api/requests", s.handleRequestsJSON)

	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics.Handler())
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
