package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/KrappRamiro/zero2prod/internal/usecase"
)

// Server is the public HTTP surface: subscriber enrollment, confirmation
// and newsletter publishing, plus the operational endpoints.
type Server struct {
	subscribeUC usecase.SubscriptionUseCase
	confirmUC   usecase.ConfirmationUseCase
	publishUC   usecase.PublishUseCase
	log         *zerolog.Logger
}

func NewServer(
	subscribeUC usecase.SubscriptionUseCase,
	confirmUC usecase.ConfirmationUseCase,
	publishUC usecase.PublishUseCase,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		subscribeUC: subscribeUC,
		confirmUC:   confirmUC,
		publishUC:   publishUC,
		log:         logger,
	}
}

// Router builds the chi mux with the full middleware chain.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/health_check", healthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/subscriptions", s.subscribeHandler)
	r.Get("/subscriptions/confirm", s.confirmHandler)
	r.Post("/newsletters", s.publishHandler)

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
