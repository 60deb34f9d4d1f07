package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jyoon-dev/skyticket/internal/handlers/middleware"
	"github.com/jyoon-dev/skyticket/internal/logger"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authHandler *AuthHandler,
	ticketHandler *TicketHandler,
	authService AuthService,
	l logger.Logger,
) http.Handler {
	withAuth := middleware.Auth(authService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewRequestMetrics(registry)

	root := http.NewServeMux()
	root.Handle("/api/member/", http.StripPrefix("/api/member", authHandler.Handler()))

	root.Handle("GET /api/ticket", http.HandlerFunc(ticketHandler.ListTickets))
	root.Handle("POST /api/auth/passenger", withAuth(http.HandlerFunc(ticketHandler.CreatePassenger)))
	root.Handle("GET /api/auth/mybooking", withAuth(http.HandlerFunc(ticketHandler.MyBookings)))

	root.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return chain(root,
		middleware.Logger(l),
		metrics.Middleware(),
	)
}
