package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jyoon-dev/skyticket/internal/db"
	"github.com/jyoon-dev/skyticket/internal/handlers"
	"github.com/jyoon-dev/skyticket/internal/logger"
	"github.com/jyoon-dev/skyticket/internal/repository/postgres"
	"github.com/jyoon-dev/skyticket/internal/service/auth"
	"github.com/jyoon-dev/skyticket/internal/service/ticket"
	"github.com/jyoon-dev/skyticket/internal/token"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger. Err: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	memberRepo := &postgres.MemberRepo{DB: pool}
	refreshRepo := &postgres.RefreshTokenRepo{DB: pool}
	ticketRepo := &postgres.TicketRepo{DB: pool}
	passengerRepo := &postgres.PassengerRepo{DB: pool}

	// Initialize services
	tokenProvider, err := token.New(token.Config{
		Secret:     c.SecretKey,
		AccessTTL:  c.AccessTokenTTL,
		RefreshTTL: c.RefreshTokenTTL,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("error while creating token provider. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{}, tokenProvider, memberRepo, refreshRepo, l)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	ticketService, err := ticket.NewService(ticketRepo, passengerRepo)
	if err != nil {
		return nil, fmt.Errorf("error while creating ticket service. Err: %w", err)
	}

	// Complete all together as router
	router := handlers.NewRouter(
		handlers.NewAuth(authService),
		handlers.NewTicket(ticketService),
		authService,
		l,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
	}, nil
}

// Run starts the http server and closes it gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until the context is cancelled, then close gracefully
	slog.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
