package integration

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/jyoon-dev/skyticket/internal/handlers"
	"github.com/jyoon-dev/skyticket/internal/logger"
	"github.com/jyoon-dev/skyticket/internal/repository/postgres"
	"github.com/jyoon-dev/skyticket/internal/service/auth"
	"github.com/jyoon-dev/skyticket/internal/service/ticket"
	"github.com/jyoon-dev/skyticket/internal/testutil"
	"github.com/jyoon-dev/skyticket/internal/token"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("test-secret-key-please-rotate-it"))

type Services struct {
	AuthService   *auth.AuthService
	TicketService *ticket.TicketService
	TicketRepo    *postgres.TicketRepo
}

// Create a db transaction and run the full server on that connection (one
// connection, so one transaction). The transaction is passed to the inner
// function too: testutil.WithTx already rolls it back when the test stops.
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		memberRepo := &postgres.MemberRepo{DB: tx}
		refreshRepo := &postgres.RefreshTokenRepo{DB: tx}
		ticketRepo := &postgres.TicketRepo{DB: tx}
		passengerRepo := &postgres.PassengerRepo{DB: tx}

		provider, err := token.New(token.Config{
			Secret:     testSecret,
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
		}, nil)
		require.NoError(t, err, "token provider should be created without errors")

		as, err := auth.NewService(auth.Config{}, provider, memberRepo, refreshRepo, nil)
		require.NoError(t, err, "auth service should be created without errors")

		ts, err := ticket.NewService(ticketRepo, passengerRepo)
		require.NoError(t, err, "ticket service should be created without errors")

		router := handlers.NewRouter(
			handlers.NewAuth(as),
			handlers.NewTicket(ts),
			as,
			logger.NewNoOp(),
		)

		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:   as,
			TicketService: ts,
			TicketRepo:    ticketRepo,
		})
	})
}

// RunTx is ServeWithTx for tests that don't need the raw transaction
func RunTx(dbpool *pgxpool.Pool, t *testing.T, fn func(srvURL string, services Services)) {
	ServeWithTx(dbpool, t, func(_ pgx.Tx, srvURL string, services Services) {
		fn(srvURL, services)
	})
}
