package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jyoon-dev/skyticket/internal/apperrors"
	"github.com/jyoon-dev/skyticket/internal/models"
)

type TicketRepo struct {
	DB DBTX
}

const createTicket = `-- name: CreateTicket
INSERT INTO tickets (id, origin, destination, depart_at, price, seats_left)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, origin, destination, depart_at, price, seats_left
`

func (r *TicketRepo) CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createTicket,
		ticket.ID, ticket.Origin, ticket.Destination, ticket.DepartAt, ticket.Price, ticket.SeatsLeft)
	created, err := pgx.CollectOneRow(rows, rowToTicket)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getTicket = `-- name: GetTicket
SELECT id, created_at, origin, destination, depart_at, price, seats_left
FROM tickets
WHERE id = $1
`

func (r *TicketRepo) GetTicket(ctx context.Context, ticketID uuid.UUID) (models.Ticket, error) {
	rows, _ := r.DB.Query(ctx, getTicket, ticketID)
	ticket, err := pgx.CollectOneRow(rows, rowToTicket)

	switch {
	case err == nil:
		return ticket, nil
	case errors.Is(err, pgx.ErrNoRows):
		return ticket, apperrors.ErrTicketNotFound
	default:
		return ticket, fmt.Errorf("db error: %w", err)
	}
}

const listTickets = `-- name: ListTickets
SELECT id, created_at, origin, destination, depart_at, price, seats_left
FROM tickets
ORDER BY depart_at
`

func (r *TicketRepo) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	rows, _ := r.DB.Query(ctx, listTickets)
	tickets, err := pgx.CollectRows(rows, rowToTicket)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tickets, nil
}

const takeSeat = `-- name: TakeSeat
UPDATE tickets
SET seats_left = seats_left - 1
WHERE id = $1 AND seats_left > 0
RETURNING id, created_at, origin, destination, depart_at, price, seats_left
`

// TakeSeat decrements seats atomically. The WHERE guard makes concurrent
// bookings for the last seat fail instead of going negative.
func (r *TicketRepo) TakeSeat(ctx context.Context, ticketID uuid.UUID) (models.Ticket, error) {
	rows, _ := r.DB.Query(ctx, takeSeat, ticketID)
	ticket, err := pgx.CollectOneRow(rows, rowToTicket)

	switch {
	case err == nil:
		return ticket, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Either no such ticket or no seats left; look it up to tell apart
		if _, getErr := r.GetTicket(ctx, ticketID); getErr != nil {
			return ticket, getErr
		}
		return ticket, apperrors.ErrTicketSoldOut
	default:
		return ticket, fmt.Errorf("db error: %w", err)
	}
}

func rowToTicket(row pgx.CollectableRow) (models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(&t.ID, &t.CreatedAt, &t.Origin, &t.Destination, &t.DepartAt, &t.Price, &t.SeatsLeft)
	return t, err
}
