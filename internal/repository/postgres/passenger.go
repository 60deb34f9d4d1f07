package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jyoon-dev/skyticket/internal/models"
)

type PassengerRepo struct {
	DB DBTX
}

const createPassenger = `-- name: CreatePassenger
INSERT INTO passengers (id, member_id, ticket_id, booking_num, name, birth_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, member_id, ticket_id, booking_num, name, birth_date
`

func (r *PassengerRepo) CreatePassenger(ctx context.Context, passenger models.Passenger) (models.Passenger, error) {
	if passenger.ID == uuid.Nil {
		passenger.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createPassenger,
		passenger.ID, passenger.MemberID, passenger.TicketID, passenger.BookingNum, passenger.Name, passenger.BirthDate)
	created, err := pgx.CollectOneRow(rows, rowToPassenger)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listPassengersByMember = `-- name: ListByMember
SELECT id, created_at, member_id, ticket_id, booking_num, name, birth_date
FROM passengers
WHERE member_id = $1
ORDER BY created_at
`

func (r *PassengerRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Passenger, error) {
	rows, _ := r.DB.Query(ctx, listPassengersByMember, memberID)
	passengers, err := pgx.CollectRows(rows, rowToPassenger)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return passengers, nil
}

func rowToPassenger(row pgx.CollectableRow) (models.Passenger, error) {
	var p models.Passenger
	err := row.Scan(&p.ID, &p.CreatedAt, &p.MemberID, &p.TicketID, &p.BookingNum, &p.Name, &p.BirthDate)
	return p, err
}
