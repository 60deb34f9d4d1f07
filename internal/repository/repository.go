package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jyoon-dev/skyticket/internal/models"
)

// Member repository interface
type MemberRepo interface {
	// Create member
	// Has to return apperrors.ErrMemberAlreadyExists if login id is taken
	CreateMember(ctx context.Context, loginID string, hashedPassword string) (models.Member, error)

	// Get member by id or login id
	// Has to return apperrors.ErrMemberNotFound if member not found
	GetMemberByID(ctx context.Context, memberID uuid.UUID) (models.Member, error)
	GetMemberByLoginID(ctx context.Context, loginID string) (models.Member, error)
}

// RefreshToken repository interface
// The store holds at most one record per member
type RefreshTokenRepo interface {
	// Return the member's current record
	// Has to return apperrors.ErrRefreshTokenNotFound if absent
	FindByMember(ctx context.Context, memberID uuid.UUID) (models.RefreshRecord, error)

	// Insert or replace the member's record with the given token
	Upsert(ctx context.Context, memberID uuid.UUID, token string) (models.RefreshRecord, error)

	// Delete the member's record
	// Has to return apperrors.ErrRefreshTokenNotFound if absent
	Delete(ctx context.Context, memberID uuid.UUID) error
}

// Ticket repository interface
type TicketRepo interface {
	CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error)

	// Has to return apperrors.ErrTicketNotFound if ticket not found
	GetTicket(ctx context.Context, ticketID uuid.UUID) (models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)

	// Decrement seats_left by one
	// Has to return apperrors.ErrTicketSoldOut when no seats remain
	TakeSeat(ctx context.Context, ticketID uuid.UUID) (models.Ticket, error)
}

// Passenger repository interface
type PassengerRepo interface {
	CreatePassenger(ctx context.Context, passenger models.Passenger) (models.Passenger, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Passenger, error)
}
