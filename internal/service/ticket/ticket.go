// Package ticket is the booking surface gated by authentication: listing
// tickets, registering passengers and looking up a member's bookings.
package ticket

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/jyoon-dev/skyticket/internal/models"
	"github.com/jyoon-dev/skyticket/internal/repository"
)

type TicketService struct {
	ticketRepo    repository.TicketRepo
	passengerRepo repository.PassengerRepo
}

func NewService(ticketRepo repository.TicketRepo, passengerRepo repository.PassengerRepo) (*TicketService, error) {
	if ticketRepo == nil || passengerRepo == nil {
		return nil, errors.New("repos must not be nil")
	}

	return &TicketService{
		ticketRepo:    ticketRepo,
		passengerRepo: passengerRepo,
	}, nil
}

func (s *TicketService) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return s.ticketRepo.ListTickets(ctx)
}

// BookPassenger takes a seat on the ticket and registers the passenger for
// the member. The booking number is a ULID, unique and time ordered.
func (s *TicketService) BookPassenger(ctx context.Context, member models.Member, ticketID uuid.UUID, name string, birthDate string) (models.Passenger, error) {
	var passenger models.Passenger

	if _, err := s.ticketRepo.TakeSeat(ctx, ticketID); err != nil {
		return passenger, err
	}

	bookingNum, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return passenger, fmt.Errorf("error while generating booking number. Err: %w", err)
	}

	passenger, err = s.passengerRepo.CreatePassenger(ctx, models.Passenger{
		MemberID:   member.ID,
		TicketID:   ticketID,
		BookingNum: bookingNum.String(),
		Name:       name,
		BirthDate:  birthDate,
	})
	if err != nil {
		return passenger, fmt.Errorf("error while saving passenger. Err: %w", err)
	}

	return passenger, nil
}

func (s *TicketService) MyBookings(ctx context.Context, member models.Member) ([]models.Passenger, error) {
	return s.passengerRepo.ListByMember(ctx, member.ID)
}
