package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Origin      string
	Destination string
	DepartAt    time.Time
	Price       decimal.Decimal
	SeatsLeft   int32
}

// Passenger is one booked seat on a ticket. BookingNum is a ULID, so bookings
// sort by creation time naturally.
type Passenger struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	MemberID   uuid.UUID
	TicketID   uuid.UUID
	BookingNum string
	Name       string
	BirthDate  string
}
