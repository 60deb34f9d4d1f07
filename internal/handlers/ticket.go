package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jyoon-dev/skyticket/internal/apperrors"
	"github.com/jyoon-dev/skyticket/internal/handlers/memberctx"
	"github.com/jyoon-dev/skyticket/internal/handlers/render"
	"github.com/jyoon-dev/skyticket/internal/models"
)

// Ticket service as the handlers need it
type TicketService interface {
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	BookPassenger(ctx context.Context, member models.Member, ticketID uuid.UUID, name string, birthDate string) (models.Passenger, error)
	MyBookings(ctx context.Context, member models.Member) ([]models.Passenger, error)
}

type TicketHandler struct {
	ticketService TicketService
}

func NewTicket(ts TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ts}
}

type ticketResponse struct {
	ID          uuid.UUID       `json:"id"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	DepartAt    time.Time       `json:"departAt"`
	Price       decimal.Decimal `json:"price"`
	SeatsLeft   int32           `json:"seatsLeft"`
}

type bookingResponse struct {
	BookingNum string    `json:"bookingNum"`
	TicketID   uuid.UUID `json:"ticketId"`
	Name       string    `json:"name"`
	BirthDate  string    `json:"birthDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.ticketService.ListTickets(r.Context())
	if err != nil {
		render.Fail(w, render.CodeInternalError, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, ticketResponse{
			ID:          t.ID,
			Origin:      t.Origin,
			Destination: t.Destination,
			DepartAt:    t.DepartAt,
			Price:       t.Price,
			SeatsLeft:   t.SeatsLeft,
		})
	}

	render.Success(w, resp)
}

func (h *TicketHandler) CreatePassenger(w http.ResponseWriter, r *http.Request) {
	type PassengerRequest struct {
		TicketID  uuid.UUID `json:"ticketId" validate:"required"`
		Name      string    `json:"name" validate:"required,max=100"`
		BirthDate string    `json:"birthDate" validate:"required"`
	}

	member, ok := memberctx.FromContext(r.Context())
	if !ok {
		render.Fail(w, apperrors.CodeMemberNotFound, "Member could not be found", http.StatusUnauthorized)
		return
	}

	data, err := render.BindAndValidate[PassengerRequest](w, r)
	if err != nil {
		return
	}

	passenger, err := h.ticketService.BookPassenger(r.Context(), member, data.TicketID, data.Name, data.BirthDate)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTicketNotFound):
			render.Fail(w, apperrors.CodeTicketNotFound, "Ticket could not be found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrTicketSoldOut):
			render.Fail(w, apperrors.CodeTicketSoldOut, "No seats left on this ticket", http.StatusConflict)
		default:
			render.Fail(w, render.CodeInternalError, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.Success(w, bookingResponse{
		BookingNum: passenger.BookingNum,
		TicketID:   passenger.TicketID,
		Name:       passenger.Name,
		BirthDate:  passenger.BirthDate,
		CreatedAt:  passenger.CreatedAt,
	})
}

func (h *TicketHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	member, ok := memberctx.FromContext(r.Context())
	if !ok {
		render.Fail(w, apperrors.CodeMemberNotFound, "Member could not be found", http.StatusUnauthorized)
		return
	}

	bookings, err := h.ticketService.MyBookings(r.Context(), member)
	if err != nil {
		render.Fail(w, render.CodeInternalError, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for _, p := range bookings {
		resp = append(resp, bookingResponse{
			BookingNum: p.BookingNum,
			TicketID:   p.TicketID,
			Name:       p.Name,
			BirthDate:  p.BirthDate,
			CreatedAt:  p.CreatedAt,
		})
	}

	render.Success(w, resp)
}
