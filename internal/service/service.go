package service

import (
	"context"
	"time"

	"staybook-backend/internal/domain"
)

type AvailabilityService interface {
	// AvailableCount returns how many rooms of the given room's hotel+type
	// remain unbooked. With a nil date range it returns the total active
	// count of that type. Unknown rooms yield zero, not an error.
	AvailableCount(ctx context.Context, roomID int64, checkIn, checkOut *time.Time) (int32, error)
	// AvailableDates returns the ISO dates in [from, to] on which one more
	// booking of this room's type would still fit.
	AvailableDates(ctx context.Context, roomID int64, from, to time.Time) ([]string, error)
}

// CreateReservationInput carries the fields needed to open a reservation in
// PENDING/PENDING state.
type CreateReservationInput struct {
	HotelID       int64
	RoomID        int64
	UserID        int64
	GuestName     string
	GuestEmail    string
	CheckIn       time.Time
	CheckOut      time.Time
	TotalAmount   int64
	OriginalTotal int64
	PaymentMethod string
}

// CallbackOutcome is the interpreted result of a gateway callback, consumed
// by the HTTP layer to pick a redirect target.
type CallbackOutcome struct {
	Success bool
	// Code is the reservation reference code with any reschedule suffix
	// stripped.
	Code string
	// PaymentType is "primary" or "reschedule".
	PaymentType string
	Message     string
}

type PaymentService interface {
	CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	CreatePaymentURL(ctx context.Context, code, clientIP, locale, bankCode string) (string, error)

	// RequestReschedule moves the stay window and records the additional
	// charge as a pending reschedule sub-payment, raising the reservation
	// total by the same amount.
	RequestReschedule(ctx context.Context, code string, checkIn, checkOut time.Time, extraAmount int64) (*domain.Reservation, error)
	CreateReschedulePaymentURL(ctx context.Context, code, clientIP, locale string) (string, error)

	// HandleCallback verifies and applies a signed gateway callback. The
	// returned outcome is always usable for a customer redirect; the error
	// carries the internal reason for logging.
	HandleCallback(ctx context.Context, params map[string]string) (*CallbackOutcome, error)

	// CheckStatus is a read-only projection, permitted to the owning
	// customer or an operator.
	CheckStatus(ctx context.Context, requesterID int64, operator bool, code string) (*domain.Reservation, error)
}

type SettlementService interface {
	CreateSettlement(ctx context.Context, hotelID int64, periodStart, periodEnd time.Time, actor string) (*domain.Settlement, error)
	PaySettlement(ctx context.Context, id int64, transactionID, notes, operator string) (*domain.Settlement, error)
	// PendingAmountForHotel sums what the platform currently owes the hotel
	// across paid reservations not yet part of a paid settlement.
	PendingAmountForHotel(ctx context.Context, hotelID int64) (int64, error)
	ListSettlements(ctx context.Context, hotelID int64, status string, page, pageSize int32) ([]domain.Settlement, int32, error)
	GetSettlement(ctx context.Context, id int64) (*domain.Settlement, error)
}

type EmailService interface {
	SendPaymentConfirmation(ctx context.Context, email, name, code string, amount int64) error
	SendReschedulePaymentConfirmation(ctx context.Context, email, name, code string, amount int64) error
}
