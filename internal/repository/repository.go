package repository

import (
	"context"
	"time"

	"staybook-backend/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByCode(ctx context.Context, code string) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error

	// ListOverlapping returns non-cancelled reservations with payment status
	// PENDING or PAID on any room of the given hotel+type whose stay window
	// intersects [checkIn, checkOut) (half-open).
	ListOverlapping(ctx context.Context, hotelID int64, roomType string, checkIn, checkOut time.Time) ([]domain.Reservation, error)

	// ListForSettlement returns paid, non-cancelled reservations created
	// within [start, end] whose settlement status is absent or PENDING.
	ListForSettlement(ctx context.Context, hotelID int64, start, end time.Time) ([]domain.Reservation, error)

	// ClaimForSettlement atomically flips settlement status to PROCESSING on
	// the given reservations, skipping any already claimed elsewhere, and
	// returns the ids actually claimed.
	ClaimForSettlement(ctx context.Context, ids []int64) ([]int64, error)

	// ReleaseSettlementClaim undoes ClaimForSettlement for ids whose
	// settlement record could not be created.
	ReleaseSettlementClaim(ctx context.Context, ids []int64) error

	// CacheCommission persists a computed commission snapshot and net
	// settlement amount on the reservation.
	CacheCommission(ctx context.Context, id int64, commission int64, rate float64, settlementAmount int64) error

	// MarkSettlementPaid propagates a settlement payout onto its member
	// reservations.
	MarkSettlementPaid(ctx context.Context, ids []int64, paidAt time.Time, transactionID string) error

	// ListPendingSettlement returns paid, non-cancelled reservations for the
	// hotel not yet part of a paid settlement (settlement status absent,
	// PENDING or PROCESSING).
	ListPendingSettlement(ctx context.Context, hotelID int64) ([]domain.Reservation, error)
}

type SettlementRepository interface {
	// Create inserts the settlement. A non-cancelled settlement for the same
	// (hotel, period) triggers domain.ErrDuplicatePeriod via the partial
	// unique index.
	Create(ctx context.Context, s *domain.Settlement) error
	GetByID(ctx context.Context, id int64) (*domain.Settlement, error)
	List(ctx context.Context, hotelID int64, status string, page, pageSize int32) ([]domain.Settlement, int32, error)
	MarkPaid(ctx context.Context, s *domain.Settlement) error
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	// CountActiveByType counts active rooms sharing the hotel and room type.
	CountActiveByType(ctx context.Context, hotelID int64, roomType string) (int32, error)
}

type HotelRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	List(ctx context.Context) ([]domain.Hotel, error)
}
