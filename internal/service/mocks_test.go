package service_test

import (
	"context"
	"time"

	"staybook-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Update(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) ListOverlapping(ctx context.Context, hotelID int64, roomType string, checkIn, checkOut time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, hotelID, roomType, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListForSettlement(ctx context.Context, hotelID int64, start, end time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, hotelID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ClaimForSettlement(ctx context.Context, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockReservationRepo) ReleaseSettlementClaim(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
func (m *MockReservationRepo) CacheCommission(ctx context.Context, id int64, commission int64, rate float64, settlementAmount int64) error {
	args := m.Called(ctx, id, commission, rate, settlementAmount)
	return args.Error(0)
}
func (m *MockReservationRepo) MarkSettlementPaid(ctx context.Context, ids []int64, paidAt time.Time, transactionID string) error {
	args := m.Called(ctx, ids, paidAt, transactionID)
	return args.Error(0)
}
func (m *MockReservationRepo) ListPendingSettlement(ctx context.Context, hotelID int64) ([]domain.Reservation, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockSettlementRepo
type MockSettlementRepo struct {
	mock.Mock
}

func (m *MockSettlementRepo) Create(ctx context.Context, s *domain.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSettlementRepo) GetByID(ctx context.Context, id int64) (*domain.Settlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}
func (m *MockSettlementRepo) List(ctx context.Context, hotelID int64, status string, page, pageSize int32) ([]domain.Settlement, int32, error) {
	args := m.Called(ctx, hotelID, status, page, pageSize)
	return args.Get(0).([]domain.Settlement), args.Get(1).(int32), args.Error(2)
}
func (m *MockSettlementRepo) MarkPaid(ctx context.Context, s *domain.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockRoomRepo
type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) CountActiveByType(ctx context.Context, hotelID int64, roomType string) (int32, error) {
	args := m.Called(ctx, hotelID, roomType)
	return args.Get(0).(int32), args.Error(1)
}

// MockHotelRepo
type MockHotelRepo struct {
	mock.Mock
}

func (m *MockHotelRepo) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}
func (m *MockHotelRepo) List(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPaymentConfirmation(ctx context.Context, email, name, code string, amount int64) error {
	args := m.Called(ctx, email, name, code, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendReschedulePaymentConfirmation(ctx context.Context, email, name, code string, amount int64) error {
	args := m.Called(ctx, email, name, code, amount)
	return args.Error(0)
}
