package service_test

import (
	"context"
	"testing"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func settlementDeps() (*MockSettlementRepo, *MockReservationRepo, *MockHotelRepo, service.SettlementService) {
	settlementRepo := new(MockSettlementRepo)
	reservationRepo := new(MockReservationRepo)
	hotelRepo := new(MockHotelRepo)
	svc := service.NewSettlementService(settlementRepo, reservationRepo, hotelRepo, 15)
	return settlementRepo, reservationRepo, hotelRepo, svc
}

func paidReservation(id, original int64) domain.Reservation {
	return domain.Reservation{
		ID:            id,
		HotelID:       1,
		TotalAmount:   original,
		OriginalTotal: original,
		PaidAmount:    original,
		PaymentStatus: domain.PaymentStatusPaid,
	}
}

func TestSettlementService_CreateSettlement(t *testing.T) {
	ctx := context.Background()
	periodStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	hotel := &domain.Hotel{ID: 1, Name: "Riverside", CommissionRate: 15}

	t.Run("Success", func(t *testing.T) {
		settlementRepo, reservationRepo, hotelRepo, svc := settlementDeps()

		hotelRepo.On("GetByID", ctx, int64(1)).Return(hotel, nil)
		reservationRepo.On("ListForSettlement", ctx, int64(1), periodStart, periodEnd).
			Return([]domain.Reservation{paidReservation(10, 1000000), paidReservation(11, 2000000)}, nil)
		reservationRepo.On("ClaimForSettlement", ctx, []int64{10, 11}).Return([]int64{10, 11}, nil)
		reservationRepo.On("CacheCommission", ctx, int64(10), int64(150000), float64(15), int64(850000)).Return(nil)
		reservationRepo.On("CacheCommission", ctx, int64(11), int64(300000), float64(15), int64(1700000)).Return(nil)
		settlementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Settlement")).Return(nil)

		settlement, err := svc.CreateSettlement(ctx, 1, periodStart, periodEnd, "ops@staybook.vn")
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 11}, settlement.ReservationIDs)
		assert.Equal(t, int64(2550000), settlement.TotalAmount)
		assert.Equal(t, int64(450000), settlement.CommissionAmount)
		assert.Equal(t, domain.SettlementStatusPending, settlement.Status)
		assert.Equal(t, "ops@staybook.vn", settlement.ProcessedBy)
	})

	t.Run("Cached Commission Reused", func(t *testing.T) {
		settlementRepo, reservationRepo, hotelRepo, svc := settlementDeps()

		rv := paidReservation(10, 1000000)
		rv.CommissionAmount = 150000
		rv.SettlementAmount = 850000

		hotelRepo.On("GetByID", ctx, int64(1)).Return(hotel, nil)
		reservationRepo.On("ListForSettlement", ctx, int64(1), periodStart, periodEnd).
			Return([]domain.Reservation{rv}, nil)
		reservationRepo.On("ClaimForSettlement", ctx, []int64{10}).Return([]int64{10}, nil)
		settlementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Settlement")).Return(nil)

		settlement, err := svc.CreateSettlement(ctx, 1, periodStart, periodEnd, "ops@staybook.vn")
		require.NoError(t, err)
		assert.Equal(t, int64(850000), settlement.TotalAmount)
		assert.Equal(t, int64(150000), settlement.CommissionAmount)
		reservationRepo.AssertNotCalled(t, "CacheCommission", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Default Rate When Hotel Has None", func(t *testing.T) {
		settlementRepo, reservationRepo, hotelRepo, svc := settlementDeps()

		hotelRepo.On("GetByID", ctx, int64(2)).Return(&domain.Hotel{ID: 2, Name: "Hillside"}, nil)
		reservationRepo.On("ListForSettlement", ctx, int64(2), periodStart, periodEnd).
			Return([]domain.Reservation{paidReservation(20, 1000000)}, nil)
		reservationRepo.On("ClaimForSettlement", ctx, []int64{20}).Return([]int64{20}, nil)
		reservationRepo.On("CacheCommission", ctx, int64(20), int64(150000), float64(15), int64(850000)).Return(nil)
		settlementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Settlement")).Return(nil)

		settlement, err := svc.CreateSettlement(ctx, 2, periodStart, periodEnd, "ops@staybook.vn")
		require.NoError(t, err)
		assert.Equal(t, int64(850000), settlement.TotalAmount)
	})

	t.Run("No Eligible Reservations", func(t *testing.T) {
		settlementRepo, reservationRepo, hotelRepo, svc := settlementDeps()

		hotelRepo.On("GetByID", ctx, int64(1)).Return(hotel, nil)
		reservationRepo.On("ListForSettlement", ctx, int64(1), periodStart, periodEnd).
			Return([]domain.Reservation{}, nil)

		_, err := svc.CreateSettlement(ctx, 1, periodStart, periodEnd, "ops@staybook.vn")
		assert.ErrorIs(t, err, domain.ErrNoEligibleReservations)
		settlementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("All Claimed By Concurrent Run", func(t *testing.T) {
		settlementRepo, reservationRepo, hotelRepo, svc := settlementDeps()

		hotelRepo.On("GetByID", ctx, int64(1)).Return(hotel, nil)
		reservationRepo.On("ListForSettlement", ctx, int64(1), periodStart, periodEnd).
			Return([]domain.Reservation{paidReservation(10, 1000000)}, nil)
		reservationRepo.On("ClaimForSettlement", ctx, []int64{10}).Return([]int64{}, nil)

		_, err := svc.CreateSettlement(ctx, 1, periodStart, periodEnd, "ops@staybook.vn")
		assert.ErrorIs(t, err, domain.ErrNoEligibleReservations)
		settlementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate Period Releases Claim", func(t *testing.T) {
		settlementRepo, reservationRepo, hotelRepo, svc := settlementDeps()

		hotelRepo.On("GetByID", ctx, int64(1)).Return(hotel, nil)
		reservationRepo.On("ListForSettlement", ctx, int64(1), periodStart, periodEnd).
			Return([]domain.Reservation{paidReservation(10, 1000000)}, nil)
		reservationRepo.On("ClaimForSettlement", ctx, []int64{10}).Return([]int64{10}, nil)
		reservationRepo.On("CacheCommission", ctx, int64(10), int64(150000), float64(15), int64(850000)).Return(nil)
		settlementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Settlement")).Return(domain.ErrDuplicatePeriod)
		reservationRepo.On("ReleaseSettlementClaim", ctx, []int64{10}).Return(nil)

		_, err := svc.CreateSettlement(ctx, 1, periodStart, periodEnd, "ops@staybook.vn")
		assert.ErrorIs(t, err, domain.ErrDuplicatePeriod)
		reservationRepo.AssertCalled(t, "ReleaseSettlementClaim", ctx, []int64{10})
	})

	t.Run("Inverted Period", func(t *testing.T) {
		_, _, _, svc := settlementDeps()
		_, err := svc.CreateSettlement(ctx, 1, periodEnd, periodStart, "ops@staybook.vn")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSettlementService_PaySettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		settlementRepo, reservationRepo, _, svc := settlementDeps()

		settlementRepo.On("GetByID", ctx, int64(7)).Return(&domain.Settlement{
			ID:             7,
			HotelID:        1,
			ReservationIDs: []int64{10, 11},
			TotalAmount:    2550000,
			Status:         domain.SettlementStatusPending,
		}, nil)
		settlementRepo.On("MarkPaid", ctx, mock.AnythingOfType("*domain.Settlement")).Return(nil)
		reservationRepo.On("MarkSettlementPaid", ctx, []int64{10, 11}, mock.AnythingOfType("time.Time"), "BANK-TXN-991").Return(nil)

		settlement, err := svc.PaySettlement(ctx, 7, "BANK-TXN-991", "March payout", "ops@staybook.vn")
		require.NoError(t, err)
		assert.Equal(t, domain.SettlementStatusPaid, settlement.Status)
		assert.Equal(t, "BANK-TXN-991", settlement.TransactionID)
		assert.Equal(t, "March payout", settlement.Notes)
		require.NotNil(t, settlement.PaidAt)
	})

	t.Run("Already Paid", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementDeps()

		settlementRepo.On("GetByID", ctx, int64(7)).Return(&domain.Settlement{
			ID:     7,
			Status: domain.SettlementStatusPaid,
		}, nil)

		_, err := svc.PaySettlement(ctx, 7, "BANK-TXN-991", "", "ops@staybook.vn")
		assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
		settlementRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("Settlement Still Paid When Propagation Fails", func(t *testing.T) {
		settlementRepo, reservationRepo, _, svc := settlementDeps()

		settlementRepo.On("GetByID", ctx, int64(7)).Return(&domain.Settlement{
			ID:             7,
			ReservationIDs: []int64{10},
			Status:         domain.SettlementStatusPending,
		}, nil)
		settlementRepo.On("MarkPaid", ctx, mock.AnythingOfType("*domain.Settlement")).Return(nil)
		reservationRepo.On("MarkSettlementPaid", ctx, []int64{10}, mock.AnythingOfType("time.Time"), "BANK-TXN-991").
			Return(assert.AnError)

		settlement, err := svc.PaySettlement(ctx, 7, "BANK-TXN-991", "", "ops@staybook.vn")
		require.NoError(t, err)
		assert.Equal(t, domain.SettlementStatusPaid, settlement.Status)
	})
}

func TestSettlementService_PendingAmountForHotel(t *testing.T) {
	ctx := context.Background()
	hotel := &domain.Hotel{ID: 1, Name: "Riverside", CommissionRate: 15}

	t.Run("Mixed Snapshot States", func(t *testing.T) {
		_, reservationRepo, hotelRepo, svc := settlementDeps()

		withSnapshot := paidReservation(10, 1000000)
		withSnapshot.SettlementAmount = 850000
		withSnapshot.CommissionAmount = 150000

		withCommissionOnly := paidReservation(11, 2000000)
		withCommissionOnly.CommissionAmount = 300000

		uncached := paidReservation(12, 1000000)

		hotelRepo.On("GetByID", ctx, int64(1)).Return(hotel, nil)
		reservationRepo.On("ListPendingSettlement", ctx, int64(1)).
			Return([]domain.Reservation{withSnapshot, withCommissionOnly, uncached}, nil)

		pending, err := svc.PendingAmountForHotel(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(850000+1700000+850000), pending)
	})

	t.Run("Unknown Hotel", func(t *testing.T) {
		_, _, hotelRepo, svc := settlementDeps()

		hotelRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound)

		_, err := svc.PendingAmountForHotel(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSettlementService_ListSettlements(t *testing.T) {
	ctx := context.Background()

	t.Run("Page Defaults Applied", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementDeps()

		settlementRepo.On("List", ctx, int64(1), "PENDING", int32(1), int32(20)).
			Return([]domain.Settlement{{ID: 7}}, int32(1), nil)

		settlements, total, err := svc.ListSettlements(ctx, 1, "PENDING", 0, 500)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Len(t, settlements, 1)
	})
}
