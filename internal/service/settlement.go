package service

import (
	"context"
	"fmt"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/utils"
)

type settlementService struct {
	settlementRepo  repository.SettlementRepository
	reservationRepo repository.ReservationRepository
	hotelRepo       repository.HotelRepository
	defaultRate     float64
}

func NewSettlementService(
	settlementRepo repository.SettlementRepository,
	reservationRepo repository.ReservationRepository,
	hotelRepo repository.HotelRepository,
	defaultCommissionRate float64,
) SettlementService {
	return &settlementService{
		settlementRepo:  settlementRepo,
		reservationRepo: reservationRepo,
		hotelRepo:       hotelRepo,
		defaultRate:     defaultCommissionRate,
	}
}

func (s *settlementService) CreateSettlement(ctx context.Context, hotelID int64, periodStart, periodEnd time.Time, actor string) (*domain.Settlement, error) {
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: period end before period start", domain.ErrValidation)
	}

	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	rate := hotel.CommissionRate
	if rate == 0 {
		rate = s.defaultRate
	}

	eligible, err := s.reservationRepo.ListForSettlement(ctx, hotelID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleReservations
	}

	ids := make([]int64, 0, len(eligible))
	byID := make(map[int64]*domain.Reservation, len(eligible))
	for i := range eligible {
		ids = append(ids, eligible[i].ID)
		byID[eligible[i].ID] = &eligible[i]
	}

	// Single conditional update: a reservation grabbed by a concurrent batch
	// run drops out of the claimed set here instead of being settled twice.
	claimed, err := s.reservationRepo.ClaimForSettlement(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(claimed) == 0 {
		return nil, domain.ErrNoEligibleReservations
	}

	var totalAmount, commissionAmount int64
	for _, id := range claimed {
		rv := byID[id]
		total, commission := s.settlementShare(ctx, rv, rate)
		totalAmount += total
		commissionAmount += commission
	}

	settlement := &domain.Settlement{
		HotelID:          hotelID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		ReservationIDs:   claimed,
		TotalAmount:      totalAmount,
		CommissionAmount: commissionAmount,
		Status:           domain.SettlementStatusPending,
		ProcessedBy:      actor,
	}

	if err := s.settlementRepo.Create(ctx, settlement); err != nil {
		// The claim must not outlive a failed create, or the reservations
		// would be stuck in PROCESSING with no settlement owning them.
		if releaseErr := s.reservationRepo.ReleaseSettlementClaim(ctx, claimed); releaseErr != nil {
			logger.Error("Failed to release settlement claim", "hotel_id", hotelID, "error", releaseErr)
		}
		return nil, err
	}

	logger.Info("Settlement created",
		"settlement_id", settlement.ID,
		"hotel_id", hotelID,
		"reservations", len(claimed),
		"total_amount", totalAmount,
		"commission_amount", commissionAmount)

	return settlement, nil
}

// settlementShare returns the net payable and commission for one reservation,
// computing and caching the commission snapshot when absent.
func (s *settlementService) settlementShare(ctx context.Context, rv *domain.Reservation, rate float64) (int64, int64) {
	if rv.CommissionAmount > 0 {
		if rv.SettlementAmount > 0 {
			return rv.SettlementAmount, rv.CommissionAmount
		}
		return s.originalAmount(rv) - rv.CommissionAmount, rv.CommissionAmount
	}

	breakdown := utils.ComputeCommission(s.originalAmount(rv), rate)

	// Cache write is best-effort: losing it only means recomputing next time.
	if err := s.reservationRepo.CacheCommission(ctx, rv.ID, breakdown.Commission, rate, breakdown.SettlementAmount); err != nil {
		logger.Warn("Failed to cache commission snapshot", "reservation_id", rv.ID, "error", err)
	}

	return breakdown.SettlementAmount, breakdown.Commission
}

func (s *settlementService) originalAmount(rv *domain.Reservation) int64 {
	if rv.OriginalTotal > 0 {
		return rv.OriginalTotal
	}
	return rv.TotalAmount
}

func (s *settlementService) PaySettlement(ctx context.Context, id int64, transactionID, notes, operator string) (*domain.Settlement, error) {
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement.Status == domain.SettlementStatusPaid {
		return nil, domain.ErrAlreadyPaid
	}

	now := time.Now()
	settlement.Status = domain.SettlementStatusPaid
	settlement.PaidAt = &now
	settlement.TransactionID = transactionID
	if notes != "" {
		settlement.Notes = notes
	}
	settlement.ProcessedBy = operator

	if err := s.settlementRepo.MarkPaid(ctx, settlement); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.MarkSettlementPaid(ctx, settlement.ReservationIDs, now, transactionID); err != nil {
		// The settlement itself is paid; the reservation sub-status is
		// reconciled by the next operator pass.
		logger.Error("Failed to propagate settlement payout to reservations",
			"settlement_id", settlement.ID, "error", err)
	}

	logger.Info("Settlement paid",
		"settlement_id", settlement.ID,
		"hotel_id", settlement.HotelID,
		"transaction_id", transactionID,
		"operator", operator)

	return settlement, nil
}

func (s *settlementService) PendingAmountForHotel(ctx context.Context, hotelID int64) (int64, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return 0, err
	}
	rate := hotel.CommissionRate
	if rate == 0 {
		rate = s.defaultRate
	}

	reservations, err := s.reservationRepo.ListPendingSettlement(ctx, hotelID)
	if err != nil {
		return 0, err
	}

	var pending int64
	for i := range reservations {
		rv := &reservations[i]
		if rv.SettlementAmount > 0 {
			pending += rv.SettlementAmount
			continue
		}
		if rv.CommissionAmount > 0 {
			pending += s.originalAmount(rv) - rv.CommissionAmount
			continue
		}
		pending += utils.ComputeCommission(s.originalAmount(rv), rate).SettlementAmount
	}
	return pending, nil
}

func (s *settlementService) ListSettlements(ctx context.Context, hotelID int64, status string, page, pageSize int32) ([]domain.Settlement, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.settlementRepo.List(ctx, hotelID, status, page, pageSize)
}

func (s *settlementService) GetSettlement(ctx context.Context, id int64) (*domain.Settlement, error) {
	return s.settlementRepo.GetByID(ctx, id)
}
