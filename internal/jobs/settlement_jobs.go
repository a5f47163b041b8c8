package jobs

import (
	"context"
	"errors"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
)

// CreateMonthlySettlements batches the previous month's paid reservations
// into one settlement per hotel. Hotels with nothing to settle or with the
// month already settled are skipped, not failed.
func (jr *JobRunner) CreateMonthlySettlements() {
	jr.runWithRecovery("CreateMonthlySettlements", func() {
		ctx := context.Background()

		hotels, err := jr.store.HotelRepository.List(ctx)
		if err != nil {
			logger.Error("Failed to list hotels", "error", err)
			return
		}

		now := time.Now().UTC()
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		periodStart := firstOfThisMonth.AddDate(0, -1, 0)
		periodEnd := firstOfThisMonth.AddDate(0, 0, -1)

		created := 0
		for _, hotel := range hotels {
			settlement, err := jr.services.Settlement.CreateSettlement(ctx, hotel.ID, periodStart, periodEnd, "scheduler")
			if err != nil {
				if errors.Is(err, domain.ErrNoEligibleReservations) || errors.Is(err, domain.ErrDuplicatePeriod) {
					logger.Debug("Skipping hotel for monthly settlement",
						"hotel_id", hotel.ID, "reason", err)
					continue
				}
				logger.Error("Failed to create monthly settlement",
					"hotel_id", hotel.ID,
					"hotel_name", hotel.Name,
					"error", err)
				continue
			}

			created++
			logger.Info("Monthly settlement created",
				"settlement_id", settlement.ID,
				"hotel_id", hotel.ID,
				"total_amount", settlement.TotalAmount)
		}

		logger.Info("Monthly settlement run completed",
			"hotels_processed", len(hotels),
			"settlements_created", created,
			"period_start", periodStart.Format("2006-01-02"),
			"period_end", periodEnd.Format("2006-01-02"))
	})
}
