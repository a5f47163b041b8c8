package domain

import "time"

type SettlementStatus string

const (
	SettlementStatusPending    SettlementStatus = "PENDING"
	SettlementStatusProcessing SettlementStatus = "PROCESSING"
	SettlementStatusPaid       SettlementStatus = "PAID"
	SettlementStatusCancelled  SettlementStatus = "CANCELLED"
)

// Settlement is one payout batch for one hotel over one date period. The
// member list is frozen at creation; once PAID only audit fields may change.
type Settlement struct {
	ID      int64 `json:"id"`
	HotelID int64 `json:"hotel_id"`

	// Closed period, date-only precision.
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	ReservationIDs []int64 `json:"reservation_ids"`

	// TotalAmount is owed to the hotel, CommissionAmount is retained by the
	// platform. Both are whole VND.
	TotalAmount      int64 `json:"total_amount"`
	CommissionAmount int64 `json:"commission_amount"`

	Status        SettlementStatus `json:"status"`
	PaidAt        *time.Time       `json:"paid_at,omitempty"`
	TransactionID string           `json:"transaction_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	ProcessedBy   string           `json:"processed_by,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
