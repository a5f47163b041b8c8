package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
	BookingStatusNoShow     BookingStatus = "NO_SHOW"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type ReschedulePaymentStatus string

const (
	RescheduleStatusPending ReschedulePaymentStatus = "PENDING"
	RescheduleStatusPaid    ReschedulePaymentStatus = "PAID"
)

// SettlementLinkStatus tracks a reservation's position in the payout cycle.
// Empty string means the reservation has never been touched by a settlement.
type SettlementLinkStatus string

const (
	SettlementLinkNone       SettlementLinkStatus = ""
	SettlementLinkPending    SettlementLinkStatus = "PENDING"
	SettlementLinkProcessing SettlementLinkStatus = "PROCESSING"
	SettlementLinkPaid       SettlementLinkStatus = "PAID"
)

// ReschedulePayment is the additional charge attached to a reservation when
// its dates change. At most one is active per reservation at a time.
type ReschedulePayment struct {
	Amount        int64                   `json:"amount"`
	Status        ReschedulePaymentStatus `json:"status"`
	TransactionID string                  `json:"transaction_id,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	PaidAt        *time.Time              `json:"paid_at,omitempty"`
}

// Reservation represents one stay. It is the unit of truth for money
// received from the customer. All amounts are whole VND.
type Reservation struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	HotelID    int64  `json:"hotel_id"`
	RoomID     int64  `json:"room_id"`
	UserID     int64  `json:"user_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`

	// Stay window, date-only precision. CheckOut > CheckIn.
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`

	// OriginalTotal is the pre-discount quote and drives commission math;
	// TotalAmount is what the customer actually owes.
	TotalAmount   int64  `json:"total_amount"`
	OriginalTotal int64  `json:"original_total"`
	PaidAmount    int64  `json:"paid_amount"`
	PaymentMethod string `json:"payment_method"`

	BookingStatus BookingStatus `json:"booking_status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	// Gateway metadata recorded from the payment callback.
	GatewayTxnID  string     `json:"gateway_txn_id,omitempty"`
	BankCode      string     `json:"bank_code,omitempty"`
	CardType      string     `json:"card_type,omitempty"`
	GatewayPaidAt *time.Time `json:"gateway_paid_at,omitempty"`

	Reschedule *ReschedulePayment `json:"reschedule,omitempty"`
	// RescheduleExtraToPay is a legacy field kept so callbacks can recover a
	// reschedule charge recorded before the sub-payment record existed.
	// TODO: drop once no live reservation predates the RequestReschedule flow.
	RescheduleExtraToPay int64 `json:"reschedule_extra_to_pay,omitempty"`

	// Settlement linkage, written back by the settlement batcher.
	SettlementStatus SettlementLinkStatus `json:"settlement_status,omitempty"`
	SettlementAmount int64                `json:"settlement_amount,omitempty"`
	SettlementPaidAt *time.Time           `json:"settlement_paid_at,omitempty"`
	SettlementTxnID  string               `json:"settlement_txn_id,omitempty"`

	// Commission snapshot, computed once and cached.
	CommissionAmount int64   `json:"commission_amount,omitempty"`
	CommissionRate   float64 `json:"commission_rate,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// MaxPayable is the ceiling for PaidAmount: a reschedule can raise the total
// above the original quote, and a discount can lower it below.
func (r *Reservation) MaxPayable() int64 {
	if r.OriginalTotal > r.TotalAmount {
		return r.OriginalTotal
	}
	return r.TotalAmount
}

// CreditPayment adds amount to PaidAmount, clamped to MaxPayable, and flips
// PaymentStatus to PAID once the total is covered.
func (r *Reservation) CreditPayment(amount int64) {
	r.PaidAmount += amount
	if max := r.MaxPayable(); r.PaidAmount > max {
		r.PaidAmount = max
	}
	if r.PaidAmount >= r.TotalAmount {
		r.PaymentStatus = PaymentStatusPaid
	}
}

// SettlementEligible reports whether the reservation can enter a new
// settlement batch.
func (r *Reservation) SettlementEligible() bool {
	if r.PaymentStatus != PaymentStatusPaid {
		return false
	}
	if r.BookingStatus == BookingStatusCancelled {
		return false
	}
	return r.SettlementStatus == SettlementLinkNone || r.SettlementStatus == SettlementLinkPending
}
