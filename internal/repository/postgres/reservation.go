package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"

	"github.com/lib/pq"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, code, hotel_id, room_id, user_id, guest_name, guest_email,
	check_in, check_out, total_amount, original_total, paid_amount, payment_method,
	booking_status, payment_status, gateway_txn_id, bank_code, card_type, gateway_paid_at,
	reschedule_amount, reschedule_status, reschedule_txn_id, reschedule_created_at, reschedule_paid_at,
	reschedule_extra_to_pay, settlement_status, settlement_amount, settlement_paid_at, settlement_txn_id,
	commission_amount, commission_rate, created_on, updated_on`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	r := &domain.Reservation{}
	var (
		gatewayPaidAt    sql.NullTime
		reschedAmount    sql.NullInt64
		reschedStatus    sql.NullString
		reschedTxnID     sql.NullString
		reschedCreatedAt sql.NullTime
		reschedPaidAt    sql.NullTime
		settlementPaidAt sql.NullTime
	)
	err := row.Scan(
		&r.ID, &r.Code, &r.HotelID, &r.RoomID, &r.UserID, &r.GuestName, &r.GuestEmail,
		&r.CheckIn, &r.CheckOut, &r.TotalAmount, &r.OriginalTotal, &r.PaidAmount, &r.PaymentMethod,
		&r.BookingStatus, &r.PaymentStatus, &r.GatewayTxnID, &r.BankCode, &r.CardType, &gatewayPaidAt,
		&reschedAmount, &reschedStatus, &reschedTxnID, &reschedCreatedAt, &reschedPaidAt,
		&r.RescheduleExtraToPay, &r.SettlementStatus, &r.SettlementAmount, &settlementPaidAt, &r.SettlementTxnID,
		&r.CommissionAmount, &r.CommissionRate, &r.CreatedOn, &r.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}

	if gatewayPaidAt.Valid {
		r.GatewayPaidAt = &gatewayPaidAt.Time
	}
	if settlementPaidAt.Valid {
		r.SettlementPaidAt = &settlementPaidAt.Time
	}
	if reschedStatus.Valid {
		rp := &domain.ReschedulePayment{
			Amount:        reschedAmount.Int64,
			Status:        domain.ReschedulePaymentStatus(reschedStatus.String),
			TransactionID: reschedTxnID.String,
			CreatedAt:     reschedCreatedAt.Time,
		}
		if reschedPaidAt.Valid {
			rp.PaidAt = &reschedPaidAt.Time
		}
		r.Reschedule = rp
	}
	return r, nil
}

func (r *reservationRepository) Create(ctx context.Context, rv *domain.Reservation) error {
	query := `INSERT INTO reservations (code, hotel_id, room_id, user_id, guest_name, guest_email,
	            check_in, check_out, total_amount, original_total, paid_amount, payment_method,
	            booking_status, payment_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		rv.Code, rv.HotelID, rv.RoomID, rv.UserID, rv.GuestName, rv.GuestEmail,
		rv.CheckIn, rv.CheckOut, rv.TotalAmount, rv.OriginalTotal, rv.PaidAmount, rv.PaymentMethod,
		rv.BookingStatus, rv.PaymentStatus, now, now,
	).Scan(&rv.ID)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	rv, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rv, err
}

func (r *reservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE code = $1`
	rv, err := scanReservation(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rv, err
}

func (r *reservationRepository) Update(ctx context.Context, rv *domain.Reservation) error {
	query := `UPDATE reservations SET
	            check_in=$1, check_out=$2, total_amount=$3, original_total=$4, paid_amount=$5,
	            payment_method=$6, booking_status=$7, payment_status=$8,
	            gateway_txn_id=$9, bank_code=$10, card_type=$11, gateway_paid_at=$12,
	            reschedule_amount=$13, reschedule_status=$14, reschedule_txn_id=$15,
	            reschedule_created_at=$16, reschedule_paid_at=$17, reschedule_extra_to_pay=$18,
	            updated_on=$19
	          WHERE id=$20`

	var (
		reschedAmount    sql.NullInt64
		reschedStatus    sql.NullString
		reschedTxnID     sql.NullString
		reschedCreatedAt sql.NullTime
		reschedPaidAt    sql.NullTime
	)
	if rp := rv.Reschedule; rp != nil {
		reschedAmount = sql.NullInt64{Int64: rp.Amount, Valid: true}
		reschedStatus = sql.NullString{String: string(rp.Status), Valid: true}
		reschedTxnID = sql.NullString{String: rp.TransactionID, Valid: true}
		reschedCreatedAt = sql.NullTime{Time: rp.CreatedAt, Valid: true}
		if rp.PaidAt != nil {
			reschedPaidAt = sql.NullTime{Time: *rp.PaidAt, Valid: true}
		}
	}

	_, err := r.db.ExecContext(ctx, query,
		rv.CheckIn, rv.CheckOut, rv.TotalAmount, rv.OriginalTotal, rv.PaidAmount,
		rv.PaymentMethod, rv.BookingStatus, rv.PaymentStatus,
		rv.GatewayTxnID, rv.BankCode, rv.CardType, rv.GatewayPaidAt,
		reschedAmount, reschedStatus, reschedTxnID, reschedCreatedAt, reschedPaidAt,
		rv.RescheduleExtraToPay, time.Now(), rv.ID,
	)
	return err
}

func (r *reservationRepository) ListOverlapping(ctx context.Context, hotelID int64, roomType string, checkIn, checkOut time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
	          FROM reservations rv
	          WHERE rv.hotel_id = $1
	            AND rv.room_id IN (SELECT id FROM rooms WHERE hotel_id = $1 AND room_type = $2)
	            AND rv.check_in < $4 AND rv.check_out > $3
	            AND rv.booking_status <> 'CANCELLED'
	            AND rv.payment_status IN ('PENDING', 'PAID')`

	rows, err := r.db.QueryContext(ctx, query, hotelID, roomType, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *reservationRepository) ListForSettlement(ctx context.Context, hotelID int64, start, end time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
	          FROM reservations
	          WHERE hotel_id = $1
	            AND created_on >= $2 AND created_on < $3
	            AND payment_status = 'PAID'
	            AND booking_status <> 'CANCELLED'
	            AND settlement_status IN ('', 'PENDING')
	          ORDER BY created_on`

	// end is a closed date bound; widen it to the start of the next day
	rows, err := r.db.QueryContext(ctx, query, hotelID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *reservationRepository) ClaimForSettlement(ctx context.Context, ids []int64) ([]int64, error) {
	query := `UPDATE reservations SET settlement_status = 'PROCESSING', updated_on = $2
	          WHERE id = ANY($1) AND settlement_status IN ('', 'PENDING')
	          RETURNING id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids), time.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claimed []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		claimed = append(claimed, id)
	}
	return claimed, rows.Err()
}

func (r *reservationRepository) ReleaseSettlementClaim(ctx context.Context, ids []int64) error {
	query := `UPDATE reservations SET settlement_status = 'PENDING', updated_on = $2
	          WHERE id = ANY($1) AND settlement_status = 'PROCESSING'`
	_, err := r.db.ExecContext(ctx, query, pq.Array(ids), time.Now())
	return err
}

func (r *reservationRepository) CacheCommission(ctx context.Context, id int64, commission int64, rate float64, settlementAmount int64) error {
	query := `UPDATE reservations SET commission_amount = $1, commission_rate = $2, settlement_amount = $3, updated_on = $4 WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query, commission, rate, settlementAmount, time.Now(), id)
	return err
}

func (r *reservationRepository) MarkSettlementPaid(ctx context.Context, ids []int64, paidAt time.Time, transactionID string) error {
	query := `UPDATE reservations SET settlement_status = 'PAID', settlement_paid_at = $2, settlement_txn_id = $3, updated_on = $4
	          WHERE id = ANY($1)`
	_, err := r.db.ExecContext(ctx, query, pq.Array(ids), paidAt, transactionID, time.Now())
	return err
}

func (r *reservationRepository) ListPendingSettlement(ctx context.Context, hotelID int64) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
	          FROM reservations
	          WHERE hotel_id = $1
	            AND payment_status = 'PAID'
	            AND booking_status <> 'CANCELLED'
	            AND settlement_status IN ('', 'PENDING', 'PROCESSING')
	          ORDER BY created_on`

	rows, err := r.db.QueryContext(ctx, query, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}
