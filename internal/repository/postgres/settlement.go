package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"

	"github.com/lib/pq"
)

type settlementRepository struct {
	db *sql.DB
}

func NewSettlementRepository(db *sql.DB) repository.SettlementRepository {
	return &settlementRepository{db: db}
}

const settlementColumns = `id, hotel_id, period_start, period_end, reservation_ids,
	total_amount, commission_amount, status, paid_at, transaction_id, notes, processed_by,
	created_on, updated_on`

func scanSettlement(row rowScanner) (*domain.Settlement, error) {
	s := &domain.Settlement{}
	var (
		ids    pq.Int64Array
		paidAt sql.NullTime
	)
	err := row.Scan(
		&s.ID, &s.HotelID, &s.PeriodStart, &s.PeriodEnd, &ids,
		&s.TotalAmount, &s.CommissionAmount, &s.Status, &paidAt, &s.TransactionID, &s.Notes, &s.ProcessedBy,
		&s.CreatedOn, &s.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	s.ReservationIDs = []int64(ids)
	if paidAt.Valid {
		s.PaidAt = &paidAt.Time
	}
	return s, nil
}

func (r *settlementRepository) Create(ctx context.Context, s *domain.Settlement) error {
	// settlements carries a partial unique index on (hotel_id, period_start,
	// period_end) WHERE status <> 'CANCELLED'; a second batch for the same
	// period surfaces as a unique violation here.
	query := `INSERT INTO settlements (hotel_id, period_start, period_end, reservation_ids,
	            total_amount, commission_amount, status, notes, processed_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		s.HotelID, s.PeriodStart, s.PeriodEnd, pq.Array(s.ReservationIDs),
		s.TotalAmount, s.CommissionAmount, s.Status, s.Notes, s.ProcessedBy, now, now,
	).Scan(&s.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrDuplicatePeriod
	}
	return err
}

func (r *settlementRepository) GetByID(ctx context.Context, id int64) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1`
	s, err := scanSettlement(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return s, err
}

func (r *settlementRepository) List(ctx context.Context, hotelID int64, status string, page, pageSize int32) ([]domain.Settlement, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE 1=1`

	var args []interface{}
	argIdx := 1
	if hotelID != 0 {
		query += fmt.Sprintf(" AND hotel_id = $%d", argIdx)
		args = append(args, hotelID)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var settlements []domain.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, 0, err
		}
		settlements = append(settlements, *s)
	}
	return settlements, count, rows.Err()
}

func (r *settlementRepository) MarkPaid(ctx context.Context, s *domain.Settlement) error {
	query := `UPDATE settlements SET status=$1, paid_at=$2, transaction_id=$3, notes=$4, processed_by=$5, updated_on=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, s.Status, s.PaidAt, s.TransactionID, s.Notes, s.ProcessedBy, time.Now(), s.ID)
	return err
}
