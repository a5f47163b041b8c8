package postgres

import (
	"context"
	"database/sql"
	"errors"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type roomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	rm := &domain.Room{}
	query := `SELECT id, hotel_id, room_type, is_active FROM rooms WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rm.ID, &rm.HotelID, &rm.RoomType, &rm.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *roomRepository) CountActiveByType(ctx context.Context, hotelID int64, roomType string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM rooms WHERE hotel_id = $1 AND room_type = $2 AND is_active`
	err := r.db.QueryRowContext(ctx, query, hotelID, roomType).Scan(&count)
	return count, err
}

type hotelRepository struct {
	db *sql.DB
}

func NewHotelRepository(db *sql.DB) repository.HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	h := &domain.Hotel{}
	query := `SELECT id, name, commission_rate FROM hotels WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Name, &h.CommissionRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *hotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, commission_rate FROM hotels ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.CommissionRate); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}
