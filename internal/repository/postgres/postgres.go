package postgres

import (
	"database/sql"

	"staybook-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ReservationRepository
	repository.SettlementRepository
	repository.RoomRepository
	repository.HotelRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ReservationRepository: NewReservationRepository(db),
		SettlementRepository:  NewSettlementRepository(db),
		RoomRepository:        NewRoomRepository(db),
		HotelRepository:       NewHotelRepository(db),
	}
}
