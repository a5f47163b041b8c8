package service

import (
	"context"
	"errors"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/utils"
)

type availabilityService struct {
	roomRepo        repository.RoomRepository
	reservationRepo repository.ReservationRepository
}

func NewAvailabilityService(roomRepo repository.RoomRepository, reservationRepo repository.ReservationRepository) AvailabilityService {
	return &availabilityService{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
	}
}

func (s *availabilityService) AvailableCount(ctx context.Context, roomID int64, checkIn, checkOut *time.Time) (int32, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	total, err := s.roomRepo.CountActiveByType(ctx, room.HotelID, room.RoomType)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	if checkIn == nil || checkOut == nil {
		return total, nil
	}

	start := utils.TruncateToDay(*checkIn)
	end := utils.TruncateToDay(*checkOut)
	overlapping, err := s.reservationRepo.ListOverlapping(ctx, room.HotelID, room.RoomType, start, end)
	if err != nil {
		return 0, err
	}

	available := total - int32(len(overlapping))
	if available < 0 {
		available = 0
	}
	return available, nil
}

func (s *availabilityService) AvailableDates(ctx context.Context, roomID int64, from, to time.Time) ([]string, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	total, err := s.roomRepo.CountActiveByType(ctx, room.HotelID, room.RoomType)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	start := utils.TruncateToDay(from)
	end := utils.TruncateToDay(to)
	if end.Before(start) {
		return nil, nil
	}

	// One range query covers every day we are about to inspect; the end
	// bound is exclusive so widen it by a day to include stays ending there.
	overlapping, err := s.reservationRepo.ListOverlapping(ctx, room.HotelID, room.RoomType, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	var dates []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		booked := int32(0)
		for _, rv := range overlapping {
			// A stay occupies its check-in day but not its check-out day.
			if !day.Before(rv.CheckIn) && day.Before(rv.CheckOut) {
				booked++
			}
		}
		if booked < total {
			dates = append(dates, day.Format(utils.DateLayout))
		}
	}
	return dates, nil
}
