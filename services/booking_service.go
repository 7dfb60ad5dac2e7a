package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tourism-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService is the booking ledger. Every booking of a hotel is
// serialized on that hotel's row lock.
type BookingService struct {
	DB      *gorm.DB
	Timeout time.Duration

	events AvailabilityPublisher
	mail   MailQueue
	now    func() time.Time
}

// NewBookingService wires the ledger. events and mail may be nil.
func NewBookingService(db *gorm.DB, timeout time.Duration, events AvailabilityPublisher, mail MailQueue) *BookingService {
	return &BookingService{DB: db, Timeout: timeout, events: events, mail: mail, now: time.Now}
}

type BookingRequest struct {
	HotelID    uint   `json:"hotel_id" validate:"required"`
	RoomNumber int    `json:"room_number" validate:"required,min=1"`
	GuestName  string `json:"guest_name" validate:"required,max=255"`
	GuestEmail string `json:"guest_email" validate:"required,email,max=150"`
	GuestPhone string `json:"guest_phone" validate:"required,max=50"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`

	// AccountID is set by the controller from the session, never from the body.
	AccountID *uint `json:"-"`
}

type BookingFilter struct {
	HotelID *uint
}

// Availability is the derived occupancy of a hotel on one day.
type Availability struct {
	HotelID        uint   `json:"hotel_id"`
	Date           string `json:"date"`
	RoomCount      *int   `json:"room_count"`
	BookedRooms    []int  `json:"booked_rooms"`
	AvailableRooms *int   `json:"available_rooms"`
}

// ParseDate accepts 2006-01-02 or RFC3339 and truncates to the UTC day.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339, value)
		if err2 != nil {
			return time.Time{}, invalid("%s must be a date (YYYY-MM-DD)", field)
		}
		t = t2.UTC()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CreateBooking records a booking unless the room is already taken for any
// day of [start, end). The check and the insert share one transaction that
// holds the hotel row lock, so two overlapping requests cannot both succeed.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestEmail = strings.TrimSpace(req.GuestEmail)
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	if err := validateInput(req); err != nil {
		return nil, err
	}

	start, err := ParseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	booking := &models.Booking{
		HotelID:    req.HotelID,
		RoomNumber: req.RoomNumber,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		StartDate:  datatypes.Date(start),
		EndDate:    datatypes.Date(end),
		AccountID:  req.AccountID,
	}

	// A client hanging up must not abort a booking halfway; only the DB timeout can.
	txCtx, cancel := withTimeout(context.WithoutCancel(ctx), s.Timeout)
	defer cancel()

	var hotel models.Place
	err = s.DB.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("category = ?", models.CategoryHotel).
			First(&hotel, req.HotelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHotelNotFound
			}
			return err
		}
		if hotel.RoomCount != nil && req.RoomNumber > *hotel.RoomCount {
			return invalid("room_number must be at most %d", *hotel.RoomCount)
		}

		var overlapping int64
		if err := tx.Model(&models.Booking{}).
			Where("hotel_id = ? AND room_number = ?", req.HotelID, req.RoomNumber).
			Where("start_date < ? AND end_date > ?", end, start).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrBookingConflict
		}

		return tx.Create(booking).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrHotelNotFound), errors.Is(err, ErrBookingConflict), errors.Is(err, ErrInvalidInput):
		return nil, err
	default:
		return nil, dbError("create booking", err)
	}

	log.Printf("📅 booking %d: hotel %d room %d %s..%s", booking.ID, booking.HotelID, booking.RoomNumber,
		models.FormatDate(booking.StartDate), models.FormatDate(booking.EndDate))

	s.publish(EventBooked, booking)
	if s.mail != nil {
		s.mail.Enqueue(BookingConfirmation(booking, &hotel))
	}
	return booking, nil
}

// Availability reports which rooms of a hotel are occupied on day on.
func (s *BookingService) Availability(ctx context.Context, hotelID uint, on time.Time) (*Availability, error) {
	if on.IsZero() {
		on = s.now()
	}
	on = time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var hotel models.Place
	err := s.DB.WithContext(ctx).Where("category = ?", models.CategoryHotel).First(&hotel, hotelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, dbError("get hotel", err)
	}

	booked := []int{}
	if err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("hotel_id = ? AND start_date <= ? AND end_date > ?", hotelID, on, on).
		Distinct().
		Order("room_number").
		Pluck("room_number", &booked).Error; err != nil {
		return nil, dbError("list booked rooms", err)
	}

	out := &Availability{
		HotelID:     hotelID,
		Date:        on.Format(models.DateLayout),
		RoomCount:   hotel.RoomCount,
		BookedRooms: booked,
	}
	if hotel.RoomCount != nil {
		free := *hotel.RoomCount - len(booked)
		if free < 0 {
			free = 0
		}
		out.AvailableRooms = &free
	}
	return out, nil
}

// ListBookings returns bookings newest first.
func (s *BookingService) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	q := s.DB.WithContext(ctx).Model(&models.Booking{})
	if filter.HotelID != nil {
		q = q.Where("hotel_id = ?", *filter.HotelID)
	}

	bookings := []models.Booking{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, dbError("list bookings", err)
	}
	return bookings, nil
}

// DeleteBooking frees the booked nights and tells subscribers.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			return err
		}
		return tx.Delete(&booking).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return dbError("delete booking", err)
	}

	s.publish(EventReleased, &booking)
	return nil
}

func (s *BookingService) publish(kind string, b *models.Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(AvailabilityEvent{
		Kind:       kind,
		HotelID:    b.HotelID,
		RoomNumber: b.RoomNumber,
		BookingID:  b.ID,
		StartDate:  models.FormatDate(b.StartDate),
		EndDate:    models.FormatDate(b.EndDate),
		At:         s.now().UTC(),
	})
}
