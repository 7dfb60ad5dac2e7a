package models

import (
	"time"

	"gorm.io/datatypes"
)

// Booking reserves one room of one hotel for the half-open day range
// [StartDate, EndDate). Rows are never updated.
type Booking struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	HotelID    uint           `gorm:"not null;index:idx_booking_room,priority:1" json:"hotel_id"`
	RoomNumber int            `gorm:"not null;index:idx_booking_room,priority:2" json:"room_number"`
	GuestName  string         `gorm:"size:255;not null" json:"guest_name"`
	GuestEmail string         `gorm:"size:150;not null" json:"guest_email"`
	GuestPhone string         `gorm:"size:50;not null" json:"guest_phone"`
	StartDate  datatypes.Date `gorm:"not null;index:idx_booking_room,priority:3" json:"start_date"`
	EndDate    datatypes.Date `gorm:"not null" json:"end_date"`
	AccountID  *uint          `gorm:"index" json:"account_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`

	Hotel *Place `gorm:"foreignKey:HotelID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
}

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

func FormatDate(d datatypes.Date) string {
	return time.Time(d).UTC().Format(DateLayout)
}

// Overlaps reports whether [s1,e1) and [s2,e2) share at least one day.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
