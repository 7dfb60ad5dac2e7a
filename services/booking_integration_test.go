package services

import (
	"context"
	"testing"
	"time"

	"tourism-backend/models"
	"tourism-backend/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These run against a real server with a multi-connection pool, where only
// the row lock on the hotel keeps two transactions from both seeing a free room.

func TestCreateBooking_ConcurrentMySQL(t *testing.T) {
	testConcurrentBookingOnServer(t, "mysql", "TEST_MYSQL_DSN")
}

func TestCreateBooking_ConcurrentPostgres(t *testing.T) {
	testConcurrentBookingOnServer(t, "postgres", "TEST_DATABASE_URL")
}

func testConcurrentBookingOnServer(t *testing.T, driver, envVar string) {
	db := testutil.ServerDB(t, driver, envVar)
	hotel := testutil.SeedHotel(t, db, "Hotel "+uuid.NewString(), 3)
	t.Cleanup(func() {
		db.Where("hotel_id = ?", hotel.ID).Delete(&models.Booking{})
		db.Delete(&models.Place{}, hotel.ID)
	})

	svc := NewBookingService(db, 10*time.Second, nil, nil)
	raceForRoom(t, svc, hotel.ID, 16)

	stored, err := svc.ListBookings(context.Background(), BookingFilter{HotelID: &hotel.ID})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assertNoOverlaps(t, stored)

	// adjacent stays on the same room still go through
	_, err = svc.CreateBooking(context.Background(), bookingReq(hotel.ID, 2, "2026-12-27", "2026-12-30"))
	assert.NoError(t, err)
}
