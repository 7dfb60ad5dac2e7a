package services

import (
	"context"
	"testing"
	"time"

	"tourism-backend/models"
	"tourism-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestResolveCategory(t *testing.T) {
	for slug, want := range map[string]models.Category{
		"hoteles":           models.CategoryHotel,
		"restaurantes":      models.CategoryRestaurant,
		"puntos_interes":    models.CategoryPointOfInterest,
		"hotel":             models.CategoryHotel,
		"point_of_interest": models.CategoryPointOfInterest,
	} {
		got, err := ResolveCategory(slug)
		require.NoError(t, err, slug)
		assert.Equal(t, want, got)
	}

	for _, slug := range []string{"", "users", "hoteles; DROP TABLE places", "HOTELES"} {
		_, err := ResolveCategory(slug)
		assert.ErrorIs(t, err, ErrInvalidCategory, slug)
	}
}

func TestPlaceCRUD(t *testing.T) {
	svc := NewPlaceService(testutil.NewDB(t), 5*time.Second)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.CategoryHotel, PlaceInput{
		Name:           "  Hotel Sol ",
		Stars:          intPtr(4),
		Description:    "Frente al mar",
		Address:        "Calle Mayor 1",
		MapReference:   "https://maps.example/embed?q=sol",
		ImageReference: "https://img.example/sol.jpg",
		RoomCount:      intPtr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hotel Sol", created.Name)
	assert.Equal(t, models.CategoryHotel, created.Category)

	got, err := svc.Get(ctx, models.CategoryHotel, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Category, got.Category)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Stars, got.Stars)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Address, got.Address)
	assert.Equal(t, created.MapReference, got.MapReference)
	assert.Equal(t, created.ImageReference, got.ImageReference)
	assert.Equal(t, created.RoomCount, got.RoomCount)
	assert.Equal(t, 4, *got.Stars)
	assert.Equal(t, 20, *got.RoomCount)
	assert.Equal(t, "https://img.example/sol.jpg", got.ImageReference)

	// looked up under the wrong category it does not exist
	_, err = svc.Get(ctx, models.CategoryRestaurant, created.ID)
	assert.ErrorIs(t, err, ErrPlaceNotFound)

	updated, err := svc.Update(ctx, models.CategoryHotel, created.ID, PlaceInput{
		Name:      "Hotel Sol y Mar",
		Stars:     intPtr(5),
		RoomCount: intPtr(25),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hotel Sol y Mar", updated.Name)
	assert.Equal(t, 5, *updated.Stars)
	assert.Empty(t, updated.Description, "update replaces the whole record")

	_, err = svc.Update(ctx, models.CategoryHotel, 9999, PlaceInput{Name: "x"})
	assert.ErrorIs(t, err, ErrPlaceNotFound)

	_, err = svc.Create(ctx, models.CategoryRestaurant, PlaceInput{Name: "La Tasca"})
	require.NoError(t, err)

	hotels, err := svc.List(ctx, models.CategoryHotel)
	require.NoError(t, err)
	require.Len(t, hotels, 1)

	restaurants, err := svc.List(ctx, models.CategoryRestaurant)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)

	pois, err := svc.List(ctx, models.CategoryPointOfInterest)
	require.NoError(t, err)
	assert.NotNil(t, pois)
	assert.Empty(t, pois)

	require.NoError(t, svc.Delete(ctx, models.CategoryHotel, created.ID))
	_, err = svc.Get(ctx, models.CategoryHotel, created.ID)
	assert.ErrorIs(t, err, ErrPlaceNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, models.CategoryHotel, created.ID), ErrPlaceNotFound)
}

func TestPlaceValidation(t *testing.T) {
	svc := NewPlaceService(testutil.NewDB(t), 5*time.Second)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.CategoryHotel, PlaceInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, models.CategoryHotel, PlaceInput{Name: "Hotel", Stars: intPtr(6)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "stars")

	_, err = svc.Create(ctx, models.CategoryHotel, PlaceInput{Name: "Hotel", RoomCount: intPtr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, models.CategoryRestaurant, PlaceInput{Name: "La Tasca", RoomCount: intPtr(5)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "room_count")
}

func TestDeleteHotelWithBookings(t *testing.T) {
	db := testutil.NewDB(t)
	places := NewPlaceService(db, 5*time.Second)
	bookings := NewBookingService(db, 5*time.Second, nil, nil)
	hotel := testutil.SeedHotel(t, db, "Hotel Norte", 2)

	_, err := bookings.CreateBooking(context.Background(), bookingReq(hotel.ID, 1, "2026-11-01", "2026-11-02"))
	require.NoError(t, err)

	err = places.Delete(context.Background(), models.CategoryHotel, hotel.ID)
	assert.ErrorIs(t, err, ErrPlaceInUse)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = places.Get(context.Background(), models.CategoryHotel, hotel.ID)
	assert.NoError(t, err)
}
