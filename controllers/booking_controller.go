package controllers

import (
	"net/http"
	"strconv"
	"time"

	"tourism-backend/middleware"
	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

type createBookingPayload struct {
	HotelID    uint   `json:"hotel_id"`
	RoomNumber int    `json:"room_number"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Bookings: svc}
}

// Create books a room. Anonymous requests are allowed; a logged-in caller
// is recorded on the booking.
func (bc *BookingController) Create(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c)
		return
	}

	req := services.BookingRequest{
		HotelID:    payload.HotelID,
		RoomNumber: payload.RoomNumber,
		GuestName:  payload.GuestName,
		GuestEmail: payload.GuestEmail,
		GuestPhone: payload.GuestPhone,
		StartDate:  payload.StartDate,
		EndDate:    payload.EndDate,
	}
	if claims, ok := middleware.Claims(c); ok {
		accountID := claims.AccountID
		req.AccountID = &accountID
	}

	booking, err := bc.Bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// Availability answers GET /reservations?hotel_id=&date= without guest details.
func (bc *BookingController) Availability(c *gin.Context) {
	hotelID, err := strconv.ParseUint(c.Query("hotel_id"), 10, 64)
	if err != nil || hotelID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidInput", "hotel_id must be a positive integer")
		return
	}

	var on time.Time
	if raw := c.Query("date"); raw != "" {
		on, err = services.ParseDate("date", raw)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	availability, err := bc.Bookings.Availability(c.Request.Context(), uint(hotelID), on)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, availability)
}

// List is the admin view of every booking, optionally for one hotel.
func (bc *BookingController) List(c *gin.Context) {
	var filter services.BookingFilter
	if raw := c.Query("hotel_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidInput", "hotel_id must be a positive integer")
			return
		}
		hotelID := uint(id)
		filter.HotelID = &hotelID
	}

	bookings, err := bc.Bookings.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

func (bc *BookingController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := bc.Bookings.DeleteBooking(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
