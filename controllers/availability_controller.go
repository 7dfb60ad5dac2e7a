package controllers

import (
	"net/http"
	"strconv"
	"time"

	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/starfederation/datastar-go/datastar"
)

// availabilitySignals is the signal patch sent to browsers on every event.
type availabilitySignals struct {
	Availability services.AvailabilityEvent `json:"availability"`
}

type Subscriber interface {
	Subscribe() (<-chan services.AvailabilityEvent, func())
}

// AvailabilityController streams booking changes as Server-Sent Events.
type AvailabilityController struct {
	Events Subscriber
}

func NewAvailabilityController(events Subscriber) *AvailabilityController {
	return &AvailabilityController{Events: events}
}

// Stream serves GET /reservations/stream[?hotel_id=]. It returns when the
// client goes away or the notifier shuts down.
func (ac *AvailabilityController) Stream(c *gin.Context) {
	var hotelID uint
	if raw := c.Query("hotel_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidInput", "hotel_id must be a positive integer")
			return
		}
		hotelID = uint(id)
	}

	events, unsubscribe := ac.Events.Subscribe()
	defer unsubscribe()

	// The server write timeout would otherwise cut long-lived streams.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	sse := datastar.NewSSE(c.Writer, c.Request)
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if hotelID != 0 && ev.HotelID != hotelID {
				continue
			}
			if err := sse.MarshalAndPatchSignals(availabilitySignals{Availability: ev}); err != nil {
				return
			}
		}
	}
}
