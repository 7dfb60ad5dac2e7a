package controllers

import (
	"net/http"

	"tourism-backend/models"
	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

type placePayload struct {
	Name           string `json:"name"`
	Stars          *int   `json:"stars"`
	Description    string `json:"description"`
	Address        string `json:"address"`
	MapReference   string `json:"map_reference"`
	ImageReference string `json:"image_reference"`
	RoomCount      *int   `json:"room_count"`
}

func (p placePayload) input() services.PlaceInput {
	return services.PlaceInput{
		Name:           p.Name,
		Stars:          p.Stars,
		Description:    p.Description,
		Address:        p.Address,
		MapReference:   p.MapReference,
		ImageReference: p.ImageReference,
		RoomCount:      p.RoomCount,
	}
}

// PlaceController serves /api/:category for hotels, restaurants and points of interest.
type PlaceController struct {
	Places *services.PlaceService
}

func NewPlaceController(svc *services.PlaceService) *PlaceController {
	return &PlaceController{Places: svc}
}

func (pc *PlaceController) category(c *gin.Context) (models.Category, bool) {
	category, err := services.ResolveCategory(c.Param("category"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return category, true
}

func (pc *PlaceController) List(c *gin.Context) {
	category, ok := pc.category(c)
	if !ok {
		return
	}
	places, err := pc.Places.List(c.Request.Context(), category)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, places)
}

func (pc *PlaceController) Get(c *gin.Context) {
	category, ok := pc.category(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	place, err := pc.Places.Get(c.Request.Context(), category, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, place)
}

func (pc *PlaceController) Create(c *gin.Context) {
	category, ok := pc.category(c)
	if !ok {
		return
	}
	var payload placePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c)
		return
	}
	place, err := pc.Places.Create(c.Request.Context(), category, payload.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, place)
}

func (pc *PlaceController) Update(c *gin.Context) {
	category, ok := pc.category(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload placePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c)
		return
	}
	place, err := pc.Places.Update(c.Request.Context(), category, id, payload.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, place)
}

func (pc *PlaceController) Delete(c *gin.Context) {
	category, ok := pc.category(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := pc.Places.Delete(c.Request.Context(), category, id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
