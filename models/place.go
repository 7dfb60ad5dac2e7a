package models

import "time"

// Category is the closed set of catalog entry kinds. It is stored as a
// column value, never used to build table names.
type Category string

const (
	CategoryHotel           Category = "hotel"
	CategoryRestaurant      Category = "restaurant"
	CategoryPointOfInterest Category = "point_of_interest"
)

// categorySlugs maps the public URL segments (and the plain values) onto categories.
var categorySlugs = map[string]Category{
	"hoteles":                      CategoryHotel,
	"restaurantes":                 CategoryRestaurant,
	"puntos_interes":               CategoryPointOfInterest,
	string(CategoryHotel):           CategoryHotel,
	string(CategoryRestaurant):      CategoryRestaurant,
	string(CategoryPointOfInterest): CategoryPointOfInterest,
}

// ParseCategory resolves a URL slug or category value.
func ParseCategory(slug string) (Category, bool) {
	c, ok := categorySlugs[slug]
	return c, ok
}

type Place struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Category       Category  `gorm:"size:32;not null;index" json:"category"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Stars          *int      `json:"stars,omitempty"`
	Description    string    `gorm:"type:text" json:"description"`
	Address        string    `gorm:"size:255" json:"address"`
	MapReference   string    `gorm:"type:text" json:"map_reference"`
	ImageReference string    `gorm:"size:512" json:"image_reference"`
	RoomCount      *int      `json:"room_count,omitempty"` // hotels only
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
