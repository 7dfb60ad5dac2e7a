package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourism-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceService is the catalog of hotels, restaurants and points of interest.
// The category is always a bound column value.
type PlaceService struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewPlaceService(db *gorm.DB, timeout time.Duration) *PlaceService {
	return &PlaceService{DB: db, Timeout: timeout}
}

type PlaceInput struct {
	Name           string `validate:"required,max=255"`
	Stars          *int   `validate:"omitempty,min=0,max=5"`
	Description    string
	Address        string `validate:"max=255"`
	MapReference   string
	ImageReference string `validate:"max=512"`
	RoomCount      *int   `validate:"omitempty,min=1,max=100000"`
}

// ResolveCategory turns a URL slug into a category or ErrInvalidCategory.
func ResolveCategory(slug string) (models.Category, error) {
	category, ok := models.ParseCategory(slug)
	if !ok {
		return "", ErrInvalidCategory
	}
	return category, nil
}

func (s *PlaceService) checkInput(category models.Category, in *PlaceInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(*in); err != nil {
		return err
	}
	if category != models.CategoryHotel && in.RoomCount != nil {
		return invalid("room_count is only allowed for hotels")
	}
	return nil
}

func (s *PlaceService) List(ctx context.Context, category models.Category) ([]models.Place, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	places := []models.Place{}
	if err := s.DB.WithContext(ctx).
		Where("category = ?", category).
		Order("id DESC").
		Find(&places).Error; err != nil {
		return nil, dbError("list places", err)
	}
	return places, nil
}

func (s *PlaceService) Get(ctx context.Context, category models.Category, id uint) (*models.Place, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var place models.Place
	err := s.DB.WithContext(ctx).Where("category = ?", category).First(&place, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, dbError("get place", err)
	}
	return &place, nil
}

func (s *PlaceService) Create(ctx context.Context, category models.Category, in PlaceInput) (*models.Place, error) {
	if err := s.checkInput(category, &in); err != nil {
		return nil, err
	}

	place := &models.Place{
		Category:       category,
		Name:           in.Name,
		Stars:          in.Stars,
		Description:    in.Description,
		Address:        in.Address,
		MapReference:   in.MapReference,
		ImageReference: in.ImageReference,
		RoomCount:      in.RoomCount,
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	if err := s.DB.WithContext(ctx).Create(place).Error; err != nil {
		return nil, dbError("create place", err)
	}
	return place, nil
}

// Update replaces every editable field, as the catalog form always sends the full record.
func (s *PlaceService) Update(ctx context.Context, category models.Category, id uint, in PlaceInput) (*models.Place, error) {
	if err := s.checkInput(category, &in); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var place models.Place
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("category = ?", category).
			First(&place, id).Error; err != nil {
			return err
		}
		place.Name = in.Name
		place.Stars = in.Stars
		place.Description = in.Description
		place.Address = in.Address
		place.MapReference = in.MapReference
		place.ImageReference = in.ImageReference
		place.RoomCount = in.RoomCount
		return tx.Save(&place).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, dbError("update place", err)
	}
	return &place, nil
}

// Delete removes a place. Hotels with bookings are kept (ErrPlaceInUse).
func (s *PlaceService) Delete(ctx context.Context, category models.Category, id uint) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var place models.Place
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("category = ?", category).
			First(&place, id).Error; err != nil {
			return err
		}
		if category == models.CategoryHotel {
			var bookings int64
			if err := tx.Model(&models.Booking{}).Where("hotel_id = ?", place.ID).Count(&bookings).Error; err != nil {
				return err
			}
			if bookings > 0 {
				return ErrPlaceInUse
			}
		}
		return tx.Delete(&place).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrPlaceNotFound
	case errors.Is(err, ErrPlaceInUse):
		return ErrPlaceInUse
	default:
		return dbError("delete place", err)
	}
}
