package repository

import (
	"taptap/internal/models"

	"gorm.io/gorm"
)

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) Create(v *models.Venue) error {
	return r.db.Create(v).Error
}

func (r *VenueRepository) GetByID(id uint) (*models.Venue, error) {
	var v models.Venue
	if err := r.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns venues, promoted first, then by name.
func (r *VenueRepository) List(category string, limit, offset int) ([]models.Venue, error) {
	var list []models.Venue
	q := r.db.Order("is_promoted DESC, name ASC").Limit(limit).Offset(offset)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&list).Error
	return list, err
}

// SetPromoted flips the promotion flag; billing logic lives outside the core.
func (r *VenueRepository) SetPromoted(venueID uint, promoted bool) error {
	res := r.db.Model(&models.Venue{}).Where("id = ?", venueID).Update("is_promoted", promoted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
