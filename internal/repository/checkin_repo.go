package repository

import (
	"errors"

	"taptap/internal/models"

	"gorm.io/gorm"
)

type CheckinRepository struct {
	db *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

// ActiveByUserID returns the user's active check-in, or (nil, nil) when the
// user is not checked in anywhere.
func (r *CheckinRepository) ActiveByUserID(userID uint) (*models.CheckIn, error) {
	var c models.CheckIn
	err := r.db.Where("user_id = ? AND active = ?", userID, true).Order("created_at DESC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Activate deactivates every active check-in the user has and inserts one new
// active row for the venue, in a single transaction. Concurrent check-ins
// cannot leave two active rows behind.
func (r *CheckinRepository) Activate(userID, venueID uint) (*models.CheckIn, error) {
	c := &models.CheckIn{UserID: userID, VenueID: venueID, Active: true}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CheckIn{}).
			Where("user_id = ? AND active = ?", userID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(c).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Deactivate clears the matching active check-in. Returns false when nothing
// was active, which callers treat as an idempotent no-op.
func (r *CheckinRepository) Deactivate(userID, venueID uint) (bool, error) {
	res := r.db.Model(&models.CheckIn{}).
		Where("user_id = ? AND venue_id = ? AND active = ?", userID, venueID, true).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeactivateAllForUser clears any active check-in regardless of venue (ban,
// idle sweep). Returns the venue that was left, if any.
func (r *CheckinRepository) DeactivateAllForUser(userID uint) (*models.CheckIn, error) {
	active, err := r.ActiveByUserID(userID)
	if err != nil || active == nil {
		return nil, err
	}
	if _, err := r.Deactivate(userID, active.VenueID); err != nil {
		return nil, err
	}
	return active, nil
}

func (r *CheckinRepository) ListActiveByVenueID(venueID uint) ([]models.CheckIn, error) {
	var list []models.CheckIn
	err := r.db.Where("venue_id = ? AND active = ?", venueID, true).
		Preload("User").Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *CheckinRepository) CountActiveByVenueID(venueID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.CheckIn{}).Where("venue_id = ? AND active = ?", venueID, true).Count(&c).Error
	return c, err
}

// ListActive returns every active check-in with its user, for the idle sweep.
func (r *CheckinRepository) ListActive() ([]models.CheckIn, error) {
	var list []models.CheckIn
	err := r.db.Where("active = ?", true).Preload("Venue").Find(&list).Error
	return list, err
}

// HasActiveAt reports whether the user is actively checked in at the venue.
func (r *CheckinRepository) HasActiveAt(userID, venueID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.CheckIn{}).
		Where("user_id = ? AND venue_id = ? AND active = ?", userID, venueID, true).
		Count(&c).Error
	return c > 0, err
}
