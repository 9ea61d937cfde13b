package repository

import (
	"errors"
	"time"

	"taptap/internal/domain"
	"taptap/internal/models"

	"gorm.io/gorm"
)

type PingRepository struct {
	db *gorm.DB
}

func NewPingRepository(db *gorm.DB) *PingRepository {
	return &PingRepository{db: db}
}

func (r *PingRepository) GetByID(id uint) (*models.Ping, error) {
	var p models.Ping
	if err := r.db.Preload("FromUser").Preload("ToUser").Preload("Venue").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindOpen returns an existing ping for the ordered pair at the venue whose
// meet confirmation is still unanswered. Used to dedup repeat taps.
func (r *PingRepository) FindOpen(fromID, toID, venueID uint) (*models.Ping, error) {
	var p models.Ping
	err := r.db.Where("from_user_id = ? AND to_user_id = ? AND venue_id = ? AND meet_confirmed IS NULL",
		fromID, toID, venueID).Order("created_at DESC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindReversePending returns a pending ping in the opposite direction at the
// same venue, which turns the new tap into a mutual match.
func (r *PingRepository) FindReversePending(fromID, toID, venueID uint) (*models.Ping, error) {
	var p models.Ping
	err := r.db.Where("from_user_id = ? AND to_user_id = ? AND venue_id = ? AND status = ?",
		toID, fromID, venueID, domain.PingPending).Order("created_at DESC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PingRepository) Create(p *models.Ping) error {
	return r.db.Create(p).Error
}

// CreateMatch inserts the new ping and flips the reverse ping to MATCHED in
// one transaction, so no half-matched state survives a crash or a concurrent
// tap.
func (r *PingRepository) CreateMatch(p *models.Ping, reverse *models.Ping) error {
	now := time.Now()
	p.Status = domain.PingMatched
	p.MatchedAt = &now
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Ping{}).
			Where("id = ? AND status = ?", reverse.ID, domain.PingPending).
			Updates(map[string]interface{}{"status": domain.PingMatched, "matched_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// reverse ping was answered by a concurrent writer; retry upstream
			return gorm.ErrRecordNotFound
		}
		reverse.Status = domain.PingMatched
		reverse.MatchedAt = &now
		return nil
	})
}

// Confirm persists the terminal meet confirmation together with any XP
// grants: xp_events rows and users.xp increments commit atomically with the
// ping update. The update is conditional on the ping still being unanswered,
// so two racing confirms cannot both land and double the XP; the loser gets
// ErrDuplicateAction.
func (r *PingRepository) Confirm(p *models.Ping, awards []models.XPEvent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Ping{}).
			Where("id = ? AND meet_confirmed IS NULL", p.ID).
			Updates(map[string]interface{}{
				"meet_confirmed": p.MeetConfirmed,
				"feedback":       p.Feedback,
				"confirmed_at":   p.ConfirmedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrDuplicateAction
		}
		for i := range awards {
			if err := tx.Create(&awards[i]).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).
				Where("id = ?", awards[i].UserID).
				Update("xp", gorm.Expr("xp + ?", awards[i].Points)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByUser returns pings where the user is either party, newest first.
func (r *PingRepository) ListByUser(userID uint, limit int) ([]models.Ping, error) {
	var list []models.Ping
	err := r.db.Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Preload("FromUser").Preload("ToUser").Preload("Venue").
		Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
