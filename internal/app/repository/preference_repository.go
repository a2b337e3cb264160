package repository

import (
	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/pkg/logger"
	"gorm.io/gorm"
)

type PreferenceRepository interface {
	Create(preference *model.Preference) error
	FindByUserID(userID uint) (*model.Preference, error)
	FindAll(limit, offset int) ([]model.Preference, error)
	Update(preference *model.Preference) error
	DeleteByUserID(userID uint) error
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Create(preference *model.Preference) error {
	logger.Debug("Creating preference in database", map[string]interface{}{
		"user_id": preference.UserID,
	})

	if err := r.db.Create(preference).Error; err != nil {
		logger.Error("Failed to create preference in database", err, map[string]interface{}{
			"user_id": preference.UserID,
		})
		return err
	}

	logger.Debug("Preference created in database", map[string]interface{}{
		"preference_id": preference.ID,
		"user_id":       preference.UserID,
	})
	return nil
}

func (r *preferenceRepository) FindByUserID(userID uint) (*model.Preference, error) {
	logger.Debug("Finding preference by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var preference model.Preference
	if err := r.db.Where("user_id = ?", userID).First(&preference).Error; err != nil {
		return nil, err
	}

	return &preference, nil
}

func (r *preferenceRepository) FindAll(limit, offset int) ([]model.Preference, error) {
	logger.Debug("Finding all preferences in database", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var preferences []model.Preference
	query := r.db.Order("user_id ASC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&preferences).Error; err != nil {
		logger.Error("Failed to find all preferences in database", err)
		return nil, err
	}

	return preferences, nil
}

func (r *preferenceRepository) Update(preference *model.Preference) error {
	logger.Debug("Updating preference in database", map[string]interface{}{
		"preference_id": preference.ID,
		"user_id":       preference.UserID,
	})

	if err := r.db.Save(preference).Error; err != nil {
		logger.Error("Failed to update preference in database", err, map[string]interface{}{
			"preference_id": preference.ID,
		})
		return err
	}

	return nil
}

func (r *preferenceRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting preference from database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.Preference{}).Error; err != nil {
		logger.Error("Failed to delete preference from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	return nil
}
