package service

import (
	"errors"

	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPreferencesNotFound     = errors.New("preferences not found")
	ErrPreferencesAlreadyExist = errors.New("preferences already exist")
	ErrInvalidPriceRange       = errors.New("invalid price range")
)

type PreferenceInput struct {
	FavoriteNotes       []string
	PreferredCategories []string
	PreferredBrands     []string
	PriceRange          string
	SeasonalPreference  string
	ScentStrength       model.ScentStrength
}

type PreferenceService interface {
	CreatePreferences(userID uint, input PreferenceInput) (*model.Preference, error)
	GetPreferences(userID uint) (*model.Preference, error)
	UpdatePreferences(userID uint, input PreferenceInput) (*model.Preference, error)
	DeletePreferences(userID uint) error
	ListPreferences(limit, offset int) ([]model.Preference, error)
}

type preferenceService struct {
	preferenceRepo repository.PreferenceRepository
}

func NewPreferenceService(preferenceRepo repository.PreferenceRepository) PreferenceService {
	return &preferenceService{preferenceRepo: preferenceRepo}
}

func (s *preferenceService) CreatePreferences(userID uint, input PreferenceInput) (*model.Preference, error) {
	logger.Info("Creating preferences", map[string]interface{}{
		"user_id": userID,
	})

	if input.PriceRange != "" && !model.ValidPriceRange(input.PriceRange) {
		return nil, ErrInvalidPriceRange
	}

	existing, err := s.preferenceRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Preferences already exist for user", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrPreferencesAlreadyExist
	}

	preference := &model.Preference{
		UserID:              userID,
		FavoriteNotes:       model.StringList(input.FavoriteNotes),
		PreferredCategories: model.StringList(input.PreferredCategories),
		PreferredBrands:     model.StringList(input.PreferredBrands),
		PriceRange:          model.PriceRange(input.PriceRange),
		SeasonalPreference:  input.SeasonalPreference,
		ScentStrength:       input.ScentStrength,
	}

	if err := s.preferenceRepo.Create(preference); err != nil {
		return nil, err
	}

	logger.Info("Preferences created successfully", map[string]interface{}{
		"user_id":       userID,
		"preference_id": preference.ID,
	})
	return preference, nil
}

func (s *preferenceService) GetPreferences(userID uint) (*model.Preference, error) {
	preference, err := s.preferenceRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPreferencesNotFound
		}
		logger.Error("Failed to get preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return preference, nil
}

func (s *preferenceService) UpdatePreferences(userID uint, input PreferenceInput) (*model.Preference, error) {
	logger.Info("Updating preferences", map[string]interface{}{
		"user_id": userID,
	})

	if input.PriceRange != "" && !model.ValidPriceRange(input.PriceRange) {
		return nil, ErrInvalidPriceRange
	}

	preference, err := s.preferenceRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPreferencesNotFound
		}
		return nil, err
	}

	if input.FavoriteNotes != nil {
		preference.FavoriteNotes = model.StringList(input.FavoriteNotes)
	}
	if input.PreferredCategories != nil {
		preference.PreferredCategories = model.StringList(input.PreferredCategories)
	}
	if input.PreferredBrands != nil {
		preference.PreferredBrands = model.StringList(input.PreferredBrands)
	}
	if input.PriceRange != "" {
		preference.PriceRange = model.PriceRange(input.PriceRange)
	}
	if input.SeasonalPreference != "" {
		preference.SeasonalPreference = input.SeasonalPreference
	}
	if input.ScentStrength != "" {
		preference.ScentStrength = input.ScentStrength
	}

	if err := s.preferenceRepo.Update(preference); err != nil {
		return nil, err
	}

	return preference, nil
}

// ListPreferences pages through every saved profile, for back-office
// review.
func (s *preferenceService) ListPreferences(limit, offset int) ([]model.Preference, error) {
	preferences, err := s.preferenceRepo.FindAll(limit, offset)
	if err != nil {
		logger.Error("Failed to list preferences", err, map[string]interface{}{
			"limit":  limit,
			"offset": offset,
		})
		return nil, err
	}
	return preferences, nil
}

func (s *preferenceService) DeletePreferences(userID uint) error {
	logger.Info("Deleting preferences", map[string]interface{}{
		"user_id": userID,
	})

	if _, err := s.preferenceRepo.FindByUserID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPreferencesNotFound
		}
		return err
	}

	return s.preferenceRepo.DeleteByUserID(userID)
}
