package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/service"
	apperrors "github.com/scentra/scentra-backend/internal/errors"
	"github.com/scentra/scentra-backend/internal/middleware"
)

type PreferenceController struct {
	preferenceService service.PreferenceService
}

func NewPreferenceController(preferenceService service.PreferenceService) *PreferenceController {
	return &PreferenceController{
		preferenceService: preferenceService,
	}
}

type PreferenceRequest struct {
	FavoriteNotes       []string `json:"favorite_notes"`
	PreferredCategories []string `json:"preferred_categories"`
	PreferredBrands     []string `json:"preferred_brands"`
	PriceRange          string   `json:"price_range"`
	SeasonalPreference  string   `json:"seasonal_preference"`
	ScentStrength       string   `json:"scent_strength"`
}

func (r PreferenceRequest) toInput() service.PreferenceInput {
	return service.PreferenceInput{
		FavoriteNotes:       r.FavoriteNotes,
		PreferredCategories: r.PreferredCategories,
		PreferredBrands:     r.PreferredBrands,
		PriceRange:          r.PriceRange,
		SeasonalPreference:  r.SeasonalPreference,
		ScentStrength:       model.ScentStrength(r.ScentStrength),
	}
}

// CreatePreferences saves the user's scent profile
// POST /api/v1/preferences
func (ctrl *PreferenceController) CreatePreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	preference, err := ctrl.preferenceService.CreatePreferences(userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrPreferencesAlreadyExist) {
			apperrors.Conflict(c, apperrors.PreferenceAlreadyExists, "Preferences already exist, use update instead")
			return
		}
		if errors.Is(err, service.ErrInvalidPriceRange) {
			apperrors.BadRequest(c, apperrors.PreferenceInvalidBucket, "price_range must be low-range, mid-range or luxury")
			return
		}
		log.Error("Failed to create preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"preferences": preference})
}

// GetPreferences returns the user's scent profile
// GET /api/v1/preferences
func (ctrl *PreferenceController) GetPreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	preference, err := ctrl.preferenceService.GetPreferences(userID)
	if err != nil {
		if errors.Is(err, service.ErrPreferencesNotFound) {
			apperrors.NotFound(c, apperrors.PreferenceNotFound, "No preferences saved yet")
			return
		}
		log.Error("Failed to fetch preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": preference})
}

// UpdatePreferences changes the user's scent profile
// PUT /api/v1/preferences
func (ctrl *PreferenceController) UpdatePreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	preference, err := ctrl.preferenceService.UpdatePreferences(userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrPreferencesNotFound) {
			apperrors.NotFound(c, apperrors.PreferenceNotFound, "No preferences saved yet")
			return
		}
		if errors.Is(err, service.ErrInvalidPriceRange) {
			apperrors.BadRequest(c, apperrors.PreferenceInvalidBucket, "price_range must be low-range, mid-range or luxury")
			return
		}
		log.Error("Failed to update preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": preference})
}

// DeletePreferences removes the user's scent profile
// DELETE /api/v1/preferences
func (ctrl *PreferenceController) DeletePreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.preferenceService.DeletePreferences(userID); err != nil {
		if errors.Is(err, service.ErrPreferencesNotFound) {
			apperrors.NotFound(c, apperrors.PreferenceNotFound, "No preferences saved yet")
			return
		}
		log.Error("Failed to delete preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preferences deleted"})
}

// ListAllPreferences pages through every user's scent profile (admin)
// GET /api/v1/preferences/users
func (ctrl *PreferenceController) ListAllPreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	preferences, err := ctrl.preferenceService.ListPreferences(limit, offset)
	if err != nil {
		log.Error("Failed to list preferences", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences": preferences,
		"count":       len(preferences),
	})
}

// GetUserPreferences returns one user's scent profile (admin)
// GET /api/v1/preferences/users/:user_id
func (ctrl *PreferenceController) GetUserPreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	preference, err := ctrl.preferenceService.GetPreferences(uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrPreferencesNotFound) {
			apperrors.NotFound(c, apperrors.PreferenceNotFound, "No preferences saved for this user")
			return
		}
		log.Error("Failed to fetch user preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": preference})
}

// UpdateUserPreferences changes one user's scent profile (admin)
// PUT /api/v1/preferences/users/:user_id
func (ctrl *PreferenceController) UpdateUserPreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	preference, err := ctrl.preferenceService.UpdatePreferences(uint(userID), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrPreferencesNotFound) {
			apperrors.NotFound(c, apperrors.PreferenceNotFound, "No preferences saved for this user")
			return
		}
		if errors.Is(err, service.ErrInvalidPriceRange) {
			apperrors.BadRequest(c, apperrors.PreferenceInvalidBucket, "price_range must be low-range, mid-range or luxury")
			return
		}
		log.Error("Failed to update user preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": preference})
}

// DeleteUserPreferences removes one user's scent profile (admin)
// DELETE /api/v1/preferences/users/:user_id
func (ctrl *PreferenceController) DeleteUserPreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	if err := ctrl.preferenceService.DeletePreferences(uint(userID)); err != nil {
		if errors.Is(err, service.ErrPreferencesNotFound) {
			apperrors.NotFound(c, apperrors.PreferenceNotFound, "No preferences saved for this user")
			return
		}
		log.Error("Failed to delete user preferences", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preferences deleted"})
}
