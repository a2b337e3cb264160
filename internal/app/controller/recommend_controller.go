package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scentra/scentra-backend/internal/app/service"
	apperrors "github.com/scentra/scentra-backend/internal/errors"
	"github.com/scentra/scentra-backend/internal/middleware"
)

type RecommendController struct {
	recommendService service.RecommendService
}

func NewRecommendController(recommendService service.RecommendService) *RecommendController {
	return &RecommendController{
		recommendService: recommendService,
	}
}

// GetRecommendations returns the catalog ranked against the user's
// scent profile
// GET /api/v1/recommendations
func (ctrl *RecommendController) GetRecommendations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	recommendations, err := ctrl.recommendService.Recommend(userID, limit)
	if err != nil {
		if errors.Is(err, service.ErrPreferencesNotFound) {
			apperrors.NotFound(c, apperrors.PreferenceNotFound, "Save your preferences to get recommendations")
			return
		}
		if errors.Is(err, service.ErrEmptyCatalog) {
			apperrors.NotFound(c, apperrors.RecommendEmptyCatalog, "The catalog is empty")
			return
		}
		log.Error("Failed to generate recommendations", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}
