package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrEmptyCatalog = errors.New("catalog is empty")

// Scoring weights. Note overlap dominates, price bucket and brand
// matter more than seasonal fit.
const (
	noteMatchWeight     = 2.0
	categoryMatchWeight = 1.5
	priceMatchWeight    = 1.0
	brandMatchWeight    = 1.0
	seasonMatchWeight   = 0.5
	strengthMatchWeight = 0.5

	defaultRecommendLimit = 5
)

// Recommendation is a scored catalog product
type Recommendation struct {
	Product model.Product `json:"product"`
	Score   float64       `json:"score"`
}

type RecommendService interface {
	Recommend(userID uint, limit int) ([]Recommendation, error)
}

type recommendService struct {
	preferenceRepo repository.PreferenceRepository
	productRepo    repository.ProductRepository
}

func NewRecommendService(
	preferenceRepo repository.PreferenceRepository,
	productRepo repository.ProductRepository,
) RecommendService {
	return &recommendService{
		preferenceRepo: preferenceRepo,
		productRepo:    productRepo,
	}
}

// Recommend scores the whole catalog against the user's preference
// profile and returns the top matches, highest score first. Ties
// resolve to the lower product ID so results are stable.
func (s *recommendService) Recommend(userID uint, limit int) ([]Recommendation, error) {
	logger.Info("Generating recommendations", map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
	})

	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	preference, err := s.preferenceRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot recommend without preferences", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrPreferencesNotFound
		}
		return nil, err
	}

	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to load catalog for recommendations", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	recommendations := make([]Recommendation, 0, len(products))
	for _, product := range products {
		recommendations = append(recommendations, Recommendation{
			Product: product,
			Score:   scoreProduct(product, preference),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].Product.ID < recommendations[j].Product.ID
	})

	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}

	logger.Info("Recommendations generated", map[string]interface{}{
		"user_id": userID,
		"count":   len(recommendations),
	})
	return recommendations, nil
}

func scoreProduct(product model.Product, preference *model.Preference) float64 {
	var score float64

	score += noteMatchWeight * float64(countOverlap(product.Notes, preference.FavoriteNotes))

	if containsFold(preference.PreferredCategories, product.Category) {
		score += categoryMatchWeight
	}

	if preference.PriceRange != "" && priceBucket(product.Price) == preference.PriceRange {
		score += priceMatchWeight
	}

	if containsFold(preference.PreferredBrands, product.Brand) {
		score += brandMatchWeight
	}

	if preference.SeasonalPreference != "" && strings.EqualFold(product.Season, preference.SeasonalPreference) {
		score += seasonMatchWeight
	}

	if preference.ScentStrength != "" && product.ScentStrength == preference.ScentStrength {
		score += strengthMatchWeight
	}

	return score
}

// priceBucket maps a unit price onto the preference buckets
func priceBucket(price float64) model.PriceRange {
	switch {
	case price < 50:
		return model.PriceRangeLow
	case price < 150:
		return model.PriceRangeMid
	default:
		return model.PriceRangeLuxury
	}
}

func countOverlap(a, b model.StringList) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[strings.ToLower(s)] = true
	}
	count := 0
	for _, s := range a {
		if set[strings.ToLower(s)] {
			count++
		}
	}
	return count
}

func containsFold(list model.StringList, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
