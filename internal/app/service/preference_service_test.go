package service

import (
	"testing"

	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPreferenceServiceTest(t *testing.T) (*gorm.DB, PreferenceService, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	svc := NewPreferenceService(repository.NewPreferenceRepository(testDB))

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return testDB, svc, user
}

func TestPreferenceService_CreatePreferences(t *testing.T) {
	testDB, svc, user := setupPreferenceServiceTest(t)
	defer db.CleanupTestDB(testDB)

	preference, err := svc.CreatePreferences(user.ID, PreferenceInput{
		FavoriteNotes:       []string{"oud", "amber"},
		PreferredCategories: []string{"woody"},
		PriceRange:          "luxury",
		SeasonalPreference:  "winter",
		ScentStrength:       model.StrengthStrong,
	})
	require.NoError(t, err)
	assert.NotZero(t, preference.ID)
	assert.Equal(t, model.PriceRangeLuxury, preference.PriceRange)
}

func TestPreferenceService_CreatePreferences_Duplicate(t *testing.T) {
	testDB, svc, user := setupPreferenceServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.CreatePreferences(user.ID, PreferenceInput{PriceRange: "mid-range"})
	require.NoError(t, err)

	_, err = svc.CreatePreferences(user.ID, PreferenceInput{PriceRange: "luxury"})
	assert.ErrorIs(t, err, ErrPreferencesAlreadyExist)
}

func TestPreferenceService_CreatePreferences_InvalidPriceRange(t *testing.T) {
	testDB, svc, user := setupPreferenceServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.CreatePreferences(user.ID, PreferenceInput{PriceRange: "expensive"})
	assert.ErrorIs(t, err, ErrInvalidPriceRange)
}

func TestPreferenceService_GetPreferences(t *testing.T) {
	testDB, svc, user := setupPreferenceServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.GetPreferences(user.ID)
	assert.ErrorIs(t, err, ErrPreferencesNotFound)

	_, err = svc.CreatePreferences(user.ID, PreferenceInput{FavoriteNotes: []string{"rose"}})
	require.NoError(t, err)

	preference, err := svc.GetPreferences(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"rose"}, preference.FavoriteNotes)
}

func TestPreferenceService_UpdatePreferences(t *testing.T) {
	testDB, svc, user := setupPreferenceServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.UpdatePreferences(user.ID, PreferenceInput{PriceRange: "luxury"})
	assert.ErrorIs(t, err, ErrPreferencesNotFound)

	_, err = svc.CreatePreferences(user.ID, PreferenceInput{
		FavoriteNotes: []string{"rose"},
		PriceRange:    "low-range",
	})
	require.NoError(t, err)

	preference, err := svc.UpdatePreferences(user.ID, PreferenceInput{
		FavoriteNotes: []string{"oud", "amber"},
		PriceRange:    "luxury",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"oud", "amber"}, preference.FavoriteNotes)
	assert.Equal(t, model.PriceRangeLuxury, preference.PriceRange)
}

func TestPreferenceService_DeletePreferences(t *testing.T) {
	testDB, svc, user := setupPreferenceServiceTest(t)
	defer db.CleanupTestDB(testDB)

	assert.ErrorIs(t, svc.DeletePreferences(user.ID), ErrPreferencesNotFound)

	_, err := svc.CreatePreferences(user.ID, PreferenceInput{PriceRange: "mid-range"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePreferences(user.ID))

	_, err = svc.GetPreferences(user.ID)
	assert.ErrorIs(t, err, ErrPreferencesNotFound)
}
