package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/internal/app/service"
	"github.com/scentra/scentra-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPreferenceControllerTest(t *testing.T) (*PreferenceController, *gin.Engine, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	preferenceRepo := repository.NewPreferenceRepository(testDB)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	preferenceController := NewPreferenceController(preferenceService)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return preferenceController, router, user
}

func TestPreferenceController_CreateAndGet(t *testing.T) {
	controller, router, user := setupPreferenceControllerTest(t)

	router.POST("/preferences", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreatePreferences(c)
	})
	router.GET("/preferences", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetPreferences(c)
	})

	body, _ := json.Marshal(PreferenceRequest{
		FavoriteNotes:       []string{"oud", "amber"},
		PreferredCategories: []string{"woody"},
		PriceRange:          "luxury",
		SeasonalPreference:  "winter",
		ScentStrength:       "strong",
	})
	req := httptest.NewRequest(http.MethodPost, "/preferences", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/preferences", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	prefs := response["preferences"].(map[string]interface{})
	assert.Equal(t, "luxury", prefs["price_range"])
}

func TestPreferenceController_Create_InvalidPriceRange(t *testing.T) {
	controller, router, user := setupPreferenceControllerTest(t)

	router.POST("/preferences", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreatePreferences(c)
	})

	body, _ := json.Marshal(PreferenceRequest{
		FavoriteNotes: []string{"oud"},
		PriceRange:    "expensive",
	})
	req := httptest.NewRequest(http.MethodPost, "/preferences", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "PREFERENCE_INVALID_PRICE_RANGE", response["error"])
}

func TestPreferenceController_Create_Twice(t *testing.T) {
	controller, router, user := setupPreferenceControllerTest(t)

	router.POST("/preferences", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreatePreferences(c)
	})

	body, _ := json.Marshal(PreferenceRequest{FavoriteNotes: []string{"oud"}})

	req := httptest.NewRequest(http.MethodPost, "/preferences", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/preferences", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPreferenceController_Delete_NotFound(t *testing.T) {
	controller, router, user := setupPreferenceControllerTest(t)

	router.DELETE("/preferences", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.DeletePreferences(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/preferences", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreferenceController_AdminListAll(t *testing.T) {
	controller, router, user := setupPreferenceControllerTest(t)

	router.POST("/preferences", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreatePreferences(c)
	})
	router.GET("/preferences/users", controller.ListAllPreferences)

	body, _ := json.Marshal(PreferenceRequest{FavoriteNotes: []string{"oud"}})
	req := httptest.NewRequest(http.MethodPost, "/preferences", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/preferences/users", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, float64(1), response["count"])
}

func TestPreferenceController_AdminGetAndDeleteForUser(t *testing.T) {
	controller, router, user := setupPreferenceControllerTest(t)

	router.POST("/preferences", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreatePreferences(c)
	})
	router.GET("/preferences/users/:user_id", controller.GetUserPreferences)
	router.DELETE("/preferences/users/:user_id", controller.DeleteUserPreferences)

	body, _ := json.Marshal(PreferenceRequest{
		FavoriteNotes: []string{"oud"},
		PriceRange:    "luxury",
	})
	req := httptest.NewRequest(http.MethodPost, "/preferences", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	target := fmt.Sprintf("/preferences/users/%d", user.ID)

	req = httptest.NewRequest(http.MethodGet, target, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	prefs := response["preferences"].(map[string]interface{})
	assert.Equal(t, "luxury", prefs["price_range"])

	req = httptest.NewRequest(http.MethodDelete, target, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, target, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreferenceController_AdminUpdateForUser(t *testing.T) {
	controller, router, user := setupPreferenceControllerTest(t)

	router.POST("/preferences", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreatePreferences(c)
	})
	router.PUT("/preferences/users/:user_id", controller.UpdateUserPreferences)

	body, _ := json.Marshal(PreferenceRequest{
		FavoriteNotes: []string{"oud"},
		PriceRange:    "luxury",
	})
	req := httptest.NewRequest(http.MethodPost, "/preferences", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	update, _ := json.Marshal(PreferenceRequest{PriceRange: "mid-range"})
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/preferences/users/%d", user.ID), bytes.NewBuffer(update))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	prefs := response["preferences"].(map[string]interface{})
	assert.Equal(t, "mid-range", prefs["price_range"])
	// Untouched fields survive a partial update
	notes := prefs["favorite_notes"].([]interface{})
	assert.Equal(t, "oud", notes[0])
}

func TestPreferenceController_AdminGetForUser_NotFound(t *testing.T) {
	controller, router, _ := setupPreferenceControllerTest(t)

	router.GET("/preferences/users/:user_id", controller.GetUserPreferences)

	req := httptest.NewRequest(http.MethodGet, "/preferences/users/4242", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
