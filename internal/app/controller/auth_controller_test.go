package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/internal/app/service"
	"github.com/scentra/scentra-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	authService := service.NewAuthService(userRepo, cartRepo, "test-secret", 15*time.Minute, 168*time.Hour)
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return authController, router, testDB
}

func TestAuthController_Register_Success(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "nose@example.com",
		Password: "secret-password",
		Name:     "Nose",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "nose@example.com", user["email"])
	// The password hash must never leak
	assert.NotContains(t, user, "password_hash")
	assert.NotEmpty(t, response["tokens"])
}

func TestAuthController_Register_ShortPassword(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "nose@example.com",
		Password: "short",
		Name:     "Nose",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "nose@example.com",
		Password: "secret-password",
		Name:     "Nose",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "AUTH_EMAIL_EXISTS", response["error"])
}

func TestAuthController_Login_Success(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)
	router.POST("/auth/login", controller.Login)

	registerBody, _ := json.Marshal(RegisterRequest{
		Email:    "nose@example.com",
		Password: "secret-password",
		Name:     "Nose",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(registerBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	loginBody, _ := json.Marshal(LoginRequest{
		Email:    "nose@example.com",
		Password: "secret-password",
	})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.NotEmpty(t, response["tokens"])
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)
	router.POST("/auth/login", controller.Login)

	registerBody, _ := json.Marshal(RegisterRequest{
		Email:    "nose@example.com",
		Password: "secret-password",
		Name:     "Nose",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(registerBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	loginBody, _ := json.Marshal(LoginRequest{
		Email:    "nose@example.com",
		Password: "wrong-password",
	})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", response["error"])
}

func TestAuthController_GetProfile(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	userRepo := repository.NewUserRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	authService := service.NewAuthService(userRepo, cartRepo, "test-secret", 15*time.Minute, 168*time.Hour)
	user, _, err := authService.Register("nose@example.com", "secret-password", "Nose")
	require.NoError(t, err)

	router.GET("/auth/me", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetProfile(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	profile := response["user"].(map[string]interface{})
	assert.Equal(t, "Nose", profile["name"])
}

func TestAuthController_ListUsers(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	for _, u := range []model.User{
		{Email: "one@example.com", PasswordHash: "hash", Name: "One", Role: model.RoleUser},
		{Email: "two@example.com", PasswordHash: "hash", Name: "Two", Role: model.RoleUser},
		{Email: "admin@example.com", PasswordHash: "hash", Name: "Admin", Role: model.RoleAdmin},
	} {
		user := u
		require.NoError(t, testDB.Create(&user).Error)
	}

	router.GET("/users", controller.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, float64(3), response["count"])

	users := response["users"].([]interface{})
	first := users[0].(map[string]interface{})
	assert.Equal(t, "one@example.com", first["email"])
	assert.NotContains(t, first, "password_hash")
}

func TestAuthController_ListUsers_Paged(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	for _, email := range []string{"one@example.com", "two@example.com", "three@example.com"} {
		user := model.User{Email: email, PasswordHash: "hash", Name: email, Role: model.RoleUser}
		require.NoError(t, testDB.Create(&user).Error)
	}

	router.GET("/users", controller.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/users?limit=2&offset=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, float64(1), response["count"])
}
