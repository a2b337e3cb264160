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
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*ProductController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	productService := service.NewProductService(productRepo)
	productController := NewProductController(productService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return productController, router, testDB
}

func seedControllerCatalog(t *testing.T, testDB *gorm.DB) {
	t.Helper()
	products := []model.Product{
		{
			Name:     "Midnight Oud",
			Brand:    "Maison Noir",
			Category: "woody",
			Notes:    model.StringList{"oud", "amber"},
			Price:    189.99,
			SizeML:   50,
			Season:   "winter",
			Stock:    10,
		},
		{
			Name:     "Citrus Dawn",
			Brand:    "Atelier Sud",
			Category: "citrus",
			Notes:    model.StringList{"bergamot", "neroli"},
			Price:    79.50,
			SizeML:   100,
			Season:   "summer",
			Stock:    25,
		},
	}
	for i := range products {
		require.NoError(t, testDB.Create(&products[i]).Error)
	}
}

func TestProductController_ListProducts(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)
	seedControllerCatalog(t, testDB)

	router.GET("/products", controller.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, float64(2), response["count"])
}

func TestProductController_ListProducts_FilterByCategory(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)
	seedControllerCatalog(t, testDB)

	router.GET("/products", controller.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/products?category=citrus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, float64(1), response["count"])

	products := response["products"].([]interface{})
	first := products[0].(map[string]interface{})
	assert.Equal(t, "Citrus Dawn", first["name"])
}

func TestProductController_ListProducts_InvalidPriceRange(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.GET("/products", controller.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/products?min_price=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION_INVALID_RANGE", response["error"])
}

func TestProductController_GetProduct_NotFound(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.GET("/products/:id", controller.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/products/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_GetAttributes(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)
	seedControllerCatalog(t, testDB)

	router.GET("/products/attributes", controller.GetAttributes)

	req := httptest.NewRequest(http.MethodGet, "/products/attributes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Len(t, response["categories"], 2)
	assert.Len(t, response["brands"], 2)
}

func TestProductController_CreateProduct_Success(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.POST("/products", controller.CreateProduct)

	body, _ := json.Marshal(ProductRequest{
		Name:     "Rose Atelier",
		Brand:    "Fleur & Cie",
		Category: "floral",
		Notes:    []string{"rose", "peony"},
		Price:    120.00,
		SizeML:   75,
		Season:   "spring",
		Stock:    5,
	})
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	product := response["product"].(map[string]interface{})
	assert.Equal(t, "Rose Atelier", product["name"])
}

func TestProductController_CreateProduct_DuplicateName(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)
	seedControllerCatalog(t, testDB)

	router.POST("/products", controller.CreateProduct)

	body, _ := json.Marshal(ProductRequest{
		Name:     "Midnight Oud",
		Brand:    "Other House",
		Category: "woody",
		Price:    99.00,
		SizeML:   50,
	})
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "PRODUCT_NAME_EXISTS", response["error"])
}

func TestProductController_DeleteProduct(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)
	seedControllerCatalog(t, testDB)

	var product model.Product
	require.NoError(t, testDB.Where("name = ?", "Citrus Dawn").First(&product).Error)

	router.DELETE("/products/:id", controller.DeleteProduct)
	router.GET("/products/:id", controller.GetProduct)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_ExportCatalog(t *testing.T) {
	controller, router, testDB := setupProductControllerTest(t)
	seedControllerCatalog(t, testDB)

	router.GET("/products/export", controller.ExportCatalog)

	req := httptest.NewRequest(http.MethodGet, "/products/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "catalog_")
	assert.NotZero(t, w.Body.Len())
}
