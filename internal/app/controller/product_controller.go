package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/internal/app/service"
	apperrors "github.com/scentra/scentra-backend/internal/errors"
	"github.com/scentra/scentra-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Brand         string   `json:"brand" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	Notes         []string `json:"notes"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	SizeML        int      `json:"size_ml" binding:"required,gt=0"`
	Description   string   `json:"description"`
	ScentStrength string   `json:"scent_strength"`
	Season        string   `json:"season"`
	ImageURL      string   `json:"image_url"`
	Stock         int      `json:"stock"`
}

type ProductUpdateRequest struct {
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category"`
	Notes         []string `json:"notes"`
	Price         float64  `json:"price"`
	SizeML        int      `json:"size_ml"`
	Description   string   `json:"description"`
	ScentStrength string   `json:"scent_strength"`
	Season        string   `json:"season"`
	ImageURL      string   `json:"image_url"`
	Stock         int      `json:"stock"`
}

// ListProducts returns the catalog with optional filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Season:   c.Query("season"),
		Search:   c.Query("search"),
		SortBy:   repository.ProductSort(c.Query("sort_by")),
	}

	if v := c.Query("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "min_price must be a number")
			return
		}
		filter.MinPrice = &price
	}
	if v := c.Query("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "max_price must be a number")
			return
		}
		filter.MaxPrice = &price
	}
	filter.SortAscending = c.Query("order") == "asc"
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProductByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetAttributes returns the distinct categories and brands in the catalog
// GET /api/v1/products/attributes
func (ctrl *ProductController) GetAttributes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	attrs, err := ctrl.productService.GetAttributes()
	if err != nil {
		log.Error("Failed to list product attributes", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": attrs.Categories,
		"brands":     attrs.Brands,
	})
}

// CreateProduct adds a product to the catalog (admin)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product, err := ctrl.productService.CreateProduct(service.ProductInput{
		Name:          req.Name,
		Brand:         req.Brand,
		Category:      req.Category,
		Notes:         req.Notes,
		Price:         req.Price,
		SizeML:        req.SizeML,
		Description:   req.Description,
		ScentStrength: model.ScentStrength(req.ScentStrength),
		Season:        req.Season,
		ImageURL:      req.ImageURL,
		Stock:         req.Stock,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNameExists) {
			apperrors.Conflict(c, apperrors.ProductNameExists, "A product with this name already exists")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct modifies a product (admin)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product, err := ctrl.productService.UpdateProduct(uint(id), service.ProductInput{
		Name:          req.Name,
		Brand:         req.Brand,
		Category:      req.Category,
		Notes:         req.Notes,
		Price:         req.Price,
		SizeML:        req.SizeML,
		Description:   req.Description,
		ScentStrength: model.ScentStrength(req.ScentStrength),
		Season:        req.Season,
		ImageURL:      req.ImageURL,
		Stock:         req.Stock,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrProductNameExists) {
			apperrors.Conflict(c, apperrors.ProductNameExists, "A product with this name already exists")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product (admin)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ExportCatalog streams the catalog as an XLSX download (admin)
// GET /api/v1/products/export
func (ctrl *ProductController) ExportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	f, err := ctrl.productService.ExportCatalog()
	if err != nil {
		log.Error("Failed to export catalog", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	filename := fmt.Sprintf("catalog_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream catalog export", err, nil)
	}
}
