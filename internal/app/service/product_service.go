package service

import (
	"errors"
	"strings"

	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNameExists = errors.New("product name already exists")
)

type ProductInput struct {
	Name          string
	Brand         string
	Category      string
	Notes         []string
	Price         float64
	SizeML        int
	Description   string
	ScentStrength model.ScentStrength
	Season        string
	ImageURL      string
	Stock         int
}

type ProductService interface {
	CreateProduct(input ProductInput) (*model.Product, error)
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetAttributes() (repository.ProductAttributes, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	ExportCatalog() (*excelize.File, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":  input.Name,
		"brand": input.Brand,
	})

	existing, err := s.productRepo.FindByName(input.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Product creation failed: name already exists", map[string]interface{}{
			"name": input.Name,
		})
		return nil, ErrProductNameExists
	}

	product := &model.Product{
		Name:          input.Name,
		Brand:         input.Brand,
		Category:      input.Category,
		Notes:         model.StringList(input.Notes),
		Price:         input.Price,
		SizeML:        input.SizeML,
		Description:   input.Description,
		ScentStrength: input.ScentStrength,
		Season:        input.Season,
		ImageURL:      input.ImageURL,
		Stock:         input.Stock,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetAttributes() (repository.ProductAttributes, error) {
	return s.productRepo.ListAttributes()
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.Name != "" && input.Name != product.Name {
		existing, err := s.productRepo.FindByName(input.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrProductNameExists
		}
		product.Name = input.Name
	}
	if input.Brand != "" {
		product.Brand = input.Brand
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Notes != nil {
		product.Notes = model.StringList(input.Notes)
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.SizeML > 0 {
		product.SizeML = input.SizeML
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.ScentStrength != "" {
		product.ScentStrength = input.ScentStrength
	}
	if input.Season != "" {
		product.Season = input.Season
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	if input.Stock >= 0 {
		product.Stock = input.Stock
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	return s.productRepo.Delete(id)
}

var catalogExportHeaders = []string{
	"ID", "Name", "Brand", "Category", "Notes", "Price", "Size (ml)",
	"Scent Strength", "Season", "Stock", "Description",
}

// ExportCatalog renders the full catalog as an XLSX workbook
func (s *productService) ExportCatalog() (*excelize.File, error) {
	logger.Info("Exporting product catalog", nil)

	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Catalog"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range catalogExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, product := range products {
		values := []interface{}{
			product.ID,
			product.Name,
			product.Brand,
			product.Category,
			joinNotes(product.Notes),
			product.Price,
			product.SizeML,
			string(product.ScentStrength),
			product.Season,
			product.Stock,
			product.Description,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	logger.Info("Product catalog exported", map[string]interface{}{
		"products_count": len(products),
	})
	return f, nil
}

func joinNotes(notes model.StringList) string {
	return strings.Join(notes, ", ")
}
