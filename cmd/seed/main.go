package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/scentra/scentra-backend/config"
	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/internal/db"
	"github.com/scentra/scentra-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Seeds the catalog from an XLSX sheet and provisions the admin
// account. Column layout matches the catalog export:
// Name | Brand | Category | Notes | Price | Size (ml) | Scent Strength | Season | Stock | Description | Image URL
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	if err := seedAdmin(userRepo); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	skipped := 0
	for i := range products {
		if _, err := productRepo.FindByName(products[i].Name); err == nil {
			skipped++
			continue
		}
		if err := productRepo.Create(&products[i]); err != nil {
			log.Fatalf("Failed to create product %q: %v", products[i].Name, err)
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Imported: %d, skipped (already present): %d\n", imported, skipped)
}

func seedAdmin(userRepo repository.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Println("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		fmt.Printf("Admin account %s already exists\n", email)
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	fmt.Printf("Admin account %s created\n", email)
	return nil
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 9 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			skippedCount++
			continue
		}
		seen[name] = true

		price, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}

		sizeML, _ := strconv.Atoi(strings.TrimSpace(row[5]))
		stock, _ := strconv.Atoi(strings.TrimSpace(row[8]))

		product := model.Product{
			Name:          name,
			Brand:         strings.TrimSpace(row[1]),
			Category:      strings.TrimSpace(row[2]),
			Notes:         splitNotes(row[3]),
			Price:         price,
			SizeML:        sizeML,
			ScentStrength: model.ScentStrength(strings.TrimSpace(row[6])),
			Season:        strings.TrimSpace(row[7]),
			Stock:         stock,
		}
		if len(row) > 9 {
			product.Description = strings.TrimSpace(row[9])
		}
		if len(row) > 10 {
			product.ImageURL = strings.TrimSpace(row[10])
		}

		products = append(products, product)
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d invalid or duplicate rows\n", skippedCount)
	}

	return products, nil
}

func splitNotes(raw string) model.StringList {
	var notes model.StringList
	for _, note := range strings.Split(raw, ",") {
		note = strings.TrimSpace(note)
		if note != "" {
			notes = append(notes, note)
		}
	}
	return notes
}
