package repository

import (
	"testing"

	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	return testDB, NewProductRepository(testDB)
}

func seedCatalog(t *testing.T, repo ProductRepository) {
	products := []model.Product{
		{Name: "Midnight Oud", Brand: "Maison Noire", Category: "woody", Notes: model.StringList{"oud", "amber", "vanilla"}, Price: 220, SizeML: 100, ScentStrength: model.StrengthStrong, Season: "winter", Stock: 10},
		{Name: "Citrus Dawn", Brand: "Aqua Lumen", Category: "citrus", Notes: model.StringList{"bergamot", "lemon", "neroli"}, Price: 45, SizeML: 50, ScentStrength: model.StrengthLight, Season: "summer", Stock: 25},
		{Name: "Rose Atelier", Brand: "Maison Noire", Category: "floral", Notes: model.StringList{"rose", "peony", "musk"}, Price: 120, SizeML: 75, ScentStrength: model.StrengthModerate, Season: "spring", Stock: 8},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name:          "Midnight Oud",
		Brand:         "Maison Noire",
		Category:      "woody",
		Notes:         model.StringList{"oud", "amber"},
		Price:         220,
		SizeML:        100,
		ScentStrength: model.StrengthStrong,
		Season:        "winter",
		Stock:         10,
	}

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestProductRepository_Create_DuplicateName(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	first := &model.Product{Name: "Midnight Oud", Brand: "Maison Noire", Category: "woody", Price: 220, SizeML: 100}
	require.NoError(t, repo.Create(first))

	dup := &model.Product{Name: "Midnight Oud", Brand: "Other House", Category: "woody", Price: 180, SizeML: 50}
	err := repo.Create(dup)
	assert.Error(t, err)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Citrus Dawn", Brand: "Aqua Lumen", Category: "citrus", Notes: model.StringList{"bergamot", "lemon"}, Price: 45, SizeML: 50}
	require.NoError(t, repo.Create(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
	assert.Equal(t, "Citrus Dawn", found.Name)
	assert.Equal(t, model.StringList{"bergamot", "lemon"}, found.Notes)
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	found, err := repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, found)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	seedCatalog(t, repo)

	t.Run("Filter by category", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{Category: "woody"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Midnight Oud", products[0].Name)
	})

	t.Run("Filter by brand", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{Brand: "Maison Noire"})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("Filter by price range", func(t *testing.T) {
		minPrice := 50.0
		maxPrice := 150.0
		products, err := repo.FindWithFilter(ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Rose Atelier", products[0].Name)
	})

	t.Run("Search by name", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{Search: "Citrus"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Citrus Dawn", products[0].Name)
	})

	t.Run("Sort by price ascending", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{SortBy: ProductSortPrice, SortAscending: true})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Citrus Dawn", products[0].Name)
		assert.Equal(t, "Midnight Oud", products[2].Name)
	})

	t.Run("Limit and offset", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{SortBy: ProductSortName, SortAscending: true, Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})
}

func TestProductRepository_ListAttributes(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	seedCatalog(t, repo)

	attrs, err := repo.ListAttributes()
	require.NoError(t, err)
	assert.Equal(t, []string{"citrus", "floral", "woody"}, attrs.Categories)
	assert.Equal(t, []string{"Aqua Lumen", "Maison Noire"}, attrs.Brands)
}

func TestProductRepository_Update(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Rose Atelier", Brand: "Maison Noire", Category: "floral", Price: 120, SizeML: 75}
	require.NoError(t, repo.Create(product))

	product.Price = 135
	product.Notes = model.StringList{"rose", "musk"}
	require.NoError(t, repo.Update(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 135.0, found.Price)
	assert.Equal(t, model.StringList{"rose", "musk"}, found.Notes)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Citrus Dawn", Brand: "Aqua Lumen", Category: "citrus", Price: 45, SizeML: 50}
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_Count(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	seedCatalog(t, repo)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
