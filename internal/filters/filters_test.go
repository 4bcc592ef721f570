package filters

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/db"
	"github.com/Skotchmaster/tea_shop/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// seedCatalog creates a small catalog that exercises every branch of every
// filter. Category and product names are stored lowercase because SQLite's
// LOWER folds ASCII only.
func seedCatalog(t *testing.T, gdb *gorm.DB) map[string]models.TeaProduct {
	t.Helper()

	green := models.TeaCategory{Name: "зелёный чай"}
	black := models.TeaCategory{Name: "чёрный чай"}
	require.NoError(t, gdb.Create(&green).Error)
	require.NoError(t, gdb.Create(&black).Error)

	products := []models.TeaProduct{
		{Name: "сенча", CategoryID: green.ID, Price: 100, Stock: 10},
		{Name: "ассам", CategoryID: black.ID, Price: 250, Stock: 5},
		{Name: "premium blend", CategoryID: black.ID, Price: 30, Stock: 3},
		{Name: "classic breakfast", CategoryID: black.ID, Price: 15, Stock: 7},
		{Name: "дешёвый", CategoryID: black.ID, Price: 10, Stock: 4},
		{Name: "распродан", CategoryID: green.ID, Price: 60, Stock: 0},
		{Name: "", CategoryID: black.ID, Price: 40, Stock: 2},
	}
	byName := make(map[string]models.TeaProduct, len(products))
	for i := range products {
		require.NoError(t, gdb.Create(&products[i]).Error)
		byName[products[i].Name] = products[i]
	}
	return byName
}

func names(products []models.TeaProduct) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestComplexOne(t *testing.T) {
	gdb := newTestDB(t)
	seedCatalog(t, gdb)

	got, err := ComplexOne.Products(gdb)
	require.NoError(t, err)

	// in stock AND (price > 50 OR name contains "premium")
	require.Equal(t, []string{"сенча", "ассам", "premium blend"}, names(got))
}

func TestComplexTwo(t *testing.T) {
	gdb := newTestDB(t)
	seedCatalog(t, gdb)

	got, err := ComplexTwo.Products(gdb)
	require.NoError(t, err)

	// Every product with a non-empty name matches the first clause, so only
	// the empty-named product is excluded.
	require.Len(t, got, 6)
	for _, p := range got {
		require.NotEmpty(t, p.Name)
	}
}

func TestByPriceRange(t *testing.T) {
	gdb := newTestDB(t)
	seedCatalog(t, gdb)

	got, err := ByPriceRange.Products(gdb)
	require.NoError(t, err)

	for _, p := range got {
		require.GreaterOrEqual(t, p.Price, 20.0)
		require.LessOrEqual(t, p.Price, 200.0)
	}
	require.Equal(t, []string{"сенча", "premium blend", "распродан", ""}, names(got))
}

func TestByPriceRangeBoundsInclusive(t *testing.T) {
	gdb := newTestDB(t)
	category := models.TeaCategory{Name: "чёрный чай"}
	require.NoError(t, gdb.Create(&category).Error)
	for _, price := range []float64{19.99, 20, 200, 200.01} {
		require.NoError(t, gdb.Create(&models.TeaProduct{
			Name: "чай", CategoryID: category.ID, Price: price, Stock: 1,
		}).Error)
	}

	got, err := ByPriceRange.Products(gdb)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 20.0, got[0].Price)
	require.Equal(t, 200.0, got[1].Price)
}

func TestByStockAndCategory(t *testing.T) {
	gdb := newTestDB(t)
	seedCatalog(t, gdb)

	got, err := ByStockAndCategory.Products(gdb)
	require.NoError(t, err)

	// only in-stock products of the green category
	require.Equal(t, []string{"сенча"}, names(got))
}

func TestNotInStockOrExpensive(t *testing.T) {
	gdb := newTestDB(t)
	seedCatalog(t, gdb)

	got, err := NotInStockOrExpensive.Products(gdb)
	require.NoError(t, err)

	for _, p := range got {
		require.True(t, p.Stock == 0 || p.Price > 200)
	}
	require.Equal(t, []string{"ассам", "распродан"}, names(got))
}

func TestEmptyCatalog(t *testing.T) {
	gdb := newTestDB(t)

	for _, f := range All() {
		got, err := f.Products(gdb)
		require.NoError(t, err, f.String())
		require.NotNil(t, got, f.String())
		require.Empty(t, got, f.String())
	}
}

func TestUnknownFilter(t *testing.T) {
	gdb := newTestDB(t)

	_, err := ProductFilter("filter_nonexistent").Products(gdb)
	require.Error(t, err)
	require.Contains(t, err.Error(), "filter_nonexistent")
}

func TestOrderedByID(t *testing.T) {
	gdb := newTestDB(t)
	seedCatalog(t, gdb)

	got, err := ComplexTwo.Products(gdb)
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		require.Less(t, got[i-1].ID, got[i].ID)
	}
}

func TestNameContains(t *testing.T) {
	gdb := newTestDB(t)
	seedCatalog(t, gdb)

	var got []models.TeaProduct
	require.NoError(t, NameContains(gdb, "PREMIUM").Find(&got).Error)
	require.Len(t, got, 1)
	require.Equal(t, "premium blend", got[0].Name)

	var all []models.TeaProduct
	require.NoError(t, NameContains(gdb, "").Find(&all).Error)
	require.Len(t, all, 7)
}
