package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tea_shop/internal/models"
)

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"name": "зелёный чай", "description": "лёгкий"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/categories", body)
	require.NoError(t, env.Categories.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.TeaCategory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "зелёный чай", resp.Name)
	require.Equal(t, "лёгкий", resp.Description)
	require.NotZero(t, resp.ID)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []map[string]any{
		{"description": "без имени"},
		{"name": ""},
	} {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/categories", body)
		require.NoError(t, env.Categories.CreateCategory(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.createCategory("зелёный чай")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/categories", map[string]any{"name": "зелёный чай"})
	require.NoError(t, env.Categories.CreateCategory(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCategoriesPaginated(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 6; i++ {
		env.createCategory(fmt.Sprintf("категория %d", i+1))
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/categories", nil)
	require.NoError(t, env.Categories.GetCategories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.TeaCategory `json:"data"`
		Meta struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 5)
	require.Equal(t, int64(6), resp.Meta.Total)
	require.True(t, resp.Meta.HasNext)
}

func TestPatchCategory(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory("зелёный чай")

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/categories/1", map[string]any{"description": "обновлено"})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(category.ID))
	require.NoError(t, env.Categories.PatchCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.TeaCategory
	require.NoError(t, env.DB.First(&stored, category.ID).Error)
	require.Equal(t, "зелёный чай", stored.Name)
	require.Equal(t, "обновлено", stored.Description)
}

func TestPatchCategoryRejectsEmptyName(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory("зелёный чай")

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/categories/1", map[string]any{"name": ""})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(category.ID))
	require.NoError(t, env.Categories.PatchCategory(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCategoryCascadesProducts(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory("зелёный чай")
	other := env.createCategory("чёрный чай")
	env.createProduct("сенча", category.ID, 100, 10)
	env.createProduct("ганпаудер", category.ID, 120, 5)
	kept := env.createProduct("ассам", other.ID, 150, 8)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/categories/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(category.ID))
	require.NoError(t, env.Categories.DeleteCategory(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var products []models.TeaProduct
	require.NoError(t, env.DB.Find(&products).Error)
	require.Len(t, products, 1)
	require.Equal(t, kept.ID, products[0].ID)

	var count int64
	require.NoError(t, env.DB.Model(&models.TeaCategory{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestGetCategoryNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/categories/99", nil)
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, env.Categories.GetCategory(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
