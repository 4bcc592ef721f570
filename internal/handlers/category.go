package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
	"github.com/Skotchmaster/tea_shop/internal/util"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.TeaCategory{}).Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	items := make([]models.TeaCategory, 0)
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return pagedResponse(c, items, newPageMeta(page, offset, limit, total))
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var category models.TeaCategory
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("category %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, category)
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == nil || *req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("name is required"))
	}

	category := models.TeaCategory{Name: *req.Name}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.DB.Create(&category).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var category models.TeaCategory
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("category %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return errorResponse(c, http.StatusBadRequest, fmt.Errorf("name must not be empty"))
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.DB.Save(&category).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category together with its products, the
// ownership cascade of the data model.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var category models.TeaCategory
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("category %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.TeaProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TeaCategory{}, id).Error
	})
	if txErr != nil {
		return errorResponse(c, http.StatusInternalServerError, txErr)
	}

	return c.NoContent(http.StatusNoContent)
}
