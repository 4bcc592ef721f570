package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/filters"
	"github.com/Skotchmaster/tea_shop/internal/metrics"
	"github.com/Skotchmaster/tea_shop/internal/models"
	"github.com/Skotchmaster/tea_shop/internal/mykafka"
	"github.com/Skotchmaster/tea_shop/internal/service/search"
	"github.com/Skotchmaster/tea_shop/internal/service/stock"
	"github.com/Skotchmaster/tea_shop/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key := fmt.Sprint(event["productID"])
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// syncIndex mirrors a product write into the search index, best effort.
func (h *ProductHandler) syncIndex(c echo.Context, p *models.TeaProduct, deletedID uint) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var err error
	if p != nil {
		err = search.IndexProduct(ctx, h.ES, h.ESIndex, *p)
	} else {
		err = search.RemoveProduct(ctx, h.ES, h.ESIndex, deletedID)
	}
	if err != nil {
		c.Logger().Errorf("ES index sync error: %v", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.TeaProduct{}).Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	items := make([]models.TeaProduct, 0)
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return pagedResponse(c, items, newPageMeta(page, offset, limit, total))
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.TeaProduct
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, product)
}

type productRequest struct {
	Name        *string  `json:"name"`
	CategoryID  *uint    `json:"category_id"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *uint    `json:"stock"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if req.Name == nil || *req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("name is required"))
	}
	if req.CategoryID == nil {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("category_id is required"))
	}
	if req.Price == nil {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("price is required"))
	}
	if err := validatePrice(*req.Price); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var category models.TeaCategory
	if err := h.DB.First(&category, *req.CategoryID).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("category %d does not exist", *req.CategoryID))
	}

	product := models.TeaProduct{
		Name:       *req.Name,
		CategoryID: *req.CategoryID,
		Price:      *req.Price,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.syncIndex(c, &product, 0)

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.TeaProduct
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return errorResponse(c, http.StatusBadRequest, fmt.Errorf("name must not be empty"))
		}
		product.Name = *req.Name
	}
	if req.CategoryID != nil {
		var category models.TeaCategory
		if err := h.DB.First(&category, *req.CategoryID).Error; err != nil {
			return errorResponse(c, http.StatusBadRequest, fmt.Errorf("category %d does not exist", *req.CategoryID))
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return errorResponse(c, http.StatusBadRequest, err)
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.syncIndex(c, &product, 0)

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	res := h.DB.Delete(&models.TeaProduct{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, res.Error)
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	h.syncIndex(c, nil, id)

	return c.NoContent(http.StatusNoContent)
}

// Search lists products whose name contains q, paginated.
func (h *ProductHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := filters.NameContains(h.DB, q).Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	items := make([]models.TeaProduct, 0)
	if err := filters.NameContains(h.DB, q).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return pagedResponse(c, items, newPageMeta(page, offset, limit, total))
}

// Filter serves one of the named filter endpoints.
func (h *ProductHandler) Filter(f filters.ProductFilter) echo.HandlerFunc {
	return func(c echo.Context) error {
		metrics.RecordFilterQuery(f.String())

		products, err := f.Products(h.DB)
		if err != nil {
			return errorResponse(c, http.StatusInternalServerError, err)
		}
		return c.JSON(http.StatusOK, products)
	}
}

// ReduceStock decrements a product's stock, refusing to go below zero.
func (h *ProductHandler) ReduceStock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 0 {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("quantity must not be negative"))
	}

	result, err := stock.Reduce(h.DB, id, uint(quantity))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if !result.Reduced {
		metrics.RecordStockReduction("insufficient")
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "not enough stock"})
	}

	metrics.RecordStockReduction("reduced")
	h.publish(c, map[string]any{
		"type":      "stock_reduced",
		"productID": id,
		"quantity":  quantity,
		"remaining": result.Remaining,
	})

	var product models.TeaProduct
	if err := h.DB.First(&product, id).Error; err == nil {
		h.syncIndex(c, &product, 0)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":          "stock reduced",
		"remaining_stock": result.Remaining,
	})
}
