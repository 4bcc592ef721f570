package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
	"github.com/Skotchmaster/tea_shop/internal/mykafka"
	"github.com/Skotchmaster/tea_shop/internal/service/stock"
	"github.com/Skotchmaster/tea_shop/internal/util"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key := fmt.Sprint(event["orderID"])
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Order{}).Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	items := make([]models.Order, 0)
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return pagedResponse(c, items, newPageMeta(page, offset, limit, total))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("order %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, order)
}

type orderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type orderRequest struct {
	CustomerID uint               `json:"customer_id"`
	Items      []orderItemRequest `json:"items"`
}

// CreateOrder places an order in one transaction: unit prices are
// snapshotted, the total computed, and stock conditionally decremented per
// item. Any insufficiency fails the whole order.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if len(req.Items) == 0 {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("order has no items"))
	}
	for _, item := range req.Items {
		if item.Quantity == 0 {
			return errorResponse(c, http.StatusBadRequest, fmt.Errorf("item quantity must be positive"))
		}
	}

	var customer models.Customer
	if err := h.DB.First(&customer, req.CustomerID).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("customer %d does not exist", req.CustomerID))
	}

	var order models.Order

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			var product models.TeaProduct
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest,
						fmt.Sprintf("product %d does not exist", item.ProductID))
				}
				return err
			}

			result, err := stock.Reduce(tx, product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !result.Reduced {
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("not enough stock for %s", product.Name))
			}

			total += float64(item.Quantity) * product.Price
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		order = models.Order{
			CustomerID: req.CustomerID,
			TotalPrice: total,
			Status:     models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return errorResponse(c, http.StatusInternalServerError, txErr)
	}

	h.publish(c, map[string]any{
		"type":       "order_created",
		"orderID":    order.ID,
		"customerID": order.CustomerID,
		"total":      order.TotalPrice,
	})

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if !models.ValidOrderStatus(req.Status) {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("unknown order status %q", req.Status))
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("order %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order together with its items.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("order %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if txErr != nil {
		return errorResponse(c, http.StatusInternalServerError, txErr)
	}

	return c.NoContent(http.StatusNoContent)
}
