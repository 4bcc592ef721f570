package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
	"github.com/Skotchmaster/tea_shop/internal/util"
)

type CustomerHandler struct {
	DB *gorm.DB
}

func (h *CustomerHandler) GetCustomers(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Customer{}).Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	items := make([]models.Customer, 0)
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return pagedResponse(c, items, newPageMeta(page, offset, limit, total))
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var customer models.Customer
	if err := h.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("customer %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, customer)
}

type customerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if req.Name == nil || *req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("name is required"))
	}
	if req.Email == nil || !strings.Contains(*req.Email, "@") {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("a valid email is required"))
	}

	customer := models.Customer{
		Name:  *req.Name,
		Email: *req.Email,
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}

	if err := h.DB.Create(&customer).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) PatchCustomer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var customer models.Customer
	if err := h.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("customer %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return errorResponse(c, http.StatusBadRequest, fmt.Errorf("name must not be empty"))
		}
		customer.Name = *req.Name
	}
	if req.Email != nil {
		if !strings.Contains(*req.Email, "@") {
			return errorResponse(c, http.StatusBadRequest, fmt.Errorf("invalid email"))
		}
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}

	if err := h.DB.Save(&customer).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer together with their orders and items.
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var customer models.Customer
	if err := h.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Errorf("customer %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var orders []models.Order
		if err := tx.Where("customer_id = ?", id).Find(&orders).Error; err != nil {
			return err
		}
		for _, order := range orders {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Customer{}, id).Error
	})
	if txErr != nil {
		return errorResponse(c, http.StatusInternalServerError, txErr)
	}

	return c.NoContent(http.StatusNoContent)
}
