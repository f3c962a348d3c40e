package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/openbasket/marketplace/internal/authz"
	"github.com/openbasket/marketplace/internal/models"
)

type ShopHandler struct {
	DB *gorm.DB
}

func (h *ShopHandler) CreateShop(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Address     string `json:"address"`
		Phone       string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	shop := models.Shop{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		IsActive:    true,
	}
	if err := h.DB.Create(&shop).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, shop)
}

func (h *ShopHandler) GetShops(c echo.Context) error {
	var shops []models.Shop
	if err := h.DB.Where("is_active = ?", true).Find(&shops).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, shops)
}

func (h *ShopHandler) GetMyShops(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var shops []models.Shop
	if err := h.DB.Where("owner_id = ?", userID).Find(&shops).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, shops)
}

// DeleteShop removes a shop and everything under it in one transaction:
// order items of the shop's orders, the orders, the items, then the shop.
func (h *ShopHandler) DeleteShop(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	shopID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var shop models.Shop
	if err := h.DB.First(&shop, shopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "shop not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !authz.CanManageShop(userID, &shop) {
		return echo.NewHTTPError(http.StatusForbidden, "you are not the owner of this shop")
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("shop_id = ?", shopID).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("shop_id = ?", shopID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", shopID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Shop{}, shopID).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.NoContent(http.StatusNoContent)
}
