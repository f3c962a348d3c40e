package handlers

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openbasket/marketplace/internal/authz"
	"github.com/openbasket/marketplace/internal/models"
	"github.com/openbasket/marketplace/internal/service/search"
)

type ItemHandler struct {
	DB      *gorm.DB
	ES      *elasticsearch.Client
	ESIndex string
}

// itemRequest uses pointers so updates distinguish "field absent" from an
// explicit zero value (stock back to 0, description cleared).
type itemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"is_available"`
	StockCount  *int             `json:"stock_count"`
	Category    *string          `json:"category"`
}

func (h *ItemHandler) AddItem(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	shopID, err := parseIDParam(c, "shopID")
	if err != nil {
		return err
	}

	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == nil || *req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Price == nil || !req.Price.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be > 0")
	}
	if req.StockCount != nil && *req.StockCount < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "stock_count must be >= 0")
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

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	stock := 0
	if req.StockCount != nil {
		stock = *req.StockCount
	}
	description, category := "", ""
	if req.Description != nil {
		description = *req.Description
	}
	if req.Category != nil {
		category = *req.Category
	}

	item := models.Item{
		ShopID:      shopID,
		Name:        *req.Name,
		Description: description,
		Price:       *req.Price,
		IsAvailable: available,
		StockCount:  stock,
		Category:    category,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.index(c, item)

	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var item models.Item
	if err := h.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var shop models.Shop
	if err := h.DB.First(&shop, item.ShopID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !authz.CanManageShop(userID, &shop) {
		return echo.NewHTTPError(http.StatusForbidden, "you are not the owner of this shop")
	}

	// every explicitly-provided field applies, including zero values
	if req.Name != nil {
		if *req.Name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "name cannot be empty")
		}
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return echo.NewHTTPError(http.StatusBadRequest, "price must be > 0")
		}
		item.Price = *req.Price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.StockCount != nil {
		if *req.StockCount < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "stock_count must be >= 0")
		}
		item.StockCount = *req.StockCount
	}
	if req.Category != nil {
		item.Category = *req.Category
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.index(c, item)

	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var item models.Item
	if err := h.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var shop models.Shop
	if err := h.DB.First(&shop, item.ShopID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !authz.CanManageShop(userID, &shop) {
		return echo.NewHTTPError(http.StatusForbidden, "you are not the owner of this shop")
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if h.ES != nil {
		if err := search.RemoveItem(c.Request().Context(), h.ES, h.ESIndex, item.ID); err != nil {
			c.Logger().Errorf("search deindex error: %v", err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ItemHandler) GetShopItems(c echo.Context) error {
	shopID, err := parseIDParam(c, "shopID")
	if err != nil {
		return err
	}

	var items []models.Item
	if err := h.DB.Where("shop_id = ?", shopID).Order("id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

// index mirrors the item into the search index. Search is optional and
// best-effort: indexing failures are logged, never returned.
func (h *ItemHandler) index(c echo.Context, item models.Item) {
	if h.ES == nil {
		return
	}
	if err := search.IndexItem(c.Request().Context(), h.ES, h.ESIndex, item); err != nil {
		c.Logger().Errorf("search index error: %v", err)
	}
}
