package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/openbasket/marketplace/internal/models"
)

func TestAddItem(t *testing.T) {
	db := initTestDB(t)
	owner, shop := seedShopWithOrders(t, db)

	h := &ItemHandler{DB: db}
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/items/1/add", map[string]any{
		"name":        "green tea",
		"price":       "4.50",
		"stock_count": 12,
		"category":    "grocery",
	})
	c.SetParamNames("shopID")
	c.SetParamValues("1")
	c.Set("userID", owner.ID)
	c.Set("role", models.RoleShopOwner)

	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, shop.ID, resp.ShopID)
	require.True(t, resp.Price.Equal(decimal.RequireFromString("4.50")))
	require.True(t, resp.IsAvailable)
}

func TestAddItemRejectsNonPositivePrice(t *testing.T) {
	db := initTestDB(t)
	owner, _ := seedShopWithOrders(t, db)

	h := &ItemHandler{DB: db}
	e := echo.New()

	_, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/items/1/add", map[string]any{
		"name":  "free stuff",
		"price": "0",
	})
	c.SetParamNames("shopID")
	c.SetParamValues("1")
	c.Set("userID", owner.ID)
	c.Set("role", models.RoleShopOwner)

	err := h.AddItem(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestAddItemForbiddenForNonOwner(t *testing.T) {
	db := initTestDB(t)
	seedShopWithOrders(t, db)

	stranger := models.User{Email: "other@example.com", Username: "other", PasswordHash: "x", Role: models.RoleShopOwner, IsActive: true}
	require.NoError(t, db.Create(&stranger).Error)

	h := &ItemHandler{DB: db}
	e := echo.New()

	_, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/items/1/add", map[string]any{
		"name":  "green tea",
		"price": "4.50",
	})
	c.SetParamNames("shopID")
	c.SetParamValues("1")
	c.Set("userID", stranger.ID)
	c.Set("role", models.RoleShopOwner)

	err := h.AddItem(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestUpdateItemCanSetStockToZero(t *testing.T) {
	db := initTestDB(t)
	owner, shop := seedShopWithOrders(t, db)

	require.NoError(t, db.Model(&models.Item{}).
		Where("shop_id = ?", shop.ID).
		Update("stock_count", 5).Error)

	h := &ItemHandler{DB: db}
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPut, "/api/v1/items/1", map[string]any{
		"stock_count": 0,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("userID", owner.ID)
	c.Set("role", models.RoleShopOwner)

	require.NoError(t, h.UpdateItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.Item
	require.NoError(t, db.Where("shop_id = ?", shop.ID).First(&item).Error)
	require.Zero(t, item.StockCount)
}

func TestUpdateItemAppliesExplicitZeroValues(t *testing.T) {
	db := initTestDB(t)
	owner, shop := seedShopWithOrders(t, db)

	require.NoError(t, db.Model(&models.Item{}).
		Where("shop_id = ?", shop.ID).
		Updates(map[string]any{"description": "tasty", "category": "grocery"}).Error)

	h := &ItemHandler{DB: db}
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPut, "/api/v1/items/1", map[string]any{
		"description": "",
		"category":    "",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("userID", owner.ID)
	c.Set("role", models.RoleShopOwner)

	require.NoError(t, h.UpdateItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.Item
	require.NoError(t, db.Where("shop_id = ?", shop.ID).First(&item).Error)
	require.Empty(t, item.Description)
	require.Empty(t, item.Category)
	// untouched fields keep their values
	require.Equal(t, "coffee beans", item.Name)
	require.True(t, item.Price.Equal(decimal.RequireFromString("10.00")))
}

func TestUpdateItemOmittedFieldsUnchanged(t *testing.T) {
	db := initTestDB(t)
	owner, shop := seedShopWithOrders(t, db)

	require.NoError(t, db.Model(&models.Item{}).
		Where("shop_id = ?", shop.ID).
		Update("stock_count", 5).Error)

	h := &ItemHandler{DB: db}
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPut, "/api/v1/items/1", map[string]any{
		"name": "dark roast",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("userID", owner.ID)
	c.Set("role", models.RoleShopOwner)

	require.NoError(t, h.UpdateItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.Item
	require.NoError(t, db.Where("shop_id = ?", shop.ID).First(&item).Error)
	require.Equal(t, "dark roast", item.Name)
	require.Equal(t, 5, item.StockCount)
}

func TestUpdateItemPriceDoesNotTouchExistingOrderLines(t *testing.T) {
	db := initTestDB(t)
	owner, shop := seedShopWithOrders(t, db)

	var item models.Item
	require.NoError(t, db.Where("shop_id = ?", shop.ID).First(&item).Error)

	h := &ItemHandler{DB: db}
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPut, "/api/v1/items/1", map[string]any{
		"price": "99.99",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("userID", owner.ID)
	c.Set("role", models.RoleShopOwner)

	require.NoError(t, h.UpdateItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var line models.OrderItem
	require.NoError(t, db.Where("item_id = ?", item.ID).First(&line).Error)
	require.True(t, line.UnitPrice.Equal(decimal.RequireFromString("10.00")))
}
