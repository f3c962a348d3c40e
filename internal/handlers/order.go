package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openbasket/marketplace/internal/logging"
	"github.com/openbasket/marketplace/internal/service/order"
)

type OrderHandler struct {
	Svc *order.Service
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req order.CreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ord, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return serviceError(err)
	}

	l.Info("create_order_success", "order_id", ord.ID, "total", ord.TotalAmount)
	return c.JSON(http.StatusCreated, ord)
}

func (h *OrderHandler) GetShopOrders(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	shopID, err := parseIDParam(c, "shopID")
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListShopOrders(c.Request().Context(), shopID, userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ord, err := h.Svc.UpdateStatus(ctx, orderID, userID, req.Status, req.Reason)
	if err != nil {
		l.Warn("update_status_error", "order_id", orderID, "error", err)
		return serviceError(err)
	}

	l.Info("update_status_success", "order_id", ord.ID, "new_status", ord.Status)
	return c.JSON(http.StatusOK, ord)
}
