package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openbasket/marketplace/internal/authz"
	"github.com/openbasket/marketplace/internal/logging"
	"github.com/openbasket/marketplace/internal/models"
	"github.com/openbasket/marketplace/internal/notify"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrForbidden  = errors.New("forbidden")  // 403
	ErrNotFound   = errors.New("not found")  // 404
)

type Service struct {
	DB       *gorm.DB
	Notifier notify.Dispatcher
}

type CreateLine struct {
	ItemID   uint   `json:"item_id"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

type CreateRequest struct {
	ShopID          uint         `json:"shop_id"`
	Items           []CreateLine `json:"items"`
	DeliveryAddress string       `json:"delivery_address"`
	Notes           string       `json:"notes"`
}

// CreateOrder materializes an order from the request atomically: the order
// row and every line are written in one transaction, unit prices snapshotted
// from the items at this moment. Any invalid line fails the whole request.
func (s *Service) CreateOrder(ctx context.Context, userID uint, req CreateRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	seen := make(map[uint]bool, len(req.Items))
	ids := make([]uint, 0, len(req.Items))
	for _, line := range req.Items {
		if line.ItemID == 0 {
			return nil, fmt.Errorf("%w: item_id required", ErrValidation)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if !seen[line.ItemID] {
			seen[line.ItemID] = true
			ids = append(ids, line.ItemID)
		}
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.Item
		if err := tx.Where("id IN ? AND shop_id = ?", ids, req.ShopID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) != len(ids) {
			return fmt.Errorf("%w: some items are invalid or do not belong to the selected shop", ErrValidation)
		}
		byID := make(map[uint]models.Item, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}

		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			it := byID[line.ItemID]
			subtotal := it.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			lines = append(lines, models.OrderItem{
				ItemID:    it.ID,
				Quantity:  line.Quantity,
				UnitPrice: it.Price,
				Subtotal:  subtotal,
				Note:      line.Note,
			})
		}

		order = models.Order{
			UserID:          userID,
			ShopID:          req.ShopID,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			DeliveryAddress: req.DeliveryAddress,
			Notes:           req.Notes,
		}
		// the insert assigns order.ID inside the open transaction
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	return s.getDetailed(ctx, order.ID)
}

// UpdateStatus transitions an order on behalf of the shop owner. The status
// change commits first; the purchaser notification for ready/picked is
// dispatched afterwards and its failure never surfaces to the caller.
func (s *Service) UpdateStatus(ctx context.Context, orderID, actorID uint, newStatus, reason string) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	var ord models.Order
	if err := s.DB.WithContext(ctx).Preload("Shop").First(&ord, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	if !authz.CanManageOrder(actorID, &ord) {
		return nil, fmt.Errorf("%w: you are not the owner of this shop", ErrForbidden)
	}

	if !models.CanTransition(ord.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot transition order from %s to %s", ErrValidation, ord.Status, newStatus)
	}

	updates := map[string]any{"status": newStatus}
	if newStatus == models.OrderStatusCancelled {
		now := time.Now().UTC()
		updates["cancel_reason"] = reason
		updates["cancelled_at"] = &now
	}
	if err := s.DB.WithContext(ctx).Model(&ord).Updates(updates).Error; err != nil {
		return nil, err
	}

	full, err := s.getDetailed(ctx, ord.ID)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, newStatus, full)

	return full, nil
}

// ListShopOrders returns a shop's orders, newest first. Owner only.
func (s *Service) ListShopOrders(ctx context.Context, shopID, actorID uint) ([]models.Order, error) {
	var shop models.Shop
	if err := s.DB.WithContext(ctx).First(&shop, shopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: shop %d", ErrNotFound, shopID)
		}
		return nil, err
	}
	if !authz.CanManageShop(actorID, &shop) {
		return nil, fmt.Errorf("%w: you are not the owner of this shop", ErrForbidden)
	}

	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("User").
		Preload("OrderItems.Item").
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListUserOrders returns the purchaser's own orders, newest first.
func (s *Service) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Shop").
		Preload("OrderItems.Item").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Service) getDetailed(ctx context.Context, id uint) (*models.Order, error) {
	var ord models.Order
	err := s.DB.WithContext(ctx).
		Preload("User").
		Preload("Shop").
		Preload("OrderItems.Item").
		First(&ord, id).Error
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (s *Service) dispatch(ctx context.Context, status string, ord *models.Order) {
	var tmpl string
	switch status {
	case models.OrderStatusReady:
		tmpl = notify.TemplateReady
	case models.OrderStatusPicked:
		tmpl = notify.TemplatePicked
	default:
		return
	}
	if err := s.Notifier.Dispatch(ctx, tmpl, ord.User.Email, notify.PayloadFromOrder(ord)); err != nil {
		logging.FromContext(ctx).Error("notification dispatch failed",
			"order_id", ord.ID, "template", tmpl, "error", err)
	}
}
