// Package authz keeps ownership checks in one place so handlers and
// services never compare owner ids inline.
package authz

import "github.com/openbasket/marketplace/internal/models"

// CanManageShop reports whether the acting user owns the shop.
func CanManageShop(userID uint, shop *models.Shop) bool {
	return shop != nil && shop.OwnerID == userID
}

// CanManageOrder reports whether the acting user owns the shop the
// order was placed against. The order's Shop must be loaded.
func CanManageOrder(userID uint, order *models.Order) bool {
	if order == nil {
		return false
	}
	return CanManageShop(userID, &order.Shop)
}
