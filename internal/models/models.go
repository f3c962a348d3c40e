package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleNormal    = "normal"
	RoleShopOwner = "shop_owner"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `gorm:"not null;default:normal"  json:"role"`
	IsActive     bool      `gorm:"default:true"             json:"is_active"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Shop struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint      `gorm:"index;not null"           json:"owner_id"`
	Name        string    `gorm:"not null;index"           json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	IsActive    bool      `gorm:"default:true"             json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Item struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	ShopID      uint            `gorm:"index;not null"              json:"shop_id"`
	Name        string          `gorm:"not null;index"              json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"default:true"                json:"is_available"`
	StockCount  int             `gorm:"default:0"                   json:"stock_count"`
	Category    string          `gorm:"index"                       json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"      json:"id"`
	UserID          uint            `gorm:"index;not null"                json:"user_id"`
	ShopID          uint            `gorm:"index;not null"                json:"shop_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"   json:"total_amount"`
	Status          string          `gorm:"not null;default:pending;index" json:"status"`
	DeliveryAddress string          `json:"delivery_address"`
	Notes           string          `json:"notes"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `gorm:"index"                         json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	User       User        `json:"user"`
	Shop       Shop        `json:"shop"`
	OrderItems []OrderItem `gorm:"constraint:OnDelete:CASCADE"            json:"order_items"`
}

// OrderItem records a snapshot of the item's price at order time.
// UnitPrice and Subtotal never change after creation, even if the
// referenced Item is repriced.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ItemID    uint            `gorm:"not null"                    json:"item_id"`
	Quantity  int             `gorm:"not null;check:quantity>0"   json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	Item Item `json:"item"`
}
