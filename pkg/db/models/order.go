package models

import (
	"time"

	"github.com/mesaqr/mesaqr-backend/pkg/enums"
)

// Order is a submitted table or delivery order.
type Order struct {
	ID          uint              `gorm:"column:id;primaryKey;autoIncrement"`
	TableNumber int               `gorm:"column:table_number;not null;default:0"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Total       int64             `gorm:"column:total;not null"`
	IsDelivery  bool              `gorm:"column:is_delivery;not null;default:false"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one menu line within an order.
type OrderItem struct {
	ID         uint     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID    uint     `gorm:"column:order_id;not null;index"`
	MenuItemID uint     `gorm:"column:menu_item_id;not null"`
	Quantity   int      `gorm:"column:quantity;not null"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID"`
}

func (OrderItem) TableName() string { return "order_items" }
