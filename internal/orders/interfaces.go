package orders

import (
	"context"
	"time"

	"github.com/mesaqr/mesaqr-backend/pkg/db/models"
	"github.com/mesaqr/mesaqr-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their lookups.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindMenuItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error)
	FindTableToken(ctx context.Context, token string) (*models.TableToken, error)
	TouchTableToken(ctx context.Context, tokenID uint, usedAt time.Time) error
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrderByID(ctx context.Context, orderID uint) (*models.Order, error)
	FindOrdersByStatus(ctx context.Context, statuses []enums.OrderStatus, sinceID uint) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status enums.OrderStatus) error
}
