package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mesaqr/mesaqr-backend/internal/cart"
	"github.com/mesaqr/mesaqr-backend/pkg/db/models"
	"github.com/mesaqr/mesaqr-backend/pkg/enums"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service creates orders from submitted carts and serves their confirmations.
// It satisfies the cart checkout's placement contract.
type Service interface {
	Place(ctx context.Context, req cart.OrderRequest) (*cart.PlacementResult, error)
	GetConfirmation(ctx context.Context, orderID uint) (*ConfirmationView, error)
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds the order placement service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

// Place validates the request against the menu and the table token, computes
// the total from stored prices, and persists the order atomically. Client-sent
// quantities are trusted only after revalidation; prices never come from the
// client at all.
func (s *service) Place(ctx context.Context, req cart.OrderRequest) (*cart.PlacementResult, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	ids := make([]uint, 0, len(req.Items))
	quantityByID := make(map[uint]int, len(req.Items))
	for _, line := range req.Items {
		id, err := strconv.ParseUint(line.ID, 10, 64)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id").
				WithDetails(map[string]string{"id": line.ID})
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if _, dup := quantityByID[uint(id)]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item in order")
		}
		ids = append(ids, uint(id))
		quantityByID[uint(id)] = line.Quantity
	}

	if !req.IsDelivery && (req.Token == nil || *req.Token == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table token required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.now()

		tableNumber := 0
		if !req.IsDelivery {
			token, err := repo.FindTableToken(ctx, *req.Token)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeForbidden, "Mesa inactiva")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load table token")
			}
			if !token.ValidAt(now) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "Mesa inactiva")
			}
			if err := repo.TouchTableToken(ctx, token.ID, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch table token")
			}
			tableNumber = token.TableNumber
		}

		menuItems, err := repo.FindMenuItemsByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu items")
		}
		itemByID := make(map[uint]models.MenuItem, len(menuItems))
		for _, item := range menuItems {
			itemByID[item.ID] = item
		}

		order := &models.Order{
			TableNumber: tableNumber,
			Status:      enums.OrderStatusPending,
			IsDelivery:  req.IsDelivery,
		}
		for _, id := range ids {
			item, found := itemByID[id]
			if !found {
				return pkgerrors.New(pkgerrors.CodeValidation, "menu item not found").
					WithDetails(map[string]uint{"id": id})
			}
			if !item.Available {
				return pkgerrors.New(pkgerrors.CodeValidation, "menu item not available").
					WithDetails(map[string]string{"name": item.Name})
			}
			quantity := quantityByID[id]
			order.Total += item.Price * int64(quantity)
			order.Items = append(order.Items, models.OrderItem{
				MenuItemID: id,
				Quantity:   quantity,
			})
		}

		created, err = repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &cart.PlacementResult{
		OrderID:     created.ID,
		RedirectURL: fmt.Sprintf("/order/confirmation/%d", created.ID),
		Message:     "Pedido creado",
	}, nil
}

// GetConfirmation loads the submitted order as a confirmation read model.
func (s *service) GetConfirmation(ctx context.Context, orderID uint) (*ConfirmationView, error) {
	if orderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	return buildConfirmation(order), nil
}

func buildConfirmation(order *models.Order) *ConfirmationView {
	view := &ConfirmationView{
		OrderID:      order.ID,
		TableNumber:  order.TableNumber,
		IsDelivery:   order.IsDelivery,
		Status:       order.Status,
		Total:        order.Total,
		TotalDisplay: cart.FormatAmount(order.Total),
		CreatedAt:    order.CreatedAt,
		Lines:        make([]ConfirmationLine, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		subtotal := item.MenuItem.Price * int64(item.Quantity)
		view.Lines = append(view.Lines, ConfirmationLine{
			Name:            item.MenuItem.Name,
			Quantity:        item.Quantity,
			UnitPrice:       item.MenuItem.Price,
			Subtotal:        subtotal,
			SubtotalDisplay: cart.FormatAmount(subtotal),
		})
	}
	return view
}
