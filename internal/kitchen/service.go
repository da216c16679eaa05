package kitchen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesaqr/mesaqr-backend/internal/orders"
	"github.com/mesaqr/mesaqr-backend/pkg/db/models"
	"github.com/mesaqr/mesaqr-backend/pkg/enums"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"gorm.io/gorm"
)

// TicketLine is one item on a kitchen ticket.
type TicketLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Ticket is one order as the kitchen dashboard shows it.
type Ticket struct {
	OrderID     uint              `json:"order_id"`
	TableNumber int               `json:"table_number"`
	IsDelivery  bool              `json:"is_delivery"`
	Status      enums.OrderStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Lines       []TicketLine      `json:"lines"`
}

// Board is one poll result. LastID feeds the next incremental poll.
type Board struct {
	Tickets []Ticket `json:"tickets"`
	LastID  uint     `json:"last_id"`
}

// Service backs the polling kitchen dashboard.
type Service interface {
	Pending(ctx context.Context, sinceID uint) (*Board, error)
	Advance(ctx context.Context, orderID uint, next enums.OrderStatus) (*Ticket, error)
}

type service struct {
	repo orders.Repository
}

// NewService builds the kitchen service over the orders repository.
func NewService(repo orders.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

var boardStatuses = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusPreparing,
	enums.OrderStatusReady,
}

// Pending returns in-flight orders newer than sinceID. Passing the previous
// LastID keeps repeat polls incremental; zero returns the whole board.
func (s *service) Pending(ctx context.Context, sinceID uint) (*Board, error) {
	found, err := s.repo.FindOrdersByStatus(ctx, boardStatuses, sinceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load kitchen board")
	}

	board := &Board{Tickets: make([]Ticket, 0, len(found)), LastID: sinceID}
	for _, order := range found {
		if order.ID > board.LastID {
			board.LastID = order.ID
		}
		board.Tickets = append(board.Tickets, toTicket(&order))
	}
	return board, nil
}

// Advance moves an order along the kitchen workflow. Transitions outside
// pending -> preparing -> ready -> delivered (or a cancel from the first two)
// are rejected without touching the order.
func (s *service) Advance(ctx context.Context, orderID uint, next enums.OrderStatus) (*Ticket, error) {
	if orderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !next.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.Status = next
	ticket := toTicket(order)
	return &ticket, nil
}

func toTicket(order *models.Order) Ticket {
	ticket := Ticket{
		OrderID:     order.ID,
		TableNumber: order.TableNumber,
		IsDelivery:  order.IsDelivery,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		Lines:       make([]TicketLine, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		ticket.Lines = append(ticket.Lines, TicketLine{
			Name:     item.MenuItem.Name,
			Quantity: item.Quantity,
		})
	}
	return ticket
}
