package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mesaqr/mesaqr-backend/api/responses"
	"github.com/mesaqr/mesaqr-backend/api/validators"
	cartsvc "github.com/mesaqr/mesaqr-backend/internal/cart"
	"github.com/mesaqr/mesaqr-backend/internal/orders"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"github.com/mesaqr/mesaqr-backend/pkg/logger"
)

// orderOutcome is the order-submission wire envelope. Application rejections
// (inactive table, unavailable item, empty cart) travel as success:false with
// a 200; transport and infrastructure failures keep non-2xx statuses.
type orderOutcome struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	OrderID     uint   `json:"order_id,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

type orderLinePayload struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type createOrderRequest struct {
	Items      []orderLinePayload `json:"items" validate:"required,dive"`
	IsDelivery bool               `json:"is_delivery"`
	Token      *string            `json:"token"`
}

// CreateOrder places an order from an explicit wire body.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			writeOrderRejection(r.Context(), logg, w, err)
			return
		}

		req := cartsvc.OrderRequest{
			Items:      make([]cartsvc.OrderLine, 0, len(payload.Items)),
			IsDelivery: payload.IsDelivery,
			Token:      payload.Token,
		}
		for _, line := range payload.Items {
			req.Items = append(req.Items, cartsvc.OrderLine{ID: line.ID, Quantity: line.Quantity})
		}

		placed, err := svc.Place(r.Context(), req)
		if err != nil {
			writeOrderRejection(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, orderOutcome{
			Success:     true,
			OrderID:     placed.OrderID,
			RedirectURL: placed.RedirectURL,
			Message:     placed.Message,
		})
	}
}

type submitCartRequest struct {
	Path string `json:"path" validate:"required"`
}

// SubmitCart places the session's server-held cart as an order. The page path
// decides whether the order belongs to a table token or to delivery.
func SubmitCart(checkout *cartsvc.Checkout, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var payload submitCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			writeOrderRejection(r.Context(), logg, w, err)
			return
		}

		result, err := checkout.Submit(r.Context(), sessionID, payload.Path)
		if err != nil {
			writeOrderRejection(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, orderOutcome{
			Success:     true,
			OrderID:     result.OrderID,
			RedirectURL: result.RedirectURL,
			Message:     result.Message,
		})
	}
}

// OrderConfirmation serves the confirmation page data for a placed order.
func OrderConfirmation(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		view, err := svc.GetConfirmation(r.Context(), uint(orderID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func writeOrderRejection(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeValidation, pkgerrors.CodeForbidden, pkgerrors.CodeNotFound, pkgerrors.CodeStateConflict:
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "reason", typed.Message()), "order.rejected")
			}
			responses.WriteJSON(w, http.StatusOK, orderOutcome{Success: false, Error: typed.Message()})
			return
		}
	}
	responses.WriteError(ctx, logg, w, err)
}
