package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mesaqr/mesaqr-backend/api/responses"
	"github.com/mesaqr/mesaqr-backend/api/validators"
	"github.com/mesaqr/mesaqr-backend/internal/kitchen"
	"github.com/mesaqr/mesaqr-backend/pkg/enums"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"github.com/mesaqr/mesaqr-backend/pkg/logger"
)

// KitchenBoard serves one dashboard poll. The since_id query keeps repeat
// polls incremental.
func KitchenBoard(svc kitchen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sinceID := uint64(0)
		if raw := r.URL.Query().Get("since_id"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid since_id"))
				return
			}
			sinceID = parsed
		}

		board, err := svc.Pending(r.Context(), uint(sinceID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}

type advanceOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// KitchenAdvance moves an order along the workflow.
func KitchenAdvance(svc kitchen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload advanceOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Advance(r.Context(), uint(orderID), enums.OrderStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}
