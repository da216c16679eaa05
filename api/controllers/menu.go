package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mesaqr/mesaqr-backend/api/responses"
	"github.com/mesaqr/mesaqr-backend/api/validators"
	"github.com/mesaqr/mesaqr-backend/internal/menu"
	"github.com/mesaqr/mesaqr-backend/internal/tables"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"github.com/mesaqr/mesaqr-backend/pkg/logger"
)

type menuPageResponse struct {
	TableNumber int                 `json:"table_number,omitempty"`
	IsDelivery  bool                `json:"is_delivery"`
	Categories  []menu.CategoryView `json:"categories"`
}

// DeliveryMenu serves the menu for delivery customers; no token involved.
func DeliveryMenu(menuSvc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := menuSvc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, menuPageResponse{IsDelivery: true, Categories: categories})
	}
}

// TableMenu resolves a scanned table token and serves the menu for it.
func TableMenu(menuSvc menu.Service, tableSvc tables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithTableToken(ctx, token)
		}

		resolved, err := tableSvc.Resolve(ctx, token)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		categories, err := menuSvc.Categories(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, menuPageResponse{
			TableNumber: resolved.TableNumber,
			Categories:  categories,
		})
	}
}

// AdminMenuList returns every item, including unavailable ones.
func AdminMenuList(menuSvc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := menuSvc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// AdminMenuCreate adds a menu item.
func AdminMenuCreate(menuSvc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload menu.CreateItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := menuSvc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminMenuUpdate edits a menu item partially.
func AdminMenuUpdate(menuSvc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := menuItemID(w, r, logg)
		if !ok {
			return
		}

		var payload menu.UpdateItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := menuSvc.Update(r.Context(), itemID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// AdminMenuAvailability flips an item's availability.
func AdminMenuAvailability(menuSvc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := menuItemID(w, r, logg)
		if !ok {
			return
		}

		var payload availabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := menuSvc.SetAvailability(r.Context(), itemID, *payload.Available); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": itemID, "available": *payload.Available})
	}
}

func menuItemID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uint, bool) {
	itemID, err := strconv.ParseUint(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
		return 0, false
	}
	return uint(itemID), true
}
