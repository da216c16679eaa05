package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mesaqr/mesaqr-backend/api/responses"
	"github.com/mesaqr/mesaqr-backend/api/validators"
	"github.com/mesaqr/mesaqr-backend/internal/tables"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"github.com/mesaqr/mesaqr-backend/pkg/logger"
)

// AdminTableMint creates a table token for QR printing.
func AdminTableMint(svc tables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload tables.MintInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		minted, err := svc.Mint(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, minted)
	}
}

// AdminTableList lists every token with its state.
func AdminTableList(svc tables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokens, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tokens)
	}
}

type tableActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AdminTableSetActive activates or deactivates a token.
func AdminTableSetActive(svc tables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenID, err := strconv.ParseUint(chi.URLParam(r, "tokenId"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid token id"))
			return
		}

		var payload tableActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetActive(r.Context(), uint(tokenID), *payload.Active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": tokenID, "active": *payload.Active})
	}
}
