package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
	"github.com/vaashuyko/wishlist-api/internal/auth"
	"github.com/vaashuyko/wishlist-api/internal/models"
	"github.com/vaashuyko/wishlist-api/internal/services"
)

// WishHandler handles HTTP requests for the owner-scoped wish resource.
// Every route is behind the auth middleware; the owner id always comes from
// the resolved identity on the context.
type WishHandler struct {
	service services.WishServiceProvider
}

// NewWishHandler creates a new WishHandler.
func NewWishHandler(service services.WishServiceProvider) *WishHandler {
	return &WishHandler{service: service}
}

// Create handles POST /wishes.
func (h *WishHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		apierr.WriteHTTP(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var payload models.WishCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Write(w, apierr.Validation("invalid request body"))
		return
	}

	wish, err := h.service.CreateWish(user.ID, payload)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create wish")
		return
	}

	writeJSON(w, http.StatusCreated, wish)
}

// List handles GET /wishes with pagination and the price_lt filter.
func (h *WishHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		apierr.WriteHTTP(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()

	limit := 10
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierr.Write(w, apierr.Validation("limit must be an integer"))
			return
		}
		limit = n
	}

	offset := 0
	if raw := query.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierr.Write(w, apierr.Validation("offset must be an integer"))
			return
		}
		offset = n
	}

	var priceLT *decimal.Decimal
	if raw := query.Get("price_lt"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			apierr.Write(w, apierr.Validation("price_lt must be a decimal number"))
			return
		}
		priceLT = &d
	}

	list, err := h.service.ListWishes(user.ID, limit, offset, priceLT)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list wishes")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /wishes/{id}.
func (h *WishHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		apierr.WriteHTTP(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	wishID, err := wishIDParam(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	wish, err := h.service.GetWish(user.ID, wishID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get wish")
		return
	}

	writeJSON(w, http.StatusOK, wish)
}

// Update handles PUT /wishes/{id}. The body is a sparse patch: only fields
// present in the JSON are applied.
func (h *WishHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		apierr.WriteHTTP(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	wishID, err := wishIDParam(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	var patch models.WishPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apierr.Write(w, apierr.Validation("invalid request body"))
		return
	}

	wish, err := h.service.UpdateWish(user.ID, wishID, patch)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update wish")
		return
	}

	writeJSON(w, http.StatusOK, wish)
}

// Delete handles DELETE /wishes/{id}.
func (h *WishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		apierr.WriteHTTP(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	wishID, err := wishIDParam(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	if err := h.service.DeleteWish(user.ID, wishID); err != nil {
		h.writeServiceError(w, err, "Failed to delete wish")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func wishIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apierr.Validation("wish id must be an integer")
	}
	return id, nil
}

// writeServiceError renders domain errors as-is and logs only unexpected
// (persistence-level) failures.
func (h *WishHandler) writeServiceError(w http.ResponseWriter, err error, msg string) {
	if apierr.From(err) == nil {
		log.Error().Err(err).Msg(msg)
	}
	apierr.Write(w, err)
}
