package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
	"github.com/vaashuyko/wishlist-api/internal/services"
)

// ItemHandler handles the unauthenticated demo item endpoints.
type ItemHandler struct {
	service services.ItemServiceProvider
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service services.ItemServiceProvider) *ItemHandler {
	return &ItemHandler{service: service}
}

// Create handles POST /items?name=...
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.CreateItem(r.URL.Query().Get("name"))
	if err != nil {
		if apierr.From(err) == nil {
			log.Error().Err(err).Msg("Failed to create item")
		}
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Get handles GET /items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		apierr.Write(w, apierr.Validation("item id must be an integer"))
		return
	}

	item, err := h.service.GetItemByID(id)
	if err != nil {
		if apierr.From(err) == nil {
			log.Error().Err(err).Msg("Failed to get item")
		}
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
