package handlers

import (
	"net/http"

	"github.com/ghuser/shoppinglist/pkg/httpx"
	appsvcs "github.com/ghuser/shoppinglist/services/item/application/services"
)

// DedupeResponse reports how many duplicates were removed.
type DedupeResponse struct {
	Removed int    `json:"removed" example:"2"`
	Warning string `json:"warning,omitempty"`
} // @name DedupeResponse

// PostDedupeHandler handles POST /items/dedupe.
type PostDedupeHandler struct {
	svc *appsvcs.Services
}

// NewPostDedupeHandler returns a PostDedupeHandler backed by the given services.
func NewPostDedupeHandler(svc *appsvcs.Services) *PostDedupeHandler {
	return &PostDedupeHandler{svc: svc}
}

// Execute removes items whose names repeat an earlier item.
//
//	@Summary		Remove duplicates
//	@Description	Keeps the first item created for each name and deletes the rest
//	@Tags			items
//	@Produce		json
//	@Success		200	{object}	DedupeResponse
//	@Router			/items/dedupe [post]
func (h *PostDedupeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.Store.RemoveDuplicates(r.Context())
	warning, ok := warningFor(w, r, err)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, DedupeResponse{Removed: removed, Warning: warning})
}
