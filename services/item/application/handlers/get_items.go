package handlers

import (
	"net/http"

	"github.com/ghuser/shoppinglist/pkg/httpx"
	appsvcs "github.com/ghuser/shoppinglist/services/item/application/services"
)

// ListResponse is the active list and the recently bought list.
type ListResponse struct {
	Active []*ItemResponse `json:"active"`
	Bought []*ItemResponse `json:"bought"`
} // @name ListResponse

// GetItemsHandler handles GET /items.
type GetItemsHandler struct {
	svc *appsvcs.Services
}

// NewGetItemsHandler returns a GetItemsHandler backed by the given services.
func NewGetItemsHandler(svc *appsvcs.Services) *GetItemsHandler {
	return &GetItemsHandler{svc: svc}
}

// Execute returns both lists.
//
//	@Summary		List items
//	@Description	Active items in creation order and recently bought items, most recent first
//	@Tags			items
//	@Produce		json
//	@Success		200	{object}	ListResponse
//	@Router			/items [get]
func (h *GetItemsHandler) Execute(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, ListResponse{
		Active: newItemResponses(h.svc.Store.ActiveItems()),
		Bought: newItemResponses(h.svc.Store.BoughtItems(h.svc.BoughtLimit)),
	})
}
