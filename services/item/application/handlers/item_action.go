package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/pkg/httpx"
	appsvcs "github.com/ghuser/shoppinglist/services/item/application/services"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

type itemAction func(ctx context.Context, id uuid.UUID) (*models.Item, error)

// ItemActionHandler handles POST /items/{id}/<action>.
type ItemActionHandler struct {
	action itemAction
}

// NewIncrementHandler handles POST /items/{id}/increment.
//
//	@Summary		Increment quantity
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	ItemResult
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/items/{id}/increment [post]
func NewIncrementHandler(svc *appsvcs.Services) *ItemActionHandler {
	return &ItemActionHandler{action: svc.Controller.Increment}
}

// NewDecrementHandler handles POST /items/{id}/decrement. The last unit moves
// the item to the bought list.
//
//	@Summary		Decrement quantity
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	ItemResult
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/items/{id}/decrement [post]
func NewDecrementHandler(svc *appsvcs.Services) *ItemActionHandler {
	return &ItemActionHandler{action: svc.Controller.Decrement}
}

// NewMarkBoughtHandler handles POST /items/{id}/bought.
//
//	@Summary		Mark bought
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	ItemResult
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id}/bought [post]
func NewMarkBoughtHandler(svc *appsvcs.Services) *ItemActionHandler {
	return &ItemActionHandler{action: svc.Controller.MarkBoughtDirectly}
}

// NewReactivateHandler handles POST /items/{id}/reactivate.
//
//	@Summary		Reactivate
//	@Description	Moves a bought item back to the active list. If an active item with the same name exists it is returned and the bought one is removed.
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	ItemResult
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id}/reactivate [post]
func NewReactivateHandler(svc *appsvcs.Services) *ItemActionHandler {
	return &ItemActionHandler{action: svc.Controller.Reactivate}
}

// Execute runs the action on the item named in the path.
func (h *ItemActionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	item, err := h.action(r.Context(), id)
	warning, ok := warningFor(w, r, err)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, ItemResult{Item: NewItemResponse(item), Warning: warning})
}
