package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/pkg/errhttp"
	"github.com/ghuser/shoppinglist/pkg/httpx"
	"github.com/ghuser/shoppinglist/pkg/telemetry"
	appsvcs "github.com/ghuser/shoppinglist/services/item/application/services"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

// PersistenceWarning is returned alongside the new state when it could not be saved.
const PersistenceWarning = "change applied but not saved; it will be lost on restart"

// ItemResponse is the wire form of an item.
type ItemResponse struct {
	ID        uuid.UUID  `json:"id"                  example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string     `json:"name"                example:"Milk"`
	Quantity  int        `json:"quantity"            example:"2"`
	Bought    bool       `json:"bought"              example:"false"`
	BoughtAt  *time.Time `json:"bought_at,omitempty" example:"2024-01-15T10:30:00Z"`
	CreatedAt time.Time  `json:"created_at"          example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// ItemResult wraps a single item after an action.
type ItemResult struct {
	Item    *ItemResponse `json:"item"`
	Warning string        `json:"warning,omitempty"`
} // @name ItemResult

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

// ChangeMessage is pushed to stream clients after every item mutation.
type ChangeMessage struct {
	Kind string        `json:"kind" example:"updated"`
	Item *ItemResponse `json:"item"`
} // @name ChangeMessage

// NewItemResponse converts a domain item. It returns nil for nil.
func NewItemResponse(it *models.Item) *ItemResponse {
	if it == nil {
		return nil
	}
	resp := &ItemResponse{
		ID:        it.ID,
		Name:      it.Name.String(),
		Quantity:  it.Quantity,
		Bought:    it.Bought,
		CreatedAt: it.CreatedAt,
	}
	if it.Bought && !it.BoughtAt.IsZero() {
		at := it.BoughtAt
		resp.BoughtAt = &at
	}
	return resp
}

func newItemResponses(items []*models.Item) []*ItemResponse {
	out := make([]*ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewItemResponse(it)
	}
	return out
}

// NewChangeMessage converts a store change for the websocket feed.
func NewChangeMessage(c appsvcs.Change) ChangeMessage {
	return ChangeMessage{Kind: string(c.Kind), Item: NewItemResponse(c.Item)}
}

// warningFor returns the warning to attach for err, or ok=false after writing
// an error response for anything other than a persistence failure.
func warningFor(w http.ResponseWriter, r *http.Request, err error) (warning string, ok bool) {
	if err == nil {
		return "", true
	}
	if errhttp.IsPersistence(err) {
		telemetry.ReportError(r.Context(), err)
		return PersistenceWarning, true
	}
	errhttp.WriteError(w, err)
	return "", false
}

func itemIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid item id")
		return uuid.Nil, false
	}
	return id, true
}
