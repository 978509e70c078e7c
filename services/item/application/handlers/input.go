package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/shoppinglist/pkg/httpx"
	pkgvalidator "github.com/ghuser/shoppinglist/pkg/validator"
	appsvcs "github.com/ghuser/shoppinglist/services/item/application/services"
	domainsvcs "github.com/ghuser/shoppinglist/services/item/domain/services"
)

// InputRequest is the request body for PUT /items/input.
type InputRequest struct {
	Text string `json:"text" validate:"max=1024" example:"mi"`
} // @name InputRequest

// InputResponse is the input buffer with its suggestions.
type InputResponse struct {
	Text        string   `json:"text"        example:"Mi"`
	Suggestions []string `json:"suggestions" example:"Milk,Mint"`
} // @name InputResponse

// SuggestionsResponse is returned by GET /items/suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions" example:"Milk,Mint"`
} // @name SuggestionsResponse

// PutInputHandler handles PUT /items/input.
type PutInputHandler struct {
	svc *appsvcs.Services
}

// NewPutInputHandler returns a PutInputHandler backed by the given services.
func NewPutInputHandler(svc *appsvcs.Services) *PutInputHandler {
	return &PutInputHandler{svc: svc}
}

// Execute replaces the input buffer and returns fresh suggestions.
//
//	@Summary		Update input
//	@Description	Stores the typed text with its first letter capitalized and returns up to three suggestions
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		InputRequest	true	"Typed text"
//	@Success		200		{object}	InputResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/input [put]
func (h *PutInputHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[InputRequest](w, r)
	if !ok {
		return
	}
	in := h.svc.Controller.SetInput(req.Text)
	httpx.JSON(w, http.StatusOK, InputResponse{Text: in.Text, Suggestions: in.Suggestions})
}

// GetSuggestionsHandler handles GET /items/suggestions.
type GetSuggestionsHandler struct {
	svc *appsvcs.Services
}

// NewGetSuggestionsHandler returns a GetSuggestionsHandler backed by the given services.
func NewGetSuggestionsHandler(svc *appsvcs.Services) *GetSuggestionsHandler {
	return &GetSuggestionsHandler{svc: svc}
}

// Execute suggests known names for q without touching the input buffer.
//
//	@Summary		Suggest names
//	@Tags			items
//	@Produce		json
//	@Param			q		query		string	false	"Typed prefix"
//	@Param			limit	query		int		false	"Maximum suggestions"	default(3)
//	@Success		200		{object}	SuggestionsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/items/suggestions [get]
func (h *GetSuggestionsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	limit := domainsvcs.DefaultSuggestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			httpx.JSONError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = n
	}
	suggestions := domainsvcs.Suggest(r.URL.Query().Get("q"), h.svc.Store.AllNames(), limit)
	httpx.JSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}
