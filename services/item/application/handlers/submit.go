package handlers

import (
	"net/http"

	"github.com/ghuser/shoppinglist/pkg/httpx"
	pkgvalidator "github.com/ghuser/shoppinglist/pkg/validator"
	appsvcs "github.com/ghuser/shoppinglist/services/item/application/services"
)

// SubmitRequest is the request body for POST /items/submit.
// An empty text submits the current input buffer.
type SubmitRequest struct {
	Text string `json:"text" validate:"max=1024" example:"milk"`
} // @name SubmitRequest

// SelectSuggestionRequest is the request body for POST /items/suggestions/select.
type SelectSuggestionRequest struct {
	Name string `json:"name" validate:"required,max=255" example:"Milk"`
} // @name SelectSuggestionRequest

// SubmitResponse reports what a submit did.
type SubmitResponse struct {
	Outcome string        `json:"outcome"           example:"created" enums:"ignored,created,reactivated,already_active"`
	Item    *ItemResponse `json:"item,omitempty"`
	Warning string        `json:"warning,omitempty"`
} // @name SubmitResponse

// PostSubmitHandler handles POST /items/submit.
type PostSubmitHandler struct {
	svc *appsvcs.Services
}

// NewPostSubmitHandler returns a PostSubmitHandler backed by the given services.
func NewPostSubmitHandler(svc *appsvcs.Services) *PostSubmitHandler {
	return &PostSubmitHandler{svc: svc}
}

// Execute adds the text to the list.
//
//	@Summary		Submit input
//	@Description	Reactivates a bought item with the same name, leaves an active one alone, or creates a new item. Clears the input buffer.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SubmitRequest	true	"Text to add; empty submits the buffer"
//	@Success		200		{object}	SubmitResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/submit [post]
func (h *PostSubmitHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SubmitRequest](w, r)
	if !ok {
		return
	}

	var (
		res appsvcs.SubmitResult
		err error
	)
	if req.Text == "" {
		res, err = h.svc.Controller.SubmitBuffer(r.Context())
	} else {
		res, err = h.svc.Controller.Submit(r.Context(), req.Text)
	}
	writeSubmit(w, r, res, err)
}

// PostSelectSuggestionHandler handles POST /items/suggestions/select.
type PostSelectSuggestionHandler struct {
	svc *appsvcs.Services
}

// NewPostSelectSuggestionHandler returns a PostSelectSuggestionHandler backed by the given services.
func NewPostSelectSuggestionHandler(svc *appsvcs.Services) *PostSelectSuggestionHandler {
	return &PostSelectSuggestionHandler{svc: svc}
}

// Execute submits a tapped suggestion.
//
//	@Summary		Select suggestion
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SelectSuggestionRequest	true	"Suggested name"
//	@Success		200		{object}	SubmitResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/suggestions/select [post]
func (h *PostSelectSuggestionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SelectSuggestionRequest](w, r)
	if !ok {
		return
	}
	res, err := h.svc.Controller.SelectSuggestion(r.Context(), req.Name)
	writeSubmit(w, r, res, err)
}

func writeSubmit(w http.ResponseWriter, r *http.Request, res appsvcs.SubmitResult, err error) {
	warning, ok := warningFor(w, r, err)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, SubmitResponse{
		Outcome: string(res.Outcome),
		Item:    NewItemResponse(res.Item),
		Warning: warning,
	})
}
