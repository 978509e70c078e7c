package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ghuser/shoppinglist/pkg/errhttp"
	"github.com/ghuser/shoppinglist/pkg/httpx"
	"github.com/ghuser/shoppinglist/pkg/telemetry"
	pkgvalidator "github.com/ghuser/shoppinglist/pkg/validator"
	appsvcs "github.com/ghuser/shoppinglist/services/settings/application/services"
	"github.com/ghuser/shoppinglist/services/settings/domain/models"
)

// PersistenceWarning is returned alongside the new settings when they could not be saved.
const PersistenceWarning = "change applied but not saved; it will be lost on restart"

// SettingsResponse is the wire form of the settings record. The image itself
// is served by GET /settings/background-image.
type SettingsResponse struct {
	ThemeMode          string    `json:"theme_mode"           example:"system" enums:"system,light,dark"`
	BackgroundColor    string    `json:"background_color"     example:"#F5E4B5"`
	HasBackgroundImage bool      `json:"has_background_image" example:"false"`
	ElementOpacity     float64   `json:"element_opacity"      example:"0.7"`
	UpdatedAt          time.Time `json:"updated_at"           example:"2024-01-15T10:30:00Z"`
	Warning            string    `json:"warning,omitempty"`
} // @name SettingsResponse

// PatchSettingsRequest is the request body for PATCH /settings. Omitted fields are unchanged.
type PatchSettingsRequest struct {
	ThemeMode       *string  `json:"theme_mode"       validate:"omitempty,oneof=system light dark" example:"dark"`
	BackgroundColor *string  `json:"background_color" validate:"omitempty,hexcolor"                example:"#F5E4B5"`
	ElementOpacity  *float64 `json:"element_opacity"  validate:"omitempty,gte=0,lte=1"             example:"0.7"`
} // @name PatchSettingsRequest

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid settings input"`
} // @name ErrorResponse

func newSettingsResponse(s *models.Settings, warning string) SettingsResponse {
	return SettingsResponse{
		ThemeMode:          string(s.ThemeMode),
		BackgroundColor:    s.BackgroundColor,
		HasBackgroundImage: s.HasBackgroundImage(),
		ElementOpacity:     s.ElementOpacity,
		UpdatedAt:          s.UpdatedAt,
		Warning:            warning,
	}
}

// writeSettings answers with s, downgrading persistence failures to a warning.
func writeSettings(w http.ResponseWriter, r *http.Request, s *models.Settings, err error) {
	warning := ""
	if err != nil {
		if !errhttp.IsPersistence(err) || s == nil {
			errhttp.WriteError(w, err)
			return
		}
		telemetry.ReportError(r.Context(), err)
		warning = PersistenceWarning
	}
	httpx.JSON(w, http.StatusOK, newSettingsResponse(s, warning))
}

// GetSettingsHandler handles GET /settings.
type GetSettingsHandler struct {
	svc *appsvcs.Services
}

// NewGetSettingsHandler returns a GetSettingsHandler backed by the given services.
func NewGetSettingsHandler(svc *appsvcs.Services) *GetSettingsHandler {
	return &GetSettingsHandler{svc: svc}
}

// Execute returns the settings, creating the defaults on first use.
//
//	@Summary	Get settings
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	SettingsResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/settings [get]
func (h *GetSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Store.Load(r.Context())
	writeSettings(w, r, s, err)
}

// PatchSettingsHandler handles PATCH /settings.
type PatchSettingsHandler struct {
	svc *appsvcs.Services
}

// NewPatchSettingsHandler returns a PatchSettingsHandler backed by the given services.
func NewPatchSettingsHandler(svc *appsvcs.Services) *PatchSettingsHandler {
	return &PatchSettingsHandler{svc: svc}
}

// Execute applies the provided fields. Setting a color removes the background image.
//
//	@Summary	Update settings
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Param		request	body		PatchSettingsRequest	true	"Fields to change"
//	@Success	200		{object}	SettingsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/settings [patch]
func (h *PatchSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[PatchSettingsRequest](w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	store := h.svc.Store

	var steps []func() (*models.Settings, error)
	if req.ThemeMode != nil {
		steps = append(steps, func() (*models.Settings, error) { return store.SetThemeMode(ctx, *req.ThemeMode) })
	}
	if req.BackgroundColor != nil {
		steps = append(steps, func() (*models.Settings, error) { return store.SetBackgroundColor(ctx, *req.BackgroundColor) })
	}
	if req.ElementOpacity != nil {
		steps = append(steps, func() (*models.Settings, error) { return store.SetElementOpacity(ctx, *req.ElementOpacity) })
	}
	if len(steps) == 0 {
		steps = append(steps, func() (*models.Settings, error) { return store.Load(ctx) })
	}

	var (
		s       *models.Settings
		lastErr error
	)
	for _, step := range steps {
		next, err := step()
		if err != nil && !errhttp.IsPersistence(err) {
			errhttp.WriteError(w, err)
			return
		}
		if err != nil {
			lastErr = err
		}
		if next != nil {
			s = next
		}
	}
	writeSettings(w, r, s, lastErr)
}

// BackgroundImageHandler serves and changes the background image.
type BackgroundImageHandler struct {
	svc *appsvcs.Services
}

// NewBackgroundImageHandler returns a BackgroundImageHandler backed by the given services.
func NewBackgroundImageHandler(svc *appsvcs.Services) *BackgroundImageHandler {
	return &BackgroundImageHandler{svc: svc}
}

// Get returns the image bytes.
//
//	@Summary	Get background image
//	@Tags		settings
//	@Produce	image/jpeg,image/png,image/heic
//	@Success	200
//	@Failure	404	{object}	ErrorResponse
//	@Router		/settings/background-image [get]
func (h *BackgroundImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Store.Load(r.Context())
	if s == nil {
		errhttp.WriteError(w, err)
		return
	}
	if !s.HasBackgroundImage() {
		httpx.JSONError(w, http.StatusNotFound, "no background image")
		return
	}
	httpx.Blob(w, http.StatusOK, mimetype.Detect(s.BackgroundImage).String(), s.BackgroundImage)
}

// Put stores the raw request body as the image.
//
//	@Summary		Set background image
//	@Description	Raw image bytes; the color is kept for when the image is removed
//	@Tags			settings
//	@Accept			image/jpeg,image/png,image/heic
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		413	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/settings/background-image [put]
func (h *BackgroundImageHandler) Put(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, "could not read body")
		return
	}
	if len(data) == 0 {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "image body is empty")
		return
	}
	s, err := h.svc.Store.SetBackgroundImage(r.Context(), data)
	writeSettings(w, r, s, err)
}

// Delete removes the image.
//
//	@Summary	Remove background image
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	SettingsResponse
//	@Router		/settings/background-image [delete]
func (h *BackgroundImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Store.ClearBackgroundImage(r.Context())
	writeSettings(w, r, s, err)
}
