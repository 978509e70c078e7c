package handlers

import (
	"net/http"

	"github.com/ghuser/shoppinglist/pkg/errhttp"
	"github.com/ghuser/shoppinglist/pkg/httpx"
	appsvcs "github.com/ghuser/shoppinglist/services/settings/application/services"
	domainsvcs "github.com/ghuser/shoppinglist/services/settings/domain/services"
)

// ColorResponse is a resolved color.
type ColorResponse struct {
	R   uint8   `json:"r"   example:"255"`
	G   uint8   `json:"g"   example:"255"`
	B   uint8   `json:"b"   example:"255"`
	A   float64 `json:"a"   example:"0.7"`
	CSS string  `json:"css" example:"rgba(255, 255, 255, 0.7)"`
} // @name ColorResponse

// AppearanceResponse holds the colors a client should draw with.
type AppearanceResponse struct {
	Background         ColorResponse `json:"background"`
	HasBackgroundImage bool          `json:"has_background_image"`
	Element            ColorResponse `json:"element"`
	Foreground         ColorResponse `json:"foreground"`
} // @name AppearanceResponse

func newColorResponse(c domainsvcs.RGBA) ColorResponse {
	return ColorResponse{R: c.R, G: c.G, B: c.B, A: c.A, CSS: c.CSS()}
}

// GetAppearanceHandler handles GET /settings/appearance.
type GetAppearanceHandler struct {
	svc *appsvcs.Services
}

// NewGetAppearanceHandler returns a GetAppearanceHandler backed by the given services.
func NewGetAppearanceHandler(svc *appsvcs.Services) *GetAppearanceHandler {
	return &GetAppearanceHandler{svc: svc}
}

// Execute resolves element colors for the device appearance.
//
//	@Summary	Resolve appearance
//	@Tags		settings
//	@Produce	json
//	@Param		system	query		string	false	"Device appearance"	Enums(light, dark)
//	@Success	200		{object}	AppearanceResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/settings/appearance [get]
func (h *GetAppearanceHandler) Execute(w http.ResponseWriter, r *http.Request) {
	system, err := domainsvcs.ParseAppearance(r.URL.Query().Get("system"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.svc.Store.Load(r.Context())
	if s == nil {
		errhttp.WriteError(w, err)
		return
	}

	r8, g8, b8 := s.Background().RGB255()
	httpx.JSON(w, http.StatusOK, AppearanceResponse{
		Background:         newColorResponse(domainsvcs.RGBA{R: r8, G: g8, B: b8, A: 1}),
		HasBackgroundImage: s.HasBackgroundImage(),
		Element:            newColorResponse(domainsvcs.ElementPalette.Resolve(s, system)),
		Foreground:         newColorResponse(domainsvcs.ForegroundPalette.Resolve(s, system)),
	})
}
