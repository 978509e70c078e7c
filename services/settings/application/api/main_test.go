package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/shoppinglist/migrations"
	"github.com/ghuser/shoppinglist/pkg/app"
	"github.com/ghuser/shoppinglist/pkg/database"
	"github.com/ghuser/shoppinglist/pkg/logger"
	"github.com/ghuser/shoppinglist/pkg/migrator"
	"github.com/ghuser/shoppinglist/services/settings/application/handlers"
	appsvcs "github.com/ghuser/shoppinglist/services/settings/application/services"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	d, err := database.NewPool(context.Background(), database.DriverSQLite, ":memory:", logger.Discard())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := migrator.Apply(d, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svcs, err := appsvcs.New(context.Background(), &app.Application{Db: d, Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	r := chi.NewRouter()
	SettingsRoutes(r, svcs)
	return r
}

func do(h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeSettings(t *testing.T, w *httptest.ResponseRecorder) handlers.SettingsResponse {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var s handlers.SettingsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSettingsRoutes_Defaults(t *testing.T) {
	s := decodeSettings(t, do(newRouter(t), http.MethodGet, "/settings", nil))
	if s.ThemeMode != "system" || s.BackgroundColor != "#F5E4B5" || s.ElementOpacity != 0.7 || s.HasBackgroundImage {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestSettingsRoutes_Patch(t *testing.T) {
	h := newRouter(t)

	s := decodeSettings(t, do(h, http.MethodPatch, "/settings", []byte(`{"theme_mode":"dark","element_opacity":0.25}`)))
	if s.ThemeMode != "dark" || s.ElementOpacity != 0.25 || s.BackgroundColor != "#F5E4B5" {
		t.Errorf("unexpected patch result: %+v", s)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown theme", `{"theme_mode":"neon"}`, http.StatusUnprocessableEntity},
		{"bad color", `{"background_color":"teal"}`, http.StatusUnprocessableEntity},
		{"opacity above one", `{"element_opacity":1.5}`, http.StatusUnprocessableEntity},
		{"malformed", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(h, http.MethodPatch, "/settings", []byte(tt.body)); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
		})
	}

	after := decodeSettings(t, do(h, http.MethodGet, "/settings", nil))
	if after.ThemeMode != "dark" || after.ElementOpacity != 0.25 {
		t.Errorf("rejected patches changed settings: %+v", after)
	}
}

func TestSettingsRoutes_BackgroundImage(t *testing.T) {
	h := newRouter(t)

	if w := do(h, http.MethodGet, "/settings/background-image", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing image status = %d, want 404", w.Code)
	}
	if w := do(h, http.MethodPut, "/settings/background-image", []byte("plain text")); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("non-image status = %d, want 422", w.Code)
	}

	s := decodeSettings(t, do(h, http.MethodPut, "/settings/background-image", pngHeader))
	if !s.HasBackgroundImage {
		t.Fatal("image not stored")
	}

	w := do(h, http.MethodGet, "/settings/background-image", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" || !bytes.Equal(w.Body.Bytes(), pngHeader) {
		t.Errorf("image fetch: status=%d type=%q", w.Code, w.Header().Get("Content-Type"))
	}

	s = decodeSettings(t, do(h, http.MethodPatch, "/settings", []byte(`{"background_color":"#102030"}`)))
	if s.HasBackgroundImage || s.BackgroundColor != "#102030" {
		t.Errorf("color must replace image: %+v", s)
	}

	decodeSettings(t, do(h, http.MethodPut, "/settings/background-image", pngHeader))
	s = decodeSettings(t, do(h, http.MethodDelete, "/settings/background-image", nil))
	if s.HasBackgroundImage {
		t.Error("image not removed")
	}
}

func TestSettingsRoutes_Appearance(t *testing.T) {
	h := newRouter(t)
	do(h, http.MethodPatch, "/settings", []byte(`{"theme_mode":"system","element_opacity":0.5}`))

	tests := []struct {
		system      string
		wantElement string
	}{
		{"light", "rgba(255, 255, 255, 0.5)"},
		{"dark", "rgba(0, 0, 0, 0.8)"},
		{"", "rgba(255, 255, 255, 0.5)"},
	}
	for _, tt := range tests {
		t.Run("system="+tt.system, func(t *testing.T) {
			w := do(h, http.MethodGet, "/settings/appearance?system="+tt.system, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var a handlers.AppearanceResponse
			if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
				t.Fatal(err)
			}
			if a.Element.CSS != tt.wantElement {
				t.Errorf("element = %q, want %q", a.Element.CSS, tt.wantElement)
			}
			if !strings.HasPrefix(a.Background.CSS, "rgba(245, 228, 181") {
				t.Errorf("background = %q", a.Background.CSS)
			}
		})
	}

	if w := do(h, http.MethodGet, "/settings/appearance?system=dusk", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad appearance status = %d, want 400", w.Code)
	}
}
