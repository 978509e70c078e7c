package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ghuser/shoppinglist/migrations"
	"github.com/ghuser/shoppinglist/pkg/app"
	"github.com/ghuser/shoppinglist/pkg/database"
	"github.com/ghuser/shoppinglist/pkg/logger"
	"github.com/ghuser/shoppinglist/pkg/migrator"
	"github.com/ghuser/shoppinglist/pkg/realtime"
	"github.com/ghuser/shoppinglist/services/item/application/handlers"
	appsvcs "github.com/ghuser/shoppinglist/services/item/application/services"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

type failingRepo struct{}

func (failingRepo) FindAll(context.Context) ([]*models.Item, error) { return nil, nil }
func (failingRepo) Save(context.Context, *models.Item) error        { return errors.New("disk full") }
func (failingRepo) Update(context.Context, *models.Item) error      { return errors.New("disk full") }
func (failingRepo) Delete(context.Context, *models.Item) error      { return errors.New("disk full") }

func newServices(t *testing.T) *appsvcs.Services {
	t.Helper()
	d, err := database.NewPool(context.Background(), database.DriverSQLite, ":memory:", logger.Discard())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := migrator.Apply(d, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return servicesOn(t, d)
}

func servicesOn(t *testing.T, d *database.Database) *appsvcs.Services {
	t.Helper()
	svcs, err := appsvcs.New(context.Background(), &app.Application{Db: d, Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	return svcs
}

func newRouter(svcs *appsvcs.Services) http.Handler {
	r := chi.NewRouter()
	ItemRoutes(r, svcs)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestItemRoutes_SubmitAndList(t *testing.T) {
	h := newRouter(newServices(t))

	w := do(t, h, http.MethodPost, "/items/submit", `{"text":"  oat  milk "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body)
	}
	res := decode[handlers.SubmitResponse](t, w)
	if res.Outcome != "created" || res.Item.Name != "Oat milk" || res.Item.Quantity != 1 {
		t.Errorf("unexpected submit: %+v", res)
	}

	again := decode[handlers.SubmitResponse](t, do(t, h, http.MethodPost, "/items/submit", `{"text":"OAT MILK"}`))
	if again.Outcome != "already_active" || again.Item.ID != res.Item.ID {
		t.Errorf("unexpected resubmit: %+v", again)
	}

	list := decode[handlers.ListResponse](t, do(t, h, http.MethodGet, "/items", ""))
	if len(list.Active) != 1 || len(list.Bought) != 0 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestItemRoutes_InputAndBuffer(t *testing.T) {
	h := newRouter(newServices(t))
	for _, name := range []string{"Milk", "Mint", "Mango", "Melon"} {
		do(t, h, http.MethodPost, "/items/submit", `{"text":"`+name+`"}`)
	}

	in := decode[handlers.InputResponse](t, do(t, h, http.MethodPut, "/items/input", `{"text":"m"}`))
	if in.Text != "M" || len(in.Suggestions) != 3 {
		t.Errorf("unexpected input state: %+v", in)
	}

	sugg := decode[handlers.SuggestionsResponse](t, do(t, h, http.MethodGet, "/items/suggestions?q=mi&limit=5", ""))
	if len(sugg.Suggestions) != 2 {
		t.Errorf("suggestions = %v", sugg.Suggestions)
	}
	if w := do(t, h, http.MethodGet, "/items/suggestions?limit=zero", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", w.Code)
	}

	do(t, h, http.MethodPut, "/items/input", `{"text":"bread"}`)
	res := decode[handlers.SubmitResponse](t, do(t, h, http.MethodPost, "/items/submit", `{}`))
	if res.Outcome != "created" || res.Item.Name != "Bread" {
		t.Errorf("buffer submit = %+v", res)
	}
}

func TestItemRoutes_Actions(t *testing.T) {
	h := newRouter(newServices(t))
	created := decode[handlers.SubmitResponse](t, do(t, h, http.MethodPost, "/items/submit", `{"text":"eggs"}`))
	base := "/items/" + created.Item.ID.String()

	inc := decode[handlers.ItemResult](t, do(t, h, http.MethodPost, base+"/increment", ""))
	if inc.Item.Quantity != 2 {
		t.Errorf("increment = %+v", inc.Item)
	}
	do(t, h, http.MethodPost, base+"/decrement", "")
	dec := decode[handlers.ItemResult](t, do(t, h, http.MethodPost, base+"/decrement", ""))
	if !dec.Item.Bought || dec.Item.Quantity != 1 || dec.Item.BoughtAt == nil {
		t.Errorf("decrement at 1 = %+v", dec.Item)
	}

	if w := do(t, h, http.MethodPost, base+"/increment", ""); w.Code != http.StatusConflict {
		t.Errorf("increment bought status = %d, want 409", w.Code)
	}

	react := decode[handlers.ItemResult](t, do(t, h, http.MethodPost, base+"/reactivate", ""))
	if react.Item.Bought {
		t.Errorf("reactivate = %+v", react.Item)
	}
	bought := decode[handlers.ItemResult](t, do(t, h, http.MethodPost, base+"/bought", ""))
	if !bought.Item.Bought {
		t.Errorf("bought = %+v", bought.Item)
	}

	if w := do(t, h, http.MethodPost, "/items/not-a-uuid/increment", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/items/6f1c1b8e-2d7a-4c55-9a55-0d1c1e0f9a11/increment", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}

func TestItemRoutes_ValidationErrors(t *testing.T) {
	h := newRouter(newServices(t))
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed json", http.MethodPost, "/items/submit", `{`, http.StatusBadRequest},
		{"missing suggestion name", http.MethodPost, "/items/suggestions/select", `{}`, http.StatusUnprocessableEntity},
		{"name too long", http.MethodPost, "/items/submit", `{"text":"` + strings.Repeat("a", 300) + `"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, h, tt.method, tt.path, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
		})
	}
}

func TestItemRoutes_Dedupe(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()
	for _, n := range []string{"Tea", "tea", "TEA", "Jam"} {
		if _, err := svcs.Store.Create(ctx, n, 1); err != nil {
			t.Fatal(err)
		}
	}
	h := newRouter(svcs)

	res := decode[handlers.DedupeResponse](t, do(t, h, http.MethodPost, "/items/dedupe", ""))
	if res.Removed != 2 {
		t.Errorf("removed = %d, want 2", res.Removed)
	}
	res = decode[handlers.DedupeResponse](t, do(t, h, http.MethodPost, "/items/dedupe", ""))
	if res.Removed != 0 {
		t.Errorf("second run removed %d", res.Removed)
	}
}

func TestItemRoutes_PersistenceWarning(t *testing.T) {
	store := appsvcs.NewItemStore(failingRepo{}, logger.Discard())
	svcs := &appsvcs.Services{
		Store:       store,
		Controller:  appsvcs.NewListController(store, 0, logger.Discard()),
		BoughtLimit: appsvcs.DefaultBoughtLimit,
	}
	h := newRouter(svcs)

	w := do(t, h, http.MethodPost, "/items/submit", `{"text":"Honey"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	res := decode[handlers.SubmitResponse](t, w)
	if res.Warning != handlers.PersistenceWarning || res.Item == nil {
		t.Errorf("unexpected response: %+v", res)
	}
}

func TestStreamRoutes_BroadcastsChanges(t *testing.T) {
	svcs := newServices(t)
	hub := realtime.NewHub(logger.Discard(), func(*http.Request) bool { return true })
	defer hub.Close()

	r := chi.NewRouter()
	unsubscribe := StreamRoutes(r, svcs, &app.Application{Hub: hub, Logger: logger.Discard()})
	defer unsubscribe()

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/items/stream", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := svcs.Controller.Submit(context.Background(), "cereal"); err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg handlers.ChangeMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Kind != "created" || msg.Item == nil || msg.Item.Name != "Cereal" {
		t.Errorf("unexpected message: %+v", msg)
	}
}
