package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"poultry.GO/core/auth"
	inventoryEntity "poultry.GO/model/entity/inventory"
	inventoryService "poultry.GO/service/inventory"
)

func testServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&inventoryEntity.InventoryItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := echo.New()
	RegisterInventoryRoutes(e.Group("/api"), db)
	return e, db
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestInventoryAPI_AddAndGet(t *testing.T) {
	e, _ := testServer(t)

	rec := do(e, http.MethodPost, "/api/inventory/add",
		`{"type":"feed","amount":100,"details":{"LAYER":100}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /add status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if resp["success"] != true {
		t.Errorf("success = %v, want true", resp["success"])
	}

	rec = do(e, http.MethodGet, "/api/inventory/FEED", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /FEED status = %d", rec.Code)
	}
	data := decode(t, rec)["data"].(map[string]interface{})
	if data["quantity"].(float64) != 100 {
		t.Errorf("quantity = %v, want 100", data["quantity"])
	}

	rec = do(e, http.MethodGet, "/api/inventory", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/inventory status = %d", rec.Code)
	}
	items := decode(t, rec)["data"].([]interface{})
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}
}

func TestInventoryAPI_GetUnknownType(t *testing.T) {
	e, _ := testServer(t)

	if rec := do(e, http.MethodGet, "/api/inventory/grain", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/inventory/EGG", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing row status = %d, want 404", rec.Code)
	}
}

func TestInventoryAPI_DeductInsufficient(t *testing.T) {
	e, db := testServer(t)

	if _, err := inventoryService.Add(db, inventoryEntity.TypeFeed, 50,
		map[string]float64{"LAYER": 50}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := do(e, http.MethodPost, "/api/inventory/deduct",
		`{"type":"FEED","amount":80,"details":{"LAYER":80}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/inventory/deduct",
		`{"type":"FEED","amount":20,"details":{"LAYER":20}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	data := decode(t, rec)["data"].(map[string]interface{})
	if data["quantity"].(float64) != 30 {
		t.Errorf("quantity = %v, want 30", data["quantity"])
	}
}

func TestInventoryAPI_DeductUnknownFeedKey(t *testing.T) {
	e, db := testServer(t)

	if _, err := inventoryService.Add(db, inventoryEntity.TypeFeed, 50,
		map[string]float64{"LAYER": 50}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rec := do(e, http.MethodPost, "/api/inventory/deduct",
		`{"type":"FEED","amount":10,"details":{"CANDY":10}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestInventoryAPI_DeductWithoutStock(t *testing.T) {
	e, _ := testServer(t)

	rec := do(e, http.MethodPost, "/api/inventory/deduct",
		`{"type":"FEED","amount":10,"details":{"LAYER":10}}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a ledger row", rec.Code)
	}
}

func TestInventoryAPI_BasicAuthGate(t *testing.T) {
	t.Setenv("AUTH_TYPE", "")
	t.Setenv("API_USER", "farmhand")
	t.Setenv("API_PASS", "secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&inventoryEntity.InventoryItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := echo.New()
	g := e.Group("/api")
	g.Use(auth.Middleware())
	RegisterInventoryRoutes(g, db)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no credentials status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	req.SetBasicAuth("farmhand", "secret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with credentials status = %d, want 200", rec.Code)
	}
}
