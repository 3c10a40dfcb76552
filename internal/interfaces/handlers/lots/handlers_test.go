package lots

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	closesvc "confina-backend/internal/application/closeout"
	compsvc "confina-backend/internal/application/compositions"
	lotsvc "confina-backend/internal/application/lots"
	"confina-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Pen{}, &domain.Lot{}, &domain.LotExtraCost{}, &domain.LotEvent{},
		&domain.LotWeighing{}, &domain.FeedingRecord{},
		&domain.FeedType{}, &domain.FeedComposition{}, &domain.FeedCompositionItem{},
	))

	farmID := uuid.New()
	userID := uuid.New()

	comps := &compsvc.Service{DB: db}
	h := &Handlers{
		Service:  &lotsvc.Service{DB: db},
		Closeout: &closesvc.Service{DB: db, Compositions: comps},
	}

	app := fiber.New()
	// Session stub in place of the Redis-backed middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": userID.String(),
			"farm_id": farmID.String(),
			"role":    "owner",
		})
		return c.Next()
	})
	app.Get("/api/v1/lots", h.List)
	app.Post("/api/v1/lots", h.Create)
	app.Delete("/api/v1/lots/costs/:costId", h.DeleteExtraCost)
	app.Get("/api/v1/lots/:id", h.Get)
	app.Put("/api/v1/lots/:id", h.Update)
	app.Get("/api/v1/lots/:id/closeout", h.GetCloseout)
	app.Get("/api/v1/lots/:id/simulate", h.Simulate)
	app.Post("/api/v1/lots/:id/close", h.Close)
	app.Get("/api/v1/lots/:id/costs", h.ListExtraCosts)
	app.Post("/api/v1/lots/:id/costs", h.AddExtraCost)

	return app, db, farmID
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func createLot(t *testing.T, app *fiber.App, code string) string {
	t.Helper()
	status, out := doJSON(t, app, "POST", "/api/v1/lots", map[string]interface{}{
		"lot_code":            code,
		"category":            "nelore_macho",
		"head_count":          120,
		"avg_entry_weight_kg": 380,
		"entry_date":          "2025-01-10",
	})
	require.Equal(t, fiber.StatusCreated, status)
	lot := out["data"].(map[string]interface{})["lot"].(map[string]interface{})
	return lot["lot_id"].(string)
}

func TestCreateLot(t *testing.T) {
	app, db, farmID := setupApp(t)

	status, out := doJSON(t, app, "POST", "/api/v1/lots", map[string]interface{}{
		"lot_code":            "L-2025-01",
		"category":            "nelore_macho",
		"head_count":          120,
		"avg_entry_weight_kg": 380,
		"entry_date":          "2025-01-10",
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "success", out["status"])
	lot := out["data"].(map[string]interface{})["lot"].(map[string]interface{})
	assert.Equal(t, "L-2025-01", lot["lot_code"])
	assert.Equal(t, "active", lot["status"])
	assert.Equal(t, 30.0, lot["arroba_divisor"])

	var count int64
	require.NoError(t, db.Model(&domain.Lot{}).Where("farm_id = ?", farmID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateLot_Rejections(t *testing.T) {
	app, _, _ := setupApp(t)

	// Bad entry date format.
	status, out := doJSON(t, app, "POST", "/api/v1/lots", map[string]interface{}{
		"lot_code":            "L-1",
		"category":            "x",
		"head_count":          10,
		"avg_entry_weight_kg": 300,
		"entry_date":          "10/01/2025",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "error", out["status"])

	// Zero head count.
	status, _ = doJSON(t, app, "POST", "/api/v1/lots", map[string]interface{}{
		"lot_code":            "L-1",
		"category":            "x",
		"head_count":          0,
		"avg_entry_weight_kg": 300,
		"entry_date":          "2025-01-10",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Duplicate code on the same farm.
	createLot(t, app, "L-DUP")
	status, out = doJSON(t, app, "POST", "/api/v1/lots", map[string]interface{}{
		"lot_code":            "L-DUP",
		"category":            "x",
		"head_count":          10,
		"avg_entry_weight_kg": 300,
		"entry_date":          "2025-01-10",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "error", out["status"])
}

func TestGetLot(t *testing.T) {
	app, _, _ := setupApp(t)
	lotID := createLot(t, app, "L-GET")

	status, out := doJSON(t, app, "GET", "/api/v1/lots/"+lotID, nil)
	assert.Equal(t, fiber.StatusOK, status)
	lot := out["data"].(map[string]interface{})["lot"].(map[string]interface{})
	assert.Equal(t, "L-GET", lot["lot_code"])

	status, _ = doJSON(t, app, "GET", "/api/v1/lots/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "GET", "/api/v1/lots/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestSimulate_RequiresPrice(t *testing.T) {
	app, _, _ := setupApp(t)
	lotID := createLot(t, app, "L-SIM")

	status, out := doJSON(t, app, "GET", "/api/v1/lots/"+lotID+"/simulate", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "error", out["status"])

	// With a price but no weighing, the simulation comes back indeterminate.
	status, out = doJSON(t, app, "GET", "/api/v1/lots/"+lotID+"/simulate?price_per_arroba=260", nil)
	assert.Equal(t, fiber.StatusOK, status)
	sim := out["data"].(map[string]interface{})["simulation"].(map[string]interface{})
	assert.Equal(t, 260.0, sim["price_per_arroba"])
	assert.Nil(t, sim["sale_price_per_head"])
}

func TestCloseLot(t *testing.T) {
	app, db, _ := setupApp(t)
	lotID := createLot(t, app, "L-CLOSE")

	status, out := doJSON(t, app, "POST", "/api/v1/lots/"+lotID+"/close", nil)
	assert.Equal(t, fiber.StatusOK, status)
	closeout := out["data"].(map[string]interface{})["closeout"].(map[string]interface{})
	assert.Equal(t, "closed", closeout["status"])

	var event domain.LotEvent
	require.NoError(t, db.Where("lot_id = ?", lotID).First(&event).Error)
	assert.Equal(t, "lot_closed", event.EventType)

	// Closing again conflicts.
	status, out = doJSON(t, app, "POST", "/api/v1/lots/"+lotID+"/close", nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "error", out["status"])
}

func TestExtraCostRoutes(t *testing.T) {
	app, _, _ := setupApp(t)
	lotID := createLot(t, app, "L-COST")

	status, out := doJSON(t, app, "POST", "/api/v1/lots/"+lotID+"/costs", map[string]interface{}{
		"description":  "vacina",
		"total_amount": 1800,
		"cost_date":    "2025-02-01",
	})
	assert.Equal(t, fiber.StatusCreated, status)
	cost := out["data"].(map[string]interface{})["cost"].(map[string]interface{})
	costID := cost["cost_id"].(string)

	status, out = doJSON(t, app, "GET", "/api/v1/lots/"+lotID+"/costs", nil)
	assert.Equal(t, fiber.StatusOK, status)
	costs := out["data"].(map[string]interface{})["costs"].([]interface{})
	assert.Len(t, costs, 1)

	status, _ = doJSON(t, app, "DELETE", "/api/v1/lots/costs/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, "DELETE", "/api/v1/lots/costs/"+costID, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestNoSessionForbidden(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Lot{}))
	h := &Handlers{Service: &lotsvc.Service{DB: db}}

	app := fiber.New()
	app.Get("/api/v1/lots", h.List)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/lots", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
