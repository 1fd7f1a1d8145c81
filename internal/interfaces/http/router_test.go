package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stockledger/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la API completa sobre un store en memoria con los componentes dados.
func buildTestApp(t *testing.T, components ...entity.Component) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, c := range components {
		store.PutComponent(c)
	}
	store.PutProduct(entity.Product{ID: 1, Name: "Placa", Components: []entity.BOMLine{{ComponentID: 1, Quantity: 2}}})

	log := zerolog.Nop()
	purchase := inventory.NewPurchaseListUseCase(store.Components(), store.Alerts(), nil, time.Minute, log)
	alerts := inventory.NewAlertManager(store, nil, purchase, log)
	register := inventory.NewRegisterMovementUseCase(store, alerts, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		RegisterMovement: register,
		BulkMovement:     inventory.NewBulkMovementUseCase(store, register, alerts, log),
		History:          inventory.NewMovementHistoryUseCase(store.Components(), store.Movements()),
		Alerts:           alerts,
		PurchaseList:     purchase,
		ProductionPlan:   inventory.NewProductionPlanUseCase(store.Products(), store.Components(), store, register, alerts, log),
	})
	return app, store
}

// doJSON lanza una petición con cuerpo JSON y devuelve la respuesta.
func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apphttp.HeaderPerformedBy, "operador")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "la respuesta debe ser JSON válido")
}

func component(id int64, stock, minimum int) entity.Component {
	return entity.Component{ID: id, Name: "C", Group: "G", Device: "D", QuantityInStock: stock, MinimumQuantity: minimum}
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_Creado(t *testing.T) {
	app, _ := buildTestApp(t, component(1, 5, 10))

	resp := doJSON(t, app, http.MethodPost, "/api/movements", `{"component_id":1,"type":"entry","quantity":3}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body dto.MovementResponse
	decode(t, resp, &body)
	assert.Equal(t, 8, body.Component.QuantityInStock)
	assert.Equal(t, "create", body.AlertAction)
	require.NotNil(t, body.Alert)
	assert.Equal(t, "low", body.Alert.Severity)
	assert.Equal(t, "operador", body.Movement.PerformedBy, "el operador sale del header")
}

func TestRegisterMovement_CodigosDeError(t *testing.T) {
	app, _ := buildTestApp(t, component(1, 2, 0))

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"stock insuficiente", `{"component_id":1,"type":"exit","quantity":5}`, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"componente inexistente", `{"component_id":9,"type":"entry","quantity":1}`, fiber.StatusNotFound, "NOT_FOUND"},
		{"cantidad inválida", `{"component_id":1,"type":"entry","quantity":0}`, fiber.StatusBadRequest, "VALIDATION"},
		{"tipo inválido", `{"component_id":1,"type":"adjust","quantity":1}`, fiber.StatusBadRequest, "VALIDATION"},
		{"cuerpo inválido", `{`, fiber.StatusBadRequest, "INVALID_BODY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/movements", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			var body dto.ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestBulkMovements_SiempreOK(t *testing.T) {
	app, store := buildTestApp(t, component(1, 6, 2))

	resp := doJSON(t, app, http.MethodPost, "/api/movements/bulk", `{"lines":[
		{"component_id":1,"type":"exit","quantity":5},
		{"component_id":2,"type":"exit","quantity":1}
	]}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "los fallos por línea no cambian el status")

	var body dto.BulkMovementResponse
	decode(t, resp, &body)
	assert.Equal(t, 2, body.TotalLines)
	assert.Equal(t, 1, body.SuccessCount)
	assert.Equal(t, []string{"component 2 not found"}, body.Errors)
	assert.Len(t, body.AlertsGenerated, 1)

	c, err := store.Components().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.QuantityInStock)
}

func TestHistory(t *testing.T) {
	app, _ := buildTestApp(t, component(1, 50, 0))
	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/movements", `{"component_id":1,"type":"exit","quantity":1}`)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/components/1/movements?limit=2", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.MovementHistoryResponse
	decode(t, resp, &body)
	assert.Len(t, body.Movements, 2)
	assert.Equal(t, 2, body.Page.Limit)

	resp = doJSON(t, app, http.MethodGet, "/api/components/1/movements?from=ayer", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/components/404/movements", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas, compra y producción
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertsYListaDeCompra(t *testing.T) {
	app, _ := buildTestApp(t, component(1, 0, 5), component(2, 100, 5))

	resp := doJSON(t, app, http.MethodPost, "/api/alerts/check", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sweep dto.AlertSweepResponse
	decode(t, resp, &sweep)
	assert.Equal(t, 2, sweep.Checked)
	assert.Len(t, sweep.Created, 1)

	resp = doJSON(t, app, http.MethodGet, "/api/alerts", "")
	var list struct {
		Total  int            `json:"total"`
		Alerts []dto.AlertDTO `json:"alerts"`
	}
	decode(t, resp, &list)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "critical", list.Alerts[0].Severity)

	resp = doJSON(t, app, http.MethodGet, "/api/purchase-list", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var purchase dto.PurchaseListResponse
	decode(t, resp, &purchase)
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, 10, purchase.Items[0].SuggestedPurchase)
}

func TestProductionPlanYDescuento(t *testing.T) {
	app, store := buildTestApp(t, component(1, 3, 0))

	resp := doJSON(t, app, http.MethodPost, "/api/production/plan", `{"product_ids":[1],"quantities":{"1":2}}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var plan dto.ProductionPlanResponse
	decode(t, resp, &plan)
	require.Len(t, plan.Lines, 1)
	assert.Equal(t, 4, plan.Lines[0].TotalQuantity)
	assert.Equal(t, 1, plan.Lines[0].NeedToBuy)

	resp = doJSON(t, app, http.MethodPost, "/api/production/plan", `{"product_ids":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/production/plan", `{"product_ids":[42]}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/production/deplete", `{"product_ids":[1],"quantities":{"1":2}}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	c, err := store.Components().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, c.QuantityInStock, "la salida se recorta al disponible")
}

func TestUpdateMinimums(t *testing.T) {
	app, store := buildTestApp(t, component(1, 8, 2), component(2, 3, 1))

	resp := doJSON(t, app, http.MethodPut, "/api/components/minimums",
		`{"minimums":[{"component_id":1,"minimum_quantity":10},{"component_id":2,"minimum_quantity":1}]}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sweep dto.AlertSweepResponse
	decode(t, resp, &sweep)
	assert.Equal(t, 2, sweep.Checked)
	assert.Len(t, sweep.Created, 1)

	c, err := store.Components().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, c.MinimumQuantity)

	resp = doJSON(t, app, http.MethodPut, "/api/components/minimums",
		`{"minimums":[{"component_id":1,"minimum_quantity":0},{"component_id":7,"minimum_quantity":1}]}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	c, err = store.Components().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, c.MinimumQuantity, "el lote fallido no aplica cambios")

	resp = doJSON(t, app, http.MethodPut, "/api/components/minimums", `{"minimums":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
