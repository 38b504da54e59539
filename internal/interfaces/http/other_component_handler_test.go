package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/application/tracking"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/precast-api/internal/interfaces/http"
)

const testProjectID = "11111111-1111-1111-1111-111111111111"

type fakeReports struct{}

func (fakeReports) GenerateProjectReport(_ context.Context, r *dto.ProjectAggregateDTO) ([]byte, error) {
	return []byte("%PDF-1.4 " + r.ProjectCode), nil
}

// buildAPI arma el router completo sobre el almacén en memoria.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := buildAPIWithStore(t)
	return app
}

func buildAPIWithStore(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Projects().Create(context.Background(), &entity.Project{
		ID: testProjectID, ProjectCode: "OBRA-77", Name: "Puente Sur",
	}))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Transitions: tracking.NewTransitionUseCase(s, nil, nil, tracking.Config{}),
		Components:  tracking.NewComponentUseCase(s, s.Projects(), s.Components(), s.Ledger(), s.History(), nil, tracking.Config{}),
		Aggregates:  tracking.NewAggregateUseCase(s.Projects(), s.Components(), s.Ledger(), s.Aggregates(), fakeReports{}),
		JWTSecret:   testJWTSecret,
	})
	return app, s
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func createComponent(t *testing.T, app *fiber.App, total int) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/other-components", "operator", map[string]any{
		"project_id":     testProjectID,
		"name":           "Losa",
		"width":          "1.2",
		"height":         "0.2",
		"thickness":      "0.15",
		"total_quantity": total,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.OtherComponentResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, map[string]int{"planning": total}, out.Statuses)
	return out.ID
}

func TestHealth(t *testing.T) {
	app := buildAPI(t)
	resp, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestUpdateStatus_FlujoCompleto(t *testing.T) {
	app := buildAPI(t)
	id := createComponent(t, app, 100)
	path := "/api/other-components/" + id + "/status"

	resp, body := call(t, app, http.MethodPut, path, "operator", dto.UpdateStatusRequest{FromStatus: "planning", ToStatus: "manufactured", Quantity: 40})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPut, path, "operator", dto.UpdateStatusRequest{FromStatus: "manufactured", ToStatus: "transported", Quantity: 40})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.TransitionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, map[string]int{"planning": 60, "manufactured": 40, "transported": 40}, out.Statuses)
	assert.Equal(t, 100, out.Total)
	assert.Contains(t, string(body), `"_lastUpdate"`)

	// cantidad insuficiente -> 409 con detalles
	resp, body = call(t, app, http.MethodPut, path, "operator", dto.UpdateStatusRequest{FromStatus: "transported", ToStatus: "rejected", Quantity: 50})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "INSUFFICIENT_QUANTITY", errResp.Code)
	assert.EqualValues(t, 40, errResp.Details["available"])
	assert.EqualValues(t, 50, errResp.Details["requested"])

	// arista ilegal -> 422
	resp, body = call(t, app, http.MethodPut, path, "operator", dto.UpdateStatusRequest{FromStatus: "planning", ToStatus: "transported", Quantity: 1})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "ILLEGAL_TRANSITION", errResp.Code)

	// el historial refleja creación + 2 transiciones
	resp, body = call(t, app, http.MethodGet, "/api/other-components/"+id+"/history?limit=10", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist dto.StatusHistoryListResponse
	require.NoError(t, json.Unmarshal(body, &hist))
	assert.Len(t, hist.Items, 3)
	assert.Equal(t, 10, hist.Page.Limit)
}

func TestUpdateStatus_FalloDeAlmacenamientoNoExponeElDriver(t *testing.T) {
	app, s := buildAPIWithStore(t)
	id := createComponent(t, app, 10)
	s.FailHistoryAppend(errors.New(`pq: relation "other_component_status_history" does not exist`))

	resp, body := call(t, app, http.MethodPut, "/api/other-components/"+id+"/status", "operator",
		dto.UpdateStatusRequest{FromStatus: "planning", ToStatus: "manufactured", Quantity: 4})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "STORAGE_FAILURE", errResp.Code)
	assert.NotEmpty(t, errResp.Message)
	assert.NotContains(t, string(body), "other_component_status_history")
	assert.NotContains(t, string(body), "pq:")
}

func TestUpdateStatus_ValidacionYPermisos(t *testing.T) {
	app := buildAPI(t)
	id := createComponent(t, app, 10)
	path := "/api/other-components/" + id + "/status"

	resp, body := call(t, app, http.MethodPut, path, "operator", map[string]any{"fromStatus": "planning", "toStatus": "manufactured"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "quantity")

	resp, _ = call(t, app, http.MethodPut, path, "viewer", dto.UpdateStatusRequest{FromStatus: "planning", ToStatus: "manufactured", Quantity: 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPut, path, "", dto.UpdateStatusRequest{FromStatus: "planning", ToStatus: "manufactured", Quantity: 1})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPut, "/api/other-components/no-existe/status", "operator", dto.UpdateStatusRequest{FromStatus: "planning", ToStatus: "manufactured", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDetallesResetYBorrado(t *testing.T) {
	app := buildAPI(t)
	id := createComponent(t, app, 10)
	base := "/api/other-components/" + id

	resp, body := call(t, app, http.MethodPut, base+"/details", "operator", map[string]any{"name": "Losa X", "total_quantity": 20})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPut, base+"/details", "operator", map[string]any{"name": "Losa X", "total_quantity": 20, "resetStatuses": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.OtherComponentResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, map[string]int{"planning": 20}, out.Statuses)

	resp, _ = call(t, app, http.MethodPost, base+"/reset", "operator", dto.ResetOtherComponentRequest{TotalQuantity: 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "reset solo admin")
	resp, body = call(t, app, http.MethodPost, base+"/reset", "admin", dto.ResetOtherComponentRequest{TotalQuantity: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = call(t, app, http.MethodDelete, base, "admin", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, app, http.MethodGet, base, "viewer", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVistasDeProyecto(t *testing.T) {
	app := buildAPI(t)
	id := createComponent(t, app, 10)

	resp, body := call(t, app, http.MethodGet, "/api/projects/"+testProjectID+"/aggregate", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var agg dto.ProjectAggregateDTO
	require.NoError(t, json.Unmarshal(body, &agg))
	require.Len(t, agg.Components, 1)
	assert.Equal(t, id, agg.Components[0].ComponentID)
	assert.Equal(t, map[string]int{"planning": 10}, agg.Components[0].Statuses)

	resp, body = call(t, app, http.MethodGet, "/api/other-components/projects-with-other-components", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "OBRA-77")

	resp, body = call(t, app, http.MethodGet, "/api/other-components/project/"+testProjectID, "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), id)

	resp, body = call(t, app, http.MethodGet, "/api/projects/"+testProjectID+"/report.pdf", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, _ = call(t, app, http.MethodGet, "/api/projects/desconocido/aggregate", "viewer", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
