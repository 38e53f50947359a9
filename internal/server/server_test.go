package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/runway/internal/clock"
	"github.com/smallbiznis/runway/internal/config"
	forecastservice "github.com/smallbiznis/runway/internal/forecast/service"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	ledgerrepository "github.com/smallbiznis/runway/internal/ledger/repository"
	ledgerservice "github.com/smallbiznis/runway/internal/ledger/service"
	"github.com/smallbiznis/runway/internal/observability"
	"github.com/smallbiznis/runway/internal/providers/pdf"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	recordrepository "github.com/smallbiznis/runway/internal/record/repository"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	schedulerepository "github.com/smallbiznis/runway/internal/schedule/repository"
	scheduleservice "github.com/smallbiznis/runway/internal/schedule/service"
	"github.com/smallbiznis/runway/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	engine  *gin.Engine
	records recorddomain.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := db.NewTest(t,
		&recorddomain.ProjectRecord{},
		&recorddomain.OverrideRecord{},
		&scheduledomain.PaymentSchedule{},
		&ledgerdomain.LaborCost{},
		&ledgerdomain.OverheadCost{},
		&ledgerdomain.OneOffItem{},
	)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	records := recordrepository.NewRepository(conn, node)
	schedules := scheduleservice.NewService(scheduleservice.ServiceParam{
		Log:   log,
		GenID: node,
		Repo:  schedulerepository.NewRepository(conn),
		Clock: clk,
	})
	ledger := ledgerservice.NewService(ledgerservice.Params{
		Repo:  ledgerrepository.Provide(conn),
		Log:   log,
		GenID: node,
		Clock: clk,
	})
	forecast := forecastservice.NewService(forecastservice.Params{
		Log:       log,
		Records:   records,
		Schedules: schedules,
		Ledger:    ledger,
		Engine:    config.NewStaticEngineConfigHolder(config.DefaultEngineConfig()),
		Clock:     clk,
	})

	engine := NewEngine(observability.Config{Environment: "test"}, nil, log)
	NewServer(ServerParams{
		Gin:         engine,
		Log:         log,
		ForecastSvc: forecast,
		LedgerSvc:   ledger,
		PDF:         pdf.New(),
	})
	return &testEnv{engine: engine, records: records}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedProject(t *testing.T, row recorddomain.Row) {
	t.Helper()
	require.NoError(t, e.records.SaveProject(context.Background(), row))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error struct {
		Type   string            `json:"type"`
		Errors []ValidationError `json:"errors"`
	} `json:"error"`
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetForecast_UsesCorrelationIDAsRunID(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, recorddomain.Row{
		"record_id": "rec1",
		"客户":        "Acme",
		"业务线":       "配液设备",
		"金额":        1000.0,
		"成单率":       "100",
		"开始时间":      "2025-04-01",
		"交付时间":      "2025-06-01",
	})

	rec := env.do(t, http.MethodGet, "/v1/forecast?months_ahead=6", nil, HeaderCorrelationID, "run-123")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "run-123", rec.Header().Get(HeaderCorrelationID))

	body := decode[struct {
		Data struct {
			RunID    string            `json:"run_id"`
			Projects []json.RawMessage `json:"projects"`
			Forecast []json.RawMessage `json:"forecast"`
		} `json:"data"`
	}](t, rec)
	assert.Equal(t, "run-123", body.Data.RunID)
	assert.Len(t, body.Data.Projects, 1)
	assert.Len(t, body.Data.Forecast, 6)
}

func TestGetForecast_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/v1/forecast?months_ahead=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	require.Len(t, body.Error.Errors, 1)
	assert.Equal(t, "invalid_months_ahead", body.Error.Errors[0].Code)

	rec = env.do(t, http.MethodGet, "/v1/runway?runway_months_ahead=-2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOverrideThenSchedule(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, recorddomain.Row{
		"record_id": "rec1",
		"金额":        1000.0,
		"开始时间":      "2025-04-01",
	})

	rec := env.do(t, http.MethodPut, "/v1/overrides/rec1", map[string]any{"amount": 500})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/v1/schedules/rec1", map[string]any{"template_name": "全款"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/v1/schedules/rec1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Data []struct {
			StageName string  `json:"stage_name"`
			Amount    float64 `json:"amount"`
		} `json:"data"`
	}](t, rec)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "全款", body.Data[0].StageName)
	assert.InDelta(t, 500, body.Data[0].Amount, 1e-9)

	rec = env.do(t, http.MethodPut, "/v1/overrides/rec1", map[string]any{"amount": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveSchedule_RejectsBadRatios(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPut, "/v1/schedules/rec1", map[string]any{
		"stages": []map[string]any{
			{"name": "首付款", "ratio": 0.3, "date": "2025-04-01"},
			{"name": "尾款", "ratio": 0.3},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, "schedule_config_error", decode[errorBody](t, rec).Error.Type)
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/v1/schedules/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/v1/schedules/missing", map[string]any{"template_name": "nope"}).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/nope", nil).Code)
}

func TestCostLedgerRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/costs/labor", map[string]any{
		"cost_type":  "工资",
		"item":       "engineers",
		"amount":     30,
		"frequency":  "月度",
		"start_date": "2025-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Data struct {
			ID        string `json:"id"`
			Frequency string `json:"frequency"`
		} `json:"data"`
	}](t, rec)
	assert.Equal(t, "monthly", created.Data.Frequency)

	rec = env.do(t, http.MethodGet, "/v1/costs/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[struct {
		Data ledgerdomain.Summary `json:"data"`
	}](t, rec)
	assert.InDelta(t, 30, summary.Data.LaborMonthly, 1e-9)

	rec = env.do(t, http.MethodPost, "/v1/costs/one_off", map[string]any{"kind": "bonus", "name": "x", "amount": 1, "occurred_at": "2025-05-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/v1/costs/labor/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, "/v1/costs/labor/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/v1/costs/payroll/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetForecastPDF(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, recorddomain.Row{"record_id": "rec1", "金额": 100.0, "成单率": "50", "开始时间": "2025-04-01"})

	rec := env.do(t, http.MethodGet, "/v1/forecast/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
