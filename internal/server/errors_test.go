package server

import (
	"fmt"
	"net/http"
	"testing"

	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"busy", forecastdomain.ErrRecordBusy, http.StatusConflict, "conflict"},
		{"wrapped not found", fmt.Errorf("load: %w", forecastdomain.ErrProjectNotFound), http.StatusNotFound, "not_found"},
		{"schedule config", fmt.Errorf("%w: ratios sum to 0.9", scheduledomain.ErrScheduleConfig), http.StatusUnprocessableEntity, "schedule_config_error"},
		{"override amount", forecastdomain.ErrInvalidOverrideAmount, http.StatusBadRequest, "validation_error"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)
		})
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(forecastdomain.ErrInvalidRecordID)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_record_id", code)

	typ, code = classifyErrorForLog(fmt.Errorf("db down"))
	assert.Equal(t, "internal_error", typ)
	assert.Equal(t, "internal_error", code)
}
