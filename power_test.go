package franklinwh

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PowerControl(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, powerControlGetPath, r.URL.Path)
		assert.Equal(t, "ABC123", r.URL.Query().Get("gatewayId"))

		writeEnvelope(t, w, map[string]any{
			"gridFeedMax":     5.0,
			"gridFeedMaxFlag": 1,
			"gridMax":         10.0,
			"gridMaxFlag":     2,
		})
	}))

	setting, err := c.PowerControl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, GridExportSolarOnly, setting.GridFeedMaxFlag)
	assert.Equal(t, GridChargeEnabled, setting.GridMaxFlag)
	assert.Equal(t, 5.0, setting.GridFeedMax)
	assert.Equal(t, 10.0, setting.GridMax)
}

func TestClient_SetPowerControl(t *testing.T) {
	tests := []struct {
		name        string
		setting     PowerControlSetting
		wantFeedMax *float64
	}{
		{
			name: "export enabled sends the limit",
			setting: PowerControlSetting{
				GridFeedMax:     5.0,
				GridFeedMaxFlag: GridExportBatteryAndSolar,
				GridMax:         10.0,
				GridMaxFlag:     GridChargeEnabled,
			},
			wantFeedMax: ptr(5.0),
		},
		{
			name: "negative limit means unlimited",
			setting: PowerControlSetting{
				GridFeedMax:     -7.0,
				GridFeedMaxFlag: GridExportSolarOnly,
				GridMaxFlag:     GridChargeDisabled,
			},
			wantFeedMax: ptr(-1.0),
		},
		{
			name: "export disabled omits the limit",
			setting: PowerControlSetting{
				GridFeedMax:     5.0,
				GridFeedMaxFlag: GridExportDisabled,
				GridMaxFlag:     GridChargeDisabled,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, powerControlSetPath, r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				writeEnvelope(t, w, map[string]any{})
			}))

			require.NoError(t, c.SetPowerControl(context.Background(), tt.setting))

			assert.Equal(t, "ABC123", body["gatewayId"])
			assert.Equal(t, float64(tt.setting.GridMaxFlag), body["gridMaxFlag"])
			if tt.wantFeedMax == nil {
				assert.NotContains(t, body, "gridFeedMax")
			} else {
				assert.Equal(t, *tt.wantFeedMax, body["gridFeedMax"])
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestClient_SetGridStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  GridStatus
		wantSet int
	}{
		{name: "back on grid", status: GridStatusNormal, wantSet: 0},
		{name: "off grid", status: GridStatusOff, wantSet: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, offGridPath, r.URL.Path)

				var body offGridRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "ABC123", body.GatewayID)
				assert.Equal(t, tt.wantSet, body.OffGridSet)
				assert.Equal(t, 20, body.OffGridSOC)

				writeEnvelope(t, w, map[string]any{})
			}))

			require.NoError(t, c.SetGridStatus(context.Background(), tt.status, 20))
		})
	}
}

func TestClient_SetGenerator(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		wantManuSw int
	}{
		{name: "start", enabled: true, wantManuSw: 2},
		{name: "stop", enabled: false, wantManuSw: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, generatorPath, r.URL.Path)

				var body generatorRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.wantManuSw, body.ManuSw)
				assert.Equal(t, 1, body.Opt)

				writeEnvelope(t, w, map[string]any{})
			}))

			require.NoError(t, c.SetGenerator(context.Background(), tt.enabled))
		})
	}
}

func TestClient_Storms(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, stormListPath, r.URL.Path)
		assert.Equal(t, "ABC123", r.URL.Query().Get("equipNo"))

		writeEnvelope(t, w, []map[string]any{
			{
				"id":           311,
				"onset":        "2026-08-24 18:00:00",
				"severity":     "Severe",
				"durationTime": 240,
			},
		})
	}))

	storms, err := c.Storms(context.Background())
	require.NoError(t, err)

	require.Len(t, storms, 1)
	assert.Equal(t, "Severe", storms[0].Severity)
	assert.Equal(t, 240, storms[0].DurationMins)
	assert.Equal(t, 24, storms[0].Onset.Day())
}
