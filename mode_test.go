package franklinwh

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modeListResult() map[string]any {
	return map[string]any{
		"currendId": 9323,
		"stromEn":   1,
		"list": []map[string]any{
			{
				"id":              9322,
				"oldIndex":        1,
				"name":            "Time Of Use (TOU)",
				"soc":             20.0,
				"minSoc":          5.0,
				"maxSoc":          100.0,
				"editSocFlag":     true,
				"workMode":        1,
				"electricityType": 1,
			},
			{
				"id":              9323,
				"oldIndex":        2,
				"name":            "Self-Consumption",
				"soc":             20.0,
				"editSocFlag":     true,
				"workMode":        2,
				"electricityType": 1,
			},
			{
				"id":          9324,
				"oldIndex":    3,
				"name":        "Emergency Backup",
				"soc":         100.0,
				"editSocFlag": false,
				"workMode":    3,
			},
		},
	}
}

func TestClient_Modes(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, modeListPath, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "ABC123", r.URL.Query().Get("gatewayId"))
		assert.Equal(t, "1", r.URL.Query().Get("showType"))

		writeEnvelope(t, w, modeListResult())
	}))

	list, err := c.Modes(context.Background())
	require.NoError(t, err)

	require.Len(t, list.List, 3)
	assert.Equal(t, 9323, list.CurrentID)
	assert.Equal(t, 1, list.StormHedgeEnabled)

	current, ok := list.Current()
	require.True(t, ok)
	assert.Equal(t, WorkModeSelfConsumption, current.WorkMode)
	assert.Equal(t, "Self-Consumption", current.Name)

	backup, ok := list.ByWorkMode(WorkModeEmergencyBackup)
	require.True(t, ok)
	assert.Equal(t, 9324, backup.ID)
	assert.False(t, backup.CanEditReserveSOC)

	_, ok = list.ByWorkMode(WorkModeVPP)
	assert.False(t, ok)
}

func TestClient_CurrentMode_UnknownID(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := modeListResult()
		result["currendId"] = 6 // storm hedge, not part of the catalogue
		writeEnvelope(t, w, result)
	}))

	_, err := c.CurrentMode(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestClient_SetMode(t *testing.T) {
	var called bool
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, modeUpdatePath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		called = true

		assert.Equal(t, "9322", r.Form.Get("currendId"))
		assert.Equal(t, "ABC123", r.Form.Get("gatewayId"))
		assert.Equal(t, "1", r.Form.Get("oldIndex"))
		assert.Equal(t, "25", r.Form.Get("soc"))
		assert.Equal(t, "1", r.Form.Get("stromEn"))
		assert.Equal(t, "1", r.Form.Get("workMode"))

		writeEnvelope(t, w, map[string]any{})
	}))

	mode := Mode{ID: 9322, OldIndex: 1, WorkMode: WorkModeTimeOfUse}
	require.NoError(t, c.SetMode(context.Background(), mode, 25))
	assert.True(t, called)
}

func TestClient_SetMode_RejectsVPP(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request may be issued for a VPP mode")
	}))

	err := c.SetMode(context.Background(), Mode{ID: 9, WorkMode: WorkModeVPP}, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVPPControlled)
}

func TestClient_SetBackupReserve(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(modeListPath, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, modeListResult())
	})
	mux.HandleFunc(reserveUpdatePath, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "ABC123", r.URL.Query().Get("gatewayId"))
		assert.Equal(t, "30", r.URL.Query().Get("soc"))
		assert.Equal(t, "2", r.URL.Query().Get("workMode"))

		writeEnvelope(t, w, map[string]any{})
	})

	c := testClient(t, mux)
	require.NoError(t, c.SetBackupReserve(context.Background(), 30))
}

func TestClient_SetBackupReserve_RejectsVPP(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, modeListPath, r.URL.Path, "only the mode list may be fetched")

		writeEnvelope(t, w, map[string]any{
			"currendId": 9,
			"list": []map[string]any{
				{"id": 9, "name": "VPP Mode", "workMode": 9},
			},
		})
	}))

	err := c.SetBackupReserve(context.Background(), 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVPPControlled)
}

func TestWorkMode_String(t *testing.T) {
	assert.Equal(t, "Time Of Use (TOU)", WorkModeTimeOfUse.String())
	assert.Equal(t, "Self-Consumption", WorkModeSelfConsumption.String())
	assert.Equal(t, "Emergency Backup", WorkModeEmergencyBackup.String())
	assert.Equal(t, "VPP Mode", WorkModeVPP.String())
	assert.Equal(t, "WorkMode(42)", WorkMode(42).String())
}
