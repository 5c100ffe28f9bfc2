package franklinwh

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-querystring/query"
)

const compositeInfoPath = "/hes-gateway/terminal/getDeviceCompositeInfo"

// GridStatus is the state of the grid connection.
type GridStatus int

const (
	// GridStatusNormal means the grid connection is up.
	GridStatusNormal GridStatus = 0
	// GridStatusDown means the grid is down for a reason external to the
	// gateway.
	GridStatusDown GridStatus = 1
	// GridStatusOff means the installation was taken off-grid at the
	// gateway ("Go Off-Grid" in the app).
	GridStatusOff GridStatus = 2
)

func (g GridStatus) String() string {
	switch g {
	case GridStatusNormal:
		return "normal"
	case GridStatusDown:
		return "down"
	case GridStatusOff:
		return "off"
	}
	return fmt.Sprintf("GridStatus(%d)", int(g))
}

// gridStatusFromReason maps the runtime "offgridreason" field. A missing
// field or -1 means the grid is up.
func gridStatusFromReason(reason *int) (GridStatus, error) {
	if reason == nil {
		return GridStatusNormal, nil
	}

	switch *reason {
	case -1:
		return GridStatusNormal, nil
	case 0:
		return GridStatusDown, nil
	case 1:
		return GridStatusOff, nil
	}

	return 0, &ParseError{Detail: fmt.Sprintf("unknown offgridreason value %d", *reason)}
}

// Alarm is one active alarm on the installation.
type Alarm struct {
	ID                   int    `json:"id"`
	GatewayID            string `json:"gatewayId"`
	AlarmForSerialNumber string `json:"alarmEqSn"`
	AlarmCode            string `json:"alarmCode"`
	Time                 Time   `json:"time"`
	Name                 string `json:"logName"`
	Explanation          string `json:"alarmExplanation"`
	Plan                 string `json:"plan"`
}

// RuntimeData is the live measurement block of the composite snapshot.
// Power figures are kW; energy totals are kWh accumulated for the current day
// in the installation's local time.
type RuntimeData struct {
	ModeID   int    `json:"mode"`
	ModeName string `json:"name"`

	// RunStatus: 0 standby, 1 charging, 2 discharging, 5-7 same off-grid.
	RunStatus int `json:"run_status"`

	SOC     float64   `json:"soc"`
	EachSOC []float64 `json:"fhpSoc"`

	Battery     float64   `json:"p_fhp"`
	Solar       float64   `json:"p_sun"`
	Grid        float64   `json:"p_uti"`
	Home        float64   `json:"p_load"`
	Generator   float64   `json:"p_gen"`
	EachBattery []float64 `json:"fhpPower"`

	// GeneratorStatus above 1 means the generator is running.
	GeneratorStatus int `json:"genStat"`

	TotalBatteryCharge    float64 `json:"kwh_fhp_chg"`
	TotalBatteryDischarge float64 `json:"kwh_fhp_di"`
	TotalGridImport       float64 `json:"kwh_uti_in"`
	TotalGridExport       float64 `json:"kwh_uti_out"`
	TotalSolar            float64 `json:"kwh_sun"`
	TotalGenerator        float64 `json:"kwh_gen"`
	TotalHome             float64 `json:"kwh_load"`

	OffGridReason *int `json:"offgridreason,omitempty"`
}

// GridStatus derives the grid connection state from the snapshot.
func (rd *RuntimeData) GridStatus() (GridStatus, error) {
	return gridStatusFromReason(rd.OffGridReason)
}

// CompositeInfo is the runtime snapshot of the installation.
type CompositeInfo struct {
	CurrentWorkMode int         `json:"currentWorkMode"`
	DeviceStatus    int         `json:"deviceStatus"`
	RuntimeData     RuntimeData `json:"runtimeData"`
	Valid           bool        `json:"valid"`
	CurrentAlarms   []Alarm     `json:"currentAlarmVOList"`
}

type compositeInfoParams struct {
	GatewayID   string `url:"gatewayId"`
	Lang        string `url:"lang"`
	RefreshFlag int    `url:"refreshFlag"`
}

// CompositeInfo retrieves the live snapshot of the installation: power flow,
// state of charge, daily totals, and active alarms.
func (c *Client) CompositeInfo(ctx context.Context) (*CompositeInfo, error) {
	params, err := query.Values(compositeInfoParams{
		GatewayID:   c.gatewayID,
		Lang:        defaultLang,
		RefreshFlag: 1,
	})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, compositeInfoPath, params, nil)
	if err != nil {
		return nil, err
	}

	var info CompositeInfo
	if err := c.call(req, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// Current holds instantaneous power measurements in kW.
type Current struct {
	SolarProduction     float64
	GeneratorProduction float64
	GeneratorEnabled    bool
	BatteryUse          float64
	GridUse             float64
	HomeLoad            float64
	BatterySOC          float64
	Switch1Load         float64
	Switch2Load         float64
	V2LUse              float64
	GridStatus          GridStatus
}

// Totals holds energy totals in kWh for the current day, in the
// installation's local time.
type Totals struct {
	BatteryCharge    float64
	BatteryDischarge float64
	GridImport       float64
	GridExport       float64
	Solar            float64
	Generator        float64
	HomeUse          float64
	Switch1Use       float64
	Switch2Use       float64
	V2LExport        float64
	V2LImport        float64
}

// Stats combines the instantaneous and daily-total statistics of an
// installation.
type Stats struct {
	Current Current
	Totals  Totals
}

// Stats assembles current and total statistics from the composite snapshot
// and the smart-circuit load report. Two round-trips, no caching.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	info, err := c.CompositeInfo(ctx)
	if err != nil {
		return nil, err
	}

	usage, err := c.switchUsage(ctx)
	if err != nil {
		return nil, err
	}

	rd := info.RuntimeData
	gridStatus, err := rd.GridStatus()
	if err != nil {
		return nil, err
	}

	return &Stats{
		Current: Current{
			SolarProduction:     rd.Solar,
			GeneratorProduction: rd.Generator,
			GeneratorEnabled:    rd.GeneratorStatus > 1,
			BatteryUse:          rd.Battery,
			GridUse:             rd.Grid,
			HomeLoad:            rd.Home,
			BatterySOC:          rd.SOC,
			Switch1Load:         usage.Switch1Power,
			Switch2Load:         usage.Switch2Power,
			V2LUse:              usage.V2LPower,
			GridStatus:          gridStatus,
		},
		Totals: Totals{
			BatteryCharge:    rd.TotalBatteryCharge,
			BatteryDischarge: rd.TotalBatteryDischarge,
			GridImport:       rd.TotalGridImport,
			GridExport:       rd.TotalGridExport,
			Solar:            rd.TotalSolar,
			Generator:        rd.TotalGenerator,
			HomeUse:          rd.TotalHome,
			Switch1Use:       usage.Switch1Energy,
			Switch2Use:       usage.Switch2Energy,
			V2LExport:        usage.V2LExportEnergy,
			V2LImport:        usage.V2LImportEnergy,
		},
	}, nil
}
