package franklinwh

import (
	"context"
	"net/http"

	"github.com/google/go-querystring/query"
)

const (
	powerControlGetPath = "/hes-gateway/terminal/tou/getPowerControlSetting"
	powerControlSetPath = "/hes-gateway/terminal/tou/setPowerControlV2"
	offGridPath         = "/hes-gateway/terminal/updateOffgrid"
	generatorPath       = "/hes-gateway/terminal/updateIotGenerator"
	stormListPath       = "/hes-gateway/terminal/weather/getProgressingStormList"
)

// GridChargeFlag controls whether the battery may charge from the grid.
type GridChargeFlag int

const (
	GridChargeDisabled GridChargeFlag = 1
	GridChargeEnabled  GridChargeFlag = 2
)

// GridExportFlag controls what may be exported to the grid.
type GridExportFlag int

const (
	GridExportSolarOnly       GridExportFlag = 1
	GridExportBatteryAndSolar GridExportFlag = 2
	GridExportDisabled        GridExportFlag = 3
)

// PowerControlSetting holds the grid charge/export flags and their kW limits.
type PowerControlSetting struct {
	GridFeedMax     float64        `json:"gridFeedMax"`
	GridFeedMaxFlag GridExportFlag `json:"gridFeedMaxFlag"`
	GridMax         float64        `json:"gridMax"`
	GridMaxFlag     GridChargeFlag `json:"gridMaxFlag"`
}

type powerControlParams struct {
	GatewayID string `url:"gatewayId"`
	Lang      string `url:"lang"`
}

// PowerControl retrieves the grid charge/export settings.
func (c *Client) PowerControl(ctx context.Context) (*PowerControlSetting, error) {
	params, err := query.Values(powerControlParams{
		GatewayID: c.gatewayID,
		Lang:      defaultLang,
	})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, powerControlGetPath, params, nil)
	if err != nil {
		return nil, err
	}

	var setting PowerControlSetting
	if err := c.call(req, &setting); err != nil {
		return nil, err
	}

	return &setting, nil
}

// SetPowerControl applies the grid charge/export settings. The export limit
// is only sent when export is enabled; a negative limit means unlimited. This
// changes the behavior of the physical device; the call is never retried.
func (c *Client) SetPowerControl(ctx context.Context, setting PowerControlSetting) error {
	body := map[string]any{
		"gatewayId":       c.gatewayID,
		"gridMax":         setting.GridMax,
		"gridMaxFlag":     setting.GridMaxFlag,
		"gridFeedMaxFlag": setting.GridFeedMaxFlag,
	}
	if setting.GridFeedMaxFlag != GridExportDisabled {
		feedMax := setting.GridFeedMax
		if feedMax < 0 {
			feedMax = -1.0
		}
		body["gridFeedMax"] = feedMax
	}

	req, err := c.newRequest(ctx, http.MethodPost, powerControlSetPath, nil, body)
	if err != nil {
		return err
	}

	return c.call(req, nil)
}

type offGridRequest struct {
	GatewayID  string `json:"gatewayId"`
	OffGridSet int    `json:"offgridSet"`
	OffGridSOC int    `json:"offgridSoc"`
}

// SetGridStatus takes the installation off-grid or back on-grid. reserveSOC
// is the charge percentage to protect while off-grid. This changes the
// behavior of the physical device; the call is never retried.
func (c *Client) SetGridStatus(ctx context.Context, status GridStatus, reserveSOC int) error {
	set := 0
	if status != GridStatusNormal {
		set = 1
	}

	req, err := c.newRequest(ctx, http.MethodPost, offGridPath, nil, offGridRequest{
		GatewayID:  c.gatewayID,
		OffGridSet: set,
		OffGridSOC: reserveSOC,
	})
	if err != nil {
		return err
	}

	return c.call(req, nil)
}

type generatorRequest struct {
	GatewayID string `json:"gatewayId"`
	// ManuSw is 1 to stop the generator, 2 to start it.
	ManuSw int `json:"manuSw"`
	Opt    int `json:"opt"`
}

// SetGenerator starts or stops the generator module. This changes the
// behavior of the physical device; the call is never retried.
func (c *Client) SetGenerator(ctx context.Context, enabled bool) error {
	manuSw := 1
	if enabled {
		manuSw = 2
	}

	req, err := c.newRequest(ctx, http.MethodPost, generatorPath, nil, generatorRequest{
		GatewayID: c.gatewayID,
		ManuSw:    manuSw,
		Opt:       1,
	})
	if err != nil {
		return err
	}

	return c.call(req, nil)
}

// Storm is one weather event tracked by Storm Hedge.
type Storm struct {
	ID           int    `json:"id"`
	Onset        Time   `json:"onset"`
	Severity     string `json:"severity"`
	DurationMins int    `json:"durationTime"`
}

type stormListParams struct {
	// EquipNo is the gateway serial number; this endpoint names it
	// differently from the rest of the API.
	EquipNo string `url:"equipNo"`
	Lang    string `url:"lang"`
}

// Storms lists the weather events currently tracked for the installation.
// Only populated while Storm Hedge is active.
func (c *Client) Storms(ctx context.Context) ([]Storm, error) {
	params, err := query.Values(stormListParams{
		EquipNo: c.gatewayID,
		Lang:    defaultLang,
	})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, stormListPath, params, nil)
	if err != nil {
		return nil, err
	}

	var storms []Storm
	if err := c.call(req, &storms); err != nil {
		return nil, err
	}

	return storms, nil
}
