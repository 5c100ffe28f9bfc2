package franklinwh

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
)

const energyByDayPath = "/api-energy/power/getFhpPowerByDay"

// DailyEnergy is one day of energy flow measurements in 5-minute resolution.
// The parallel arrays are indexed by DeviceTimes; the power*Array fields are
// kWh rates between the battery (fhp), solar, grid and home, with the
// vendor's "Gird" misspellings mirrored as-is.
type DailyEnergy struct {
	SOC         []float64 `json:"socArray"`
	TotalKWH    []float64 `json:"kwhTotalArray"`
	RunStatus   []int     `json:"runStatusArray"`
	DeviceTimes []string  `json:"deviceTimeArray"`

	SolarToHome    []float64 `json:"powerSolarHomeArray"`
	SolarToGrid    []float64 `json:"powerSolarGirdArray"`
	SolarToBattery []float64 `json:"powerSolarFhpArray"`

	GridToBattery []float64 `json:"powerGirdFhpArray"`
	GridToHome    []float64 `json:"powerGirdHomeArray"`

	BatteryToGrid []float64 `json:"powerFhpGirdArray"`
	BatteryToHome []float64 `json:"powerFhpHomeArray"`
}

// Empty reports whether the vendor returned no measurements for the day.
func (d *DailyEnergy) Empty() bool {
	return len(d.DeviceTimes) == 0 &&
		len(d.SOC) == 0 &&
		len(d.SolarToHome) == 0 &&
		len(d.GridToHome) == 0 &&
		len(d.BatteryToHome) == 0
}

type energyByDayParams struct {
	GatewayID string `url:"gatewayId"`
	Lang      string `url:"lang"`
	DayTime   string `url:"dayTime"`
}

// EnergyByDay retrieves the energy flow series for one day. The day is
// interpreted as a calendar date in its own location; fetch [DeviceInfo] to
// resolve the installation's time zone.
func (c *Client) EnergyByDay(ctx context.Context, day time.Time) (*DailyEnergy, error) {
	params, err := query.Values(energyByDayParams{
		GatewayID: c.gatewayID,
		Lang:      defaultLang,
		DayTime:   day.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, energyByDayPath, params, nil)
	if err != nil {
		return nil, err
	}

	var energy DailyEnergy
	if err := c.call(req, &energy); err != nil {
		return nil, err
	}

	return &energy, nil
}
