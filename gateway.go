package franklinwh

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
)

const (
	gatewayListPath = "/hes-gateway/terminal/getHomeGatewayList"
	deviceInfoPath  = "/hes-gateway/terminal/getDeviceInfoV2"
)

// Gateway is one installation registered to the account.
type Gateway struct {
	ID       string `json:"id"`
	Status   int    `json:"status"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	ZoneInfo string `json:"zoneInfo"`
}

// Gateways lists the installations visible to the account behind the token.
// Useful to discover the gateway serial number when it is not known upfront.
func (c *Client) Gateways(ctx context.Context) ([]Gateway, error) {
	req, err := c.newRequest(ctx, http.MethodGet, gatewayListPath, nil, nil)
	if err != nil {
		return nil, err
	}

	var gateways []Gateway
	if err := c.call(req, &gateways); err != nil {
		return nil, err
	}

	return gateways, nil
}

// BatteryInfo describes one aPower battery unit.
type BatteryInfo struct {
	Serial     int `json:"id"`
	CapacityWH int `json:"rateBatCap"`
	PowerW     int `json:"ratedPwr"`
}

// DeviceInfo describes the hardware of an installation.
type DeviceInfo struct {
	GatewayID               string        `json:"gatewayId"`
	DeviceTime              Time          `json:"deviceTime"`
	TimeZone                string        `json:"zoneInfo"`
	SystemHardwareVersion   int           `json:"sysHdVersionInt"`
	TotalBatteryCapacityKWH float64       `json:"totalCap"`
	TotalBatteryPowerKW     float64       `json:"fixedPowerTotal"`
	Batteries               []BatteryInfo `json:"batteryList"`
}

// Location resolves the installation's IANA time zone. Device timestamps are
// wall-clock values in this zone.
func (d *DeviceInfo) Location() (*time.Location, error) {
	return time.LoadLocation(d.TimeZone)
}

type deviceInfoParams struct {
	GatewayID string `url:"gatewayId"`
	Lang      string `url:"lang"`
}

// DeviceInfo retrieves the hardware and battery inventory of the gateway.
func (c *Client) DeviceInfo(ctx context.Context) (*DeviceInfo, error) {
	params, err := query.Values(deviceInfoParams{
		GatewayID: c.gatewayID,
		Lang:      defaultLang,
	})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, deviceInfoPath, params, nil)
	if err != nil {
		return nil, err
	}

	var info DeviceInfo
	if err := c.call(req, &info); err != nil {
		return nil, err
	}

	return &info, nil
}
