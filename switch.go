package franklinwh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
)

const sendMqttPath = "/hes-gateway/terminal/sendMqtt"

// Passthrough command types. The vendor removed client-side MQTT; the cloud
// accepts the same command frames over HTTPS instead.
const (
	cmdStatus       = 203
	cmdSwitchConfig = 311
	cmdSwitchUsage  = 353
)

// ErrMergedSwitches is returned when trying to set merged smart switches 1
// and 2 to different states.
var ErrMergedSwitches = errors.New("smart switches 1 and 2 are merged")

// SwitchState holds the desired or reported state of the three smart
// circuits. nil leaves a circuit unchanged when setting.
type SwitchState [3]*bool

// Bool returns a pointer to b, for building a [SwitchState].
func Bool(b bool) *bool {
	return &b
}

func eqBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// frame is the command envelope the gateway firmware expects. dataArea
// carries the inner payload verbatim; len and crc are computed over exactly
// those bytes.
type frame struct {
	Lang      string          `json:"lang"`
	CmdType   int             `json:"cmdType"`
	EquipNo   string          `json:"equipNo"`
	Type      int             `json:"type"`
	TimeStamp int64           `json:"timeStamp"`
	Snno      int64           `json:"snno"`
	Len       int             `json:"len"`
	CRC       string          `json:"crc"`
	DataArea  json.RawMessage `json:"dataArea"`
}

func buildFrame(gatewayID string, snno int64, cmdType int, data any) (json.RawMessage, error) {
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal command payload: %w", err)
	}

	return json.Marshal(frame{
		Lang:      "EN_US",
		CmdType:   cmdType,
		EquipNo:   gatewayID,
		Type:      0,
		TimeStamp: time.Now().Unix(),
		Snno:      snno,
		Len:       len(blob),
		CRC:       fmt.Sprintf("%08X", crc32.ChecksumIEEE(blob)),
		DataArea:  blob,
	})
}

type sendMqttParams struct {
	GatewayID string `url:"gatewayId"`
	Lang      string `url:"lang"`
}

// command sends one framed passthrough command and decodes the gateway's
// answer into dest. The response result carries the answer as a JSON string
// in its dataArea field.
func (c *Client) command(ctx context.Context, cmdType int, data, dest any) error {
	payload, err := buildFrame(c.gatewayID, c.snno.Add(1), cmdType, data)
	if err != nil {
		return err
	}

	params, err := query.Values(sendMqttParams{
		GatewayID: c.gatewayID,
		Lang:      defaultLang,
	})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, sendMqttPath, params, payload)
	if err != nil {
		return err
	}

	var result struct {
		DataArea string `json:"dataArea"`
	}
	if err := c.call(req, &result); err != nil {
		return err
	}

	if dest == nil {
		return nil
	}

	if result.DataArea == "" {
		return &ParseError{Detail: "missing dataArea field"}
	}
	if err := json.Unmarshal([]byte(result.DataArea), dest); err != nil {
		return &ParseError{Detail: "invalid dataArea field", Err: err}
	}

	return nil
}

// deviceStatus is the subset of the cmdType 203 answer this library reads.
type deviceStatus struct {
	// ProLoad reports each smart circuit: 1 on, 0 off.
	ProLoad []int `json:"pro_load"`
}

type statusCommand struct {
	Opt         int `json:"opt"`
	RefreshData int `json:"refreshData"`
}

// switchUsage is the cmdType 353 smart-circuit load report. Powers are kW,
// energies kWh for the current day.
type switchUsage struct {
	Switch1Power    float64 `json:"SW1ExpPower"`
	Switch2Power    float64 `json:"SW2ExpPower"`
	V2LPower        float64 `json:"CarSWPower"`
	Switch1Energy   float64 `json:"SW1ExpEnergy"`
	Switch2Energy   float64 `json:"SW2ExpEnergy"`
	V2LExportEnergy float64 `json:"CarSWExpEnergy"`
	V2LImportEnergy float64 `json:"CarSWImpEnergy"`
}

type orderCommand struct {
	Opt   int    `json:"opt"`
	Order string `json:"order"`
}

func (c *Client) switchUsage(ctx context.Context) (*switchUsage, error) {
	var usage switchUsage
	err := c.command(ctx, cmdSwitchUsage, orderCommand{Opt: 0, Order: c.gatewayID}, &usage)
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// SmartSwitchState reports whether each smart circuit is on.
func (c *Client) SmartSwitchState(ctx context.Context) (SwitchState, error) {
	var status deviceStatus
	err := c.command(ctx, cmdStatus, statusCommand{Opt: 1, RefreshData: 1}, &status)
	if err != nil {
		return SwitchState{}, err
	}

	if len(status.ProLoad) < len(SwitchState{}) {
		return SwitchState{}, &ParseError{
			Detail: fmt.Sprintf("pro_load reports %d circuits, expected 3", len(status.ProLoad)),
		}
	}

	var state SwitchState
	for i := range state {
		state[i] = Bool(status.ProLoad[i] == 1)
	}
	return state, nil
}

// SetSmartSwitchState turns smart circuits on or off. nil entries are left
// unchanged. The gateway's current switch configuration is fetched first and
// echoed back with only the requested circuits modified, since the firmware
// expects the full configuration block. Switches 1 and 2 can be merged at the
// installation; setting merged switches to different states is refused. This
// changes the behavior of the physical device; the call is never retried.
func (c *Client) SetSmartSwitchState(ctx context.Context, state SwitchState) error {
	// The configuration block is device-defined and must round-trip with
	// all fields the firmware sent, known and unknown alike.
	var config map[string]any
	if err := c.command(ctx, cmdSwitchConfig, orderCommand{Opt: 0, Order: c.gatewayID}, &config); err != nil {
		return err
	}

	delete(config, "modeChoose")
	delete(config, "result")
	config["opt"] = 1

	if merged, ok := config["SwMerge"].(float64); ok && merged == 1 {
		if !eqBoolPtr(state[0], state[1]) {
			return fmt.Errorf("refusing to set switch 1 and 2 to different states: %w", ErrMergedSwitches)
		}
	}

	for i, desired := range state {
		if desired == nil {
			continue
		}

		sw := i + 1
		mode := 0
		if *desired {
			mode = 1
		}
		config[fmt.Sprintf("Sw%dMsgType", sw)] = 1
		config[fmt.Sprintf("Sw%dMode", sw)] = mode
		config[fmt.Sprintf("Sw%dProLoad", sw)] = mode ^ 1
	}

	return c.command(ctx, cmdSwitchConfig, config, nil)
}
