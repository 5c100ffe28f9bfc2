package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"thde.io/franklinwh"
)

var workModes = map[string]franklinwh.WorkMode{
	"tou":              franklinwh.WorkModeTimeOfUse,
	"self-consumption": franklinwh.WorkModeSelfConsumption,
	"backup":           franklinwh.WorkModeEmergencyBackup,
}

var setModeReserve int

var setModeCmd = &cobra.Command{
	Use:   "set-mode <tou|self-consumption|backup>",
	Short: "Switch the gateway to another operating mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workMode, ok := workModes[args[0]]
		if !ok {
			return fmt.Errorf("unknown mode %q", args[0])
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		modes, err := c.Modes(cmd.Context())
		if err != nil {
			return err
		}
		mode, ok := modes.ByWorkMode(workMode)
		if !ok {
			return fmt.Errorf("mode %q is not configured for this installation", args[0])
		}

		reserve := setModeReserve
		if reserve < 0 {
			reserve = int(mode.ReserveSOC)
		}

		return c.SetMode(cmd.Context(), mode, reserve)
	},
}

var setReserveCmd = &cobra.Command{
	Use:   "set-reserve <percent>",
	Short: "Set the backup reserve of the active mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		soc, err := strconv.Atoi(args[0])
		if err != nil || soc < 0 || soc > 100 {
			return fmt.Errorf("invalid reserve %q, expected 0-100", args[0])
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		return c.SetBackupReserve(cmd.Context(), soc)
	},
}

var setSwitchCmd = &cobra.Command{
	Use:   "set-switch <1|2|3> <on|off>",
	Short: "Turn a smart circuit on or off",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > 3 {
			return fmt.Errorf("invalid switch %q, expected 1-3", args[0])
		}
		on, err := parseOnOff(args[1])
		if err != nil {
			return err
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		var state franklinwh.SwitchState
		state[n-1] = franklinwh.Bool(on)
		return c.SetSmartSwitchState(cmd.Context(), state)
	},
}

var setGeneratorCmd = &cobra.Command{
	Use:   "set-generator <on|off>",
	Short: "Start or stop the generator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		return c.SetGenerator(cmd.Context(), on)
	},
}

var setGridReserve int

var setGridCmd = &cobra.Command{
	Use:   "set-grid <on|off>",
	Short: "Take the installation off-grid or back on-grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		status := franklinwh.GridStatusOff
		if on {
			status = franklinwh.GridStatusNormal
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		return c.SetGridStatus(cmd.Context(), status, setGridReserve)
	},
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid state %q, expected on or off", s)
}

func init() {
	setModeCmd.Flags().IntVar(&setModeReserve, "reserve", -1,
		"backup reserve percentage, defaults to the mode's configured value")
	setGridCmd.Flags().IntVar(&setGridReserve, "reserve", 20,
		"charge percentage to protect while off-grid")
}
