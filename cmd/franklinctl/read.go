package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thde.io/franklinwh"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange the credentials for a bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := franklinwh.NewTokenProvider(
			viper.GetString("email"), viper.GetString("password"))
		if err != nil {
			return err
		}

		account, err := provider.Login(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(account)
	},
}

var gatewaysCmd = &cobra.Command{
	Use:   "gateways",
	Short: "List the gateways registered to the account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Listing works without a gateway serial; it is how the serial is
		// discovered in the first place.
		token := viper.GetString("token")
		if token == "" {
			provider, err := franklinwh.NewTokenProvider(
				viper.GetString("email"), viper.GetString("password"))
			if err != nil {
				return err
			}
			if token, err = provider.Token(cmd.Context()); err != nil {
				return err
			}
		}

		gateways, err := franklinwh.New(token, "").Gateways(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(gateways)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the hardware and battery inventory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		info, err := c.DeviceInfo(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(info)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show current power flow and daily energy totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		stats, err := c.Stats(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(stats)
	},
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "Show the operating mode catalogue and the active mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		modes, err := c.Modes(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(modes)
	},
}

var energyCmd = &cobra.Command{
	Use:   "energy [date]",
	Short: "Show the 5-minute energy flow series for a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now()
		if len(args) == 1 {
			var err error
			if day, err = time.Parse("2006-01-02", args[0]); err != nil {
				return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
			}
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		energy, err := c.EnergyByDay(cmd.Context(), day)
		if err != nil {
			return err
		}
		if energy.Empty() {
			return fmt.Errorf("no measurements for %s", day.Format("2006-01-02"))
		}

		return printJSON(energy)
	},
}

var stormsCmd = &cobra.Command{
	Use:   "storms",
	Short: "List the weather events tracked by Storm Hedge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		storms, err := c.Storms(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(storms)
	},
}

var switchesCmd = &cobra.Command{
	Use:   "switches",
	Short: "Show the state of the smart circuits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		state, err := c.SmartSwitchState(cmd.Context())
		if err != nil {
			return err
		}

		for i, on := range state {
			fmt.Printf("switch %d: %s\n", i+1, onOff(on != nil && *on))
		}
		return nil
	},
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
