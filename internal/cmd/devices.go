package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	appconfig "github.com/Iron-Ham/padlog/internal/config"
	"github.com/Iron-Ham/padlog/internal/device"
	"github.com/Iron-Ham/padlog/internal/util"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List connected game controllers",
	Long: `List joystick device nodes matching device.pattern with their name,
axis count, button count and whether they report a hat (D-pad).

The first controller listed is the one 'padlog record' uses when
device.path is not set.`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

var devicesPattern string

func init() {
	devicesCmd.Flags().StringVar(&devicesPattern, "pattern", "", "glob over device nodes (default from device.pattern)")
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	pattern := devicesPattern
	if pattern == "" {
		pattern = appconfig.Get().Device.Pattern
	}

	infos, err := device.Discover(pattern)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintf(out, "No controllers found matching %s\n", pattern)
		return nil
	}

	fmt.Fprintf(out, "%-20s %-32s %5s %8s %4s\n", "PATH", "NAME", "AXES", "BUTTONS", "HAT")
	for _, info := range infos {
		if info.Err != nil {
			fmt.Fprintf(out, "%-20s unavailable: %v\n", info.Path, info.Err)
			continue
		}
		hat := "no"
		if info.Caps.HasHat {
			hat = "yes"
		}
		fmt.Fprintf(out, "%-20s %s %5d %8d %4s\n",
			info.Path, util.FitANSI(info.Name, 32), info.Caps.Axes, info.Caps.Buttons, hat)
	}
	return nil
}
