package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/srg/btaudio/internal/adapter"
	"github.com/srg/btaudio/internal/audio"
	"github.com/srg/btaudio/internal/bus"
	"github.com/srg/btaudio/pkg/config"
)

var (
	resolveRequired []string
	resolveVerbose  bool
)

// resolveCmd runs one service discovery pass against a remote device
var resolveCmd = &cobra.Command{
	Use:   "resolve <address>",
	Short: "Resolve the audio services of a remote device",
	Long: `Run one service discovery pass against a remote device and print
the resulting identity path and discovered audio interfaces.

Example:
  btaudiod resolve AA:BB:CC:DD:EE:FF --require Headset --require Sink`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringArrayVarP(&resolveRequired, "require", "r", nil, "Required audio interface (repeatable)")
	resolveCmd.Flags().BoolVar(&resolveVerbose, "verbose", false, "Enable verbose logging")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	logger, err := configureLogger(cmd, "verbose", cfg.LogLevel)
	if err != nil {
		return err
	}

	client, err := adapter.NewDBusClient(cfg.BusName, cfg.AdapterPath, logger)
	if err != nil {
		return fmt.Errorf("failed to bind adapter: %w", err)
	}
	defer func() { _ = client.Close() }()

	broker := bus.NewBroker(cfg.SignalBuffer, logger)
	manager := audio.NewManager(client, broker, broker, logger)
	defer manager.Close()

	path, err := manager.CreateDevice(cmd.Context(), args[0], resolveRequired)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	_, _ = green.Fprintf(os.Stdout, "%s\n", path)
	for _, name := range []string{"Headset", "Gateway", "Sink", "Source", "Control", "Target"} {
		for _, supported := range manager.ListDevices([]string{name}) {
			if supported == path {
				_, _ = cyan.Fprintf(os.Stdout, "  %s\n", name)
			}
		}
	}
	return nil
}
