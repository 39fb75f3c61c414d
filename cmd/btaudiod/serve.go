package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/srg/btaudio/internal/adapter"
	"github.com/srg/btaudio/internal/audio"
	"github.com/srg/btaudio/internal/bus"
	"github.com/srg/btaudio/pkg/config"
)

var (
	serveConfigPath string
	serveLoopback   bool
	serveVerbose    bool
)

// serveCmd runs the audio manager against the system-bus adapter
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the audio manager daemon",
	Long: `Run the audio manager: connect to the adapter, keep the device
registry and answer until interrupted.

With --loopback the daemon runs against an in-process fake adapter
instead of the system bus, which is useful on machines without a
Bluetooth stack.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to YAML configuration file")
	serveCmd.Flags().BoolVar(&serveLoopback, "loopback", false, "Use the in-process loopback adapter")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Enable verbose logging")
}

func loadServeConfig() (*config.Config, error) {
	if serveConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(serveConfigPath)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	logger, err := configureLogger(cmd, "verbose", cfg.LogLevel)
	if err != nil {
		return err
	}

	var client adapter.Client
	if serveLoopback {
		client = adapter.NewLoopback()
	} else {
		dbusClient, err := adapter.NewDBusClient(cfg.BusName, cfg.AdapterPath, logger)
		if err != nil {
			return fmt.Errorf("failed to bind adapter: %w", err)
		}
		defer func() { _ = dbusClient.Close() }()
		client = dbusClient
	}

	broker := bus.NewBroker(cfg.SignalBuffer, logger)
	manager := audio.NewManager(client, broker, broker, logger)
	defer manager.Close()

	signals, cancel := broker.Subscribe()
	defer cancel()

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	mode := "system bus"
	if serveLoopback {
		mode = "loopback"
	}
	_, _ = green.Fprintf(os.Stdout, "btaudiod %s listening (adapter: %s)\n", formatVersion(version), mode)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-signals:
			_, _ = cyan.Fprintf(os.Stdout, "%s %s\n", sig.Name, sig.Path)
		case <-stop:
			logger.Info("Shutting down")
			return nil
		}
	}
}
