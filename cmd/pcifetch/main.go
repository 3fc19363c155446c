package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"example.com/pcifetch/internal/config"
	"example.com/pcifetch/pkg"
)

var (
	// Global flags
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "pcifetch",
	Short: "pcifetch - PCI device discovery and system fetch",
	Long: `pcifetch discovers attached PCI devices through sysfs or procfs and
prints system identity plus GPU information, fetch-style.

The sysfs backend is preferred; when /sys/bus/pci/devices is missing the
tool falls back to raw PCI configuration space under /proc/bus/pci.

Examples:
  pcifetch                      # user@host plus detected GPUs
  pcifetch list                 # List all PCI devices
  pcifetch list --format json   # List devices in JSON format
  pcifetch monitor              # Re-enumerate on device hotplug`,
	RunE: runFetch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML config file")
}

// loadConfig resolves the effective configuration and applies the log
// level. Flag-level overrides happen in the individual commands.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cfg.LogLevel != "" {
		if err := pkg.SetLogLevelFromString(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
