package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"example.com/pcifetch/pkg"
)

var (
	// Monitor command flags
	monitorLogLevel string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch for PCI device hotplug",
	Long: `Watch the sysfs PCI device directory and re-enumerate on changes.

Each add or remove event triggers a fresh one-shot enumeration pass;
nothing is cached between passes.

Examples:
  pcifetch monitor                 # Watch until interrupted
  pcifetch monitor --log-level debug`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringVar(&monitorLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	if monitorLogLevel != "" {
		if err := pkg.SetLogLevelFromString(monitorLogLevel); err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	const devicesRoot = "/sys/bus/pci/devices"
	if err := watcher.Add(devicesRoot); err != nil {
		return fmt.Errorf("failed to watch %s: %v", devicesRoot, err)
	}

	devices, err := pkg.EnumerateAll()
	if err != nil {
		return err
	}
	pkg.Info("Monitoring %s (%d devices present)", devicesRoot, len(devices))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleMonitorEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			pkg.Error("File system monitor error: %v", err)
		case sig := <-sigCh:
			pkg.Info("Received %v, stopping monitor", sig)
			return nil
		}
	}
}

// handleMonitorEvent re-enumerates after a device appears or vanishes.
// Every pass starts from a fresh backend init; enumeration state is never
// reused across events.
func handleMonitorEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Remove) == 0 {
		return
	}
	name := filepath.Base(event.Name)
	if _, err := pkg.ParseAddress(name); err != nil {
		return
	}

	action := "added"
	if event.Op&fsnotify.Remove != 0 {
		action = "removed"
	}
	pkg.Info("PCI device %s %s", name, action)

	devices, err := pkg.EnumerateAll()
	if err != nil {
		pkg.Error("Re-enumeration failed: %v", err)
		return
	}
	pkg.Info("Enumeration pass complete: %d devices", len(devices))
}
