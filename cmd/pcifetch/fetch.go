package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"example.com/pcifetch/pkg"
	"example.com/pcifetch/pkg/ident"
)

var (
	// Fetch command flags
	fetchLogLevel string
	fetchGPULimit int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print user@host and detected GPUs",
	Long: `Print the current user and hostname followed by the GPUs found on the
PCI bus, with names resolved against the pci.ids database.

Examples:
  pcifetch fetch                # Same as bare "pcifetch"
  pcifetch fetch --gpus 4       # Show up to 4 GPUs`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fetchCmd.Flags().IntVar(&fetchGPULimit, "gpus", 0, "Maximum number of GPUs to show (0 = config default)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if fetchLogLevel != "" {
		if err := pkg.SetLogLevelFromString(fetchLogLevel); err != nil {
			return err
		}
	}
	limit := cfg.GPULimit
	if fetchGPULimit > 0 {
		limit = fetchGPULimit
	}

	sys := ident.GetSystemName()
	host := sys.Node()
	user := "?"
	if pw, err := ident.LookupUID(ident.CurrentUID()); err != nil {
		pkg.Warn("Failed to look up current user: %v", err)
	} else {
		user = pw.Name
	}
	fmt.Printf("%s@%s\n", user, host)

	backend, err := pkg.OpenBackend(cfg.Backend)
	if err != nil {
		return fmt.Errorf("failed to initialize PCI backend: %v", err)
	}
	defer backend.Close()

	db := pkg.LoadNameDB(cfg.PCIIDsPaths...)
	return printGPUs(backend, db, limit)
}

// printGPUs pulls the backend until limit GPUs have been printed or the
// walk ends. Per-device failures are logged and skipped; one broken entry
// never kills the fetch.
func printGPUs(backend pkg.Backend, db *pkg.NameDB, limit int) error {
	shown := 0
	for shown < limit {
		dev, err := backend.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			pkg.Warn("PCI error emitted by backend: %v", err)
			continue
		}
		gpu, err := dev.IsGPU()
		if err != nil {
			pkg.Warn("Failed to classify %v: %v", dev, err)
			continue
		}
		if !gpu {
			continue
		}
		vendor, err := dev.Vendor()
		if err != nil {
			pkg.Warn("Failed to fetch PCI vendor for %v: %v", dev, err)
			continue
		}
		device, err := dev.DeviceID()
		if err != nil {
			pkg.Warn("Failed to fetch PCI device for %v: %v", dev, err)
			continue
		}
		fmt.Println(db.PrettyName(vendor, device))
		shown++
	}
	return nil
}
