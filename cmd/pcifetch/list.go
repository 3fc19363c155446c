package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"example.com/pcifetch/pkg"
)

var (
	// List command flags
	listFormat   string
	listBackend  string
	listLogLevel string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List PCI devices",
	Long: `List all discovered PCI devices with their identification fields.

Available formats:
  • table (default) - Aligned columns
  • json - JSON output
  • simple - One address and name per line

Examples:
  pcifetch list                         # Default table format
  pcifetch list --format json           # JSON output
  pcifetch list --backend procfs        # Force the procfs backend`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, json, simple")
	listCmd.Flags().StringVar(&listBackend, "backend", "", "PCI backend: auto, sysfs, procfs")
	listCmd.Flags().StringVar(&listLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// listedDevice is the flattened, display-ready form of one device.
type listedDevice struct {
	Address  string `json:"address"`
	VendorID string `json:"vendor_id"`
	DeviceID string `json:"device_id"`
	Class    string `json:"class"`
	Revision string `json:"revision"`
	Name     string `json:"name"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listLogLevel != "" {
		if err := pkg.SetLogLevelFromString(listLogLevel); err != nil {
			return err
		}
	}
	backendName := cfg.Backend
	if listBackend != "" {
		backendName = listBackend
	}

	backend, err := pkg.OpenBackend(backendName)
	if err != nil {
		return fmt.Errorf("failed to initialize PCI backend: %v", err)
	}

	devices, err := pkg.Collect(backend)
	if err != nil {
		return err
	}

	db := pkg.LoadNameDB(cfg.PCIIDsPaths...)
	listed := make([]listedDevice, 0, len(devices))
	for _, dev := range devices {
		listed = append(listed, describe(dev, db))
	}

	switch listFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listed)
	case "simple":
		for _, d := range listed {
			fmt.Printf("%s\t%s\n", d.Address, d.Name)
		}
		return nil
	case "table", "":
		w := tabwriter.NewWriter(os.Stdout, 2, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ADDRESS\tVENDOR\tDEVICE\tCLASS\tREV\tNAME")
		for _, d := range listed {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				d.Address, d.VendorID, d.DeviceID, d.Class, d.Revision, d.Name)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format: %s", listFormat)
	}
}

// describe queries one device's attributes; fields that fail to resolve
// show as "-" rather than failing the listing.
func describe(dev *pkg.Device, db *pkg.NameDB) listedDevice {
	d := listedDevice{
		Address:  dev.Addr.String(),
		VendorID: "-", DeviceID: "-", Class: "-", Revision: "-", Name: "-",
	}
	vendor, verr := dev.Vendor()
	if verr == nil {
		d.VendorID = fmt.Sprintf("%04x", vendor)
	}
	device, derr := dev.DeviceID()
	if derr == nil {
		d.DeviceID = fmt.Sprintf("%04x", device)
	}
	if class, err := dev.Class(); err == nil && len(class) > 0 {
		d.Class = fmt.Sprintf("%02x", class[0])
		if len(class) > 1 {
			d.Class += fmt.Sprintf("%02x", class[1])
		}
	}
	if rev, err := dev.Revision(); err == nil {
		d.Revision = fmt.Sprintf("%02x", rev)
	}
	if verr == nil && derr == nil {
		d.Name = db.PrettyName(vendor, device)
	}
	return d
}
