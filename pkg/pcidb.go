package pkg

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/siderolabs/go-pcidb/pkg/pcidb"
)

// NameDB resolves (vendor, device) ID pairs to human-readable names. It is
// backed by an on-disk pci.ids database when one exists, falling back to
// the embedded go-pcidb database otherwise.
type NameDB struct {
	vendors map[uint16]vendorEntry
}

type vendorEntry struct {
	name    string
	devices map[uint16]string
}

// pciIDsPaths are the well-known pci.ids locations, probed in order.
var pciIDsPaths = []string{
	"/usr/share/hwdata/pci.ids",
	"/usr/share/pci.ids",
	"/usr/share/misc/pci.ids",
}

// LoadNameDB builds the name database. extraPaths are probed before the
// well-known locations. A nil map (no on-disk database) is not an error;
// lookups then go straight to the embedded fallback.
func LoadNameDB(extraPaths ...string) *NameDB {
	for _, p := range append(extraPaths, pciIDsPaths...) {
		db, err := parsePCIIDs(p)
		if err != nil {
			continue
		}
		Debug("Loaded PCI name database from %s (%d vendors)", p, len(db.vendors))
		return db
	}
	Debug("No on-disk pci.ids found, using embedded database")
	return &NameDB{}
}

// parsePCIIDs parses the pci.ids format: a vendor line is "VVVV  name",
// a device line is TAB "DDDD  name" under the current vendor. Deeper
// subsystem lines (two tabs) and class sections ("C xx") are skipped.
func parsePCIIDs(path string) (*NameDB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	db := &NameDB{vendors: make(map[uint16]vendorEntry)}
	var current *vendorEntry

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "C ") {
			// class sections follow the vendor list; nothing after
			// them is a vendor
			break
		}
		if strings.HasPrefix(line, "\t\t") {
			continue
		}
		if strings.HasPrefix(line, "\t") {
			if current == nil {
				continue
			}
			id, name, ok := splitIDLine(line[1:])
			if ok {
				current.devices[id] = name
			}
			continue
		}
		id, name, ok := splitIDLine(line)
		if !ok {
			continue
		}
		entry := vendorEntry{name: name, devices: make(map[uint16]string)}
		db.vendors[id] = entry
		current = &entry
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(db.vendors) == 0 {
		return nil, fmt.Errorf("no vendors parsed from %s", path)
	}
	return db, nil
}

// splitIDLine splits "VVVV  Some Name" into the parsed ID and name.
func splitIDLine(line string) (uint16, string, bool) {
	if len(line) < 6 {
		return 0, "", false
	}
	id, _, err := fixedLengthHex([]byte(line[:4]), 4)
	if err != nil {
		return 0, "", false
	}
	name := strings.TrimSpace(line[4:])
	if name == "" {
		return 0, "", false
	}
	return uint16(id), name, true
}

// VendorName returns the vendor's name, if known.
func (db *NameDB) VendorName(vendor uint16) (string, bool) {
	if v, ok := db.vendors[vendor]; ok {
		return v.name, true
	}
	return pcidb.LookupVendor(vendor)
}

// DeviceName returns the device's product name, if known.
func (db *NameDB) DeviceName(vendor, device uint16) (string, bool) {
	if v, ok := db.vendors[vendor]; ok {
		if name, ok := v.devices[device]; ok {
			return name, true
		}
	}
	return pcidb.LookupProduct(vendor, device)
}

// PrettyName resolves and compacts "Vendor Device" for display, e.g.
// "NVIDIA GeForce RTX 3070". Unknown IDs come back as hex.
func (db *NameDB) PrettyName(vendor, device uint16) string {
	vname, ok := db.VendorName(vendor)
	if !ok {
		vname = fmt.Sprintf("%04x", vendor)
	}
	dname, ok := db.DeviceName(vendor, device)
	if !ok {
		return fmt.Sprintf("%s %04x", ShortVendorName(vname), device)
	}
	return fmt.Sprintf("%s %s", ShortVendorName(vname), ShortDeviceName(dname))
}
