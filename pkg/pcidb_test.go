package pkg

import (
	"os"
	"path/filepath"
	"testing"
)

const samplePCIIDs = `#
# List of PCI ID's (sample)
#
10de  NVIDIA Corporation
	2484  GA104 [GeForce RTX 3070]
		1458 403b  Some Board
8086  Intel Corporation
	15f3  Ethernet Controller I225-V

C 03  Display controller
	00  VGA compatible controller
`

func writeSamplePCIIDs(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pci.ids")
	if err := os.WriteFile(path, []byte(samplePCIIDs), 0o644); err != nil {
		t.Fatalf("failed to write sample pci.ids: %v", err)
	}
	return path
}

func TestParsePCIIDs(t *testing.T) {
	db, err := parsePCIIDs(writeSamplePCIIDs(t))
	if err != nil {
		t.Fatalf("parsePCIIDs returned error: %v", err)
	}

	if name, ok := db.VendorName(0x10de); !ok || name != "NVIDIA Corporation" {
		t.Errorf("VendorName(0x10de) = %q, %t", name, ok)
	}
	if name, ok := db.DeviceName(0x10de, 0x2484); !ok || name != "GA104 [GeForce RTX 3070]" {
		t.Errorf("DeviceName(0x10de, 0x2484) = %q, %t", name, ok)
	}
	if name, ok := db.DeviceName(0x8086, 0x15f3); !ok || name != "Ethernet Controller I225-V" {
		t.Errorf("DeviceName(0x8086, 0x15f3) = %q, %t", name, ok)
	}
	// The class section trailing the vendor list must not be misread as
	// vendors.
	if _, ok := db.vendors[0xc003]; ok {
		t.Error("class section parsed as a vendor")
	}
}

func TestLoadNameDBExtraPath(t *testing.T) {
	db := LoadNameDB(writeSamplePCIIDs(t))
	if name, ok := db.VendorName(0x10de); !ok || name != "NVIDIA Corporation" {
		t.Errorf("extra path not honored: VendorName(0x10de) = %q, %t", name, ok)
	}
}

func TestNameDBEmbeddedFallback(t *testing.T) {
	// An empty on-disk database falls through to the embedded one for
	// every lookup. 8086 is as stable as vendor IDs get.
	db := &NameDB{}
	name, ok := db.VendorName(0x8086)
	if !ok || name == "" {
		t.Errorf("embedded fallback lookup failed: %q, %t", name, ok)
	}
}

func TestPrettyNameUnknownIDs(t *testing.T) {
	db := &NameDB{vendors: map[uint16]vendorEntry{}}
	got := db.PrettyName(0xfffe, 0xfffe)
	if got == "" {
		t.Error("PrettyName returned empty string for unknown IDs")
	}
}
