package pkg

import "strings"

// classDisplay is the PCI base class for display controllers.
const classDisplay = 0x03

// IsGPU reports whether the device's base class marks it as a display
// controller. VGA, 3D and other display subclasses all qualify.
func (d *Device) IsGPU() (bool, error) {
	class, err := d.Class()
	if err != nil {
		return false, err
	}
	return len(class) > 0 && class[0] == classDisplay, nil
}

// ShortDeviceName compacts a pci.ids product name for display. Marketing
// names live in square brackets ("GA104 [GeForce RTX 3070]"); when present
// the bracketed part wins. Common NVIDIA/AMD suffixes are shortened.
func ShortDeviceName(name string) string {
	if start := strings.IndexByte(name, '['); start >= 0 {
		if end := strings.IndexByte(name, ']'); end > start {
			name = name[start+1 : end]
		}
	}
	if end := strings.Index(name, " Laptop GPU"); end >= 0 {
		name = name[:end] + "(Laptop)"
	} else if end := strings.Index(name, " Integrated"); end >= 0 {
		name = name[:end] + " iGPU"
	}
	return strings.TrimSpace(name)
}

// ShortVendorName reduces a pci.ids vendor name to its first word when
// that word looks like a proper name ("NVIDIA Corporation" -> "NVIDIA").
func ShortVendorName(vendor string) string {
	if end := strings.IndexByte(vendor, ' '); end >= 0 {
		first := vendor[:end]
		if first != "" && first[0] >= 'A' && first[0] <= 'Z' {
			return first
		}
	}
	return strings.TrimSpace(vendor)
}
