package pkg

import "fmt"

// Address is the (domain, bus, device, function) tuple uniquely locating a
// PCI device. It is parsed once from a directory or file name and is
// immutable afterwards.
type Address struct {
	Domain   uint16
	Bus      uint8
	Device   uint8
	Function uint8
}

// ParseAddress parses the canonical sysfs entry form "DDDD:BB:DD.F"
// (domain: 4 hex digits, bus: 2, device: 2, function: 1).
func ParseAddress(name string) (Address, error) {
	var addr Address
	src := []byte(name)

	domain, src, err := fixedLengthHex(src, 4)
	if err != nil {
		return addr, fmt.Errorf("domain: %w", err)
	}
	src, err = expect(src, ':')
	if err != nil {
		return addr, err
	}
	bus, src, err := fixedLengthHex(src, 2)
	if err != nil {
		return addr, fmt.Errorf("bus: %w", err)
	}
	src, err = expect(src, ':')
	if err != nil {
		return addr, err
	}
	device, src, err := fixedLengthHex(src, 2)
	if err != nil {
		return addr, fmt.Errorf("device: %w", err)
	}
	src, err = expect(src, '.')
	if err != nil {
		return addr, err
	}
	function, src, err := fixedLengthHex(src, 1)
	if err != nil {
		return addr, fmt.Errorf("function: %w", err)
	}
	if len(src) != 0 {
		return addr, fmt.Errorf("trailing bytes after PCI address: %q", src)
	}

	addr.Domain = uint16(domain)
	addr.Bus = uint8(bus)
	addr.Device = uint8(device)
	addr.Function = uint8(function)
	return addr, nil
}

func expect(src []byte, sep byte) ([]byte, error) {
	if len(src) == 0 {
		return src, fmt.Errorf("%w: want %q", ErrHexTooShort, sep)
	}
	if src[0] != sep {
		return src, fmt.Errorf("want %q, have %q", sep, src[0])
	}
	return src[1:], nil
}

// String formats the address back into the form ParseAddress accepts, so
// parse/format round trips exactly.
func (a Address) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%x", a.Domain, a.Bus, a.Device, a.Function)
}
