package pkg

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds surfaced by backends and providers. I/O failures are not a
// sentinel of their own: they wrap the underlying error with %w and are
// anything that is neither ErrNotAvailable nor ErrInvalidDevice.
var (
	// ErrNotAvailable marks an enumeration source that is absent on
	// this system, and field queries a device's header type does not
	// carry. It is never conflated with an I/O failure.
	ErrNotAvailable = errors.New("pci: not available")

	// ErrInvalidDevice marks an entry or file whose content does not
	// match the expected shape or size.
	ErrInvalidDevice = errors.New("pci: invalid device")
)

// provider answers attribute queries for one device. The set is closed:
// sysfs and procfs are the only implementations, and the unexported
// methods keep it that way.
type provider interface {
	class() ([]byte, error)
	vendor() (uint16, error)
	device() (uint16, error)
	subsystemVendor() (uint16, error)
	subsystemDevice() (uint16, error)
	revision() (uint8, error)
}

// Device is one enumerated PCI device: its address plus the backend
// provider that answers attribute queries. Queries are lazy; nothing is
// read until the caller asks.
type Device struct {
	Addr Address

	prov provider
}

// Class returns the decoded class bytes, most significant first: class,
// subclass, and (sysfs only) programming interface.
func (d *Device) Class() ([]byte, error) { return d.prov.class() }

// Vendor returns the 16-bit vendor ID.
func (d *Device) Vendor() (uint16, error) { return d.prov.vendor() }

// DeviceID returns the 16-bit device ID.
func (d *Device) DeviceID() (uint16, error) { return d.prov.device() }

// SubsystemVendor returns the 16-bit subsystem vendor ID. For config-space
// header types without subsystem fields the error is ErrNotAvailable.
func (d *Device) SubsystemVendor() (uint16, error) { return d.prov.subsystemVendor() }

// SubsystemDevice returns the 16-bit subsystem device ID, with the same
// header-type caveat as SubsystemVendor.
func (d *Device) SubsystemDevice() (uint16, error) { return d.prov.subsystemDevice() }

// Revision returns the device revision byte.
func (d *Device) Revision() (uint8, error) { return d.prov.revision() }

func (d *Device) String() string {
	return fmt.Sprintf("PciDevice(%s)", d.Addr)
}

// Backend is a finite, pull-driven enumeration of attached PCI devices.
// Next yields one result per directory entry; per-entry errors come back
// inline and the caller decides whether to keep pulling. The sequence is
// not restartable: once drained, a fresh backend must be initialized.
type Backend interface {
	// Next returns the next device, or io.EOF once the walk is done.
	Next() (*Device, error)

	// Close releases any open directory handles. Safe after io.EOF and
	// after an early break alike.
	Close() error
}

// Collect pulls the backend to exhaustion and closes it, skipping
// per-entry errors with a warning. Callers wanting error-by-error control
// drive Next themselves.
func Collect(b Backend) ([]*Device, error) {
	defer b.Close()
	var devs []*Device
	for {
		dev, err := b.Next()
		if err == io.EOF {
			return devs, nil
		}
		if err != nil {
			Warn("PCI error emitted by backend: %v", err)
			continue
		}
		devs = append(devs, dev)
	}
}

// EnumerateAll initializes the automatic backend and collects every device
// it yields, skipping per-entry failures.
func EnumerateAll() ([]*Device, error) {
	b, err := Open()
	if err != nil {
		return nil, err
	}
	return Collect(b)
}
