package pkg

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
)

// procBusPciPath is the procfs PCI root: one directory per bus (2 hex
// digits), holding one raw config-space file per device ("DD.F"), plus a
// "devices" aggregate file that is not a bus.
const procBusPciPath = "/proc/bus/pci"

// ProcfsBackend walks the two-level /proc/bus/pci tree.
type ProcfsBackend struct {
	fsys fs.FS
	root fs.ReadDirFile

	// bus currently being walked; nil between buses
	busDir  fs.ReadDirFile
	busName string
	busNum  uint8
}

// OpenProcfs initializes the procfs backend against the live system root.
func OpenProcfs() (*ProcfsBackend, error) {
	return openProcfs(os.DirFS(procBusPciPath))
}

func openProcfs(fsys fs.FS) (*ProcfsBackend, error) {
	f, err := fsys.Open(".")
	if err != nil {
		return nil, fmt.Errorf("%w: procfs: %v", ErrNotAvailable, err)
	}
	root, ok := f.(fs.ReadDirFile)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("%w: procfs root is not a directory", ErrNotAvailable)
	}
	return &ProcfsBackend{fsys: fsys, root: root}, nil
}

// Next advances the walk: it enters the next bus directory as needed and
// yields one device per pull. Entries that fail to parse or load are
// yielded inline as errors; the caller pulls again to continue.
func (b *ProcfsBackend) Next() (*Device, error) {
	for {
		if b.busDir == nil {
			ents, err := b.root.ReadDir(1)
			if err == io.EOF {
				return nil, io.EOF
			}
			if err != nil {
				return nil, fmt.Errorf("read procfs buses: %w", err)
			}
			name := ents[0].Name()
			if name == "devices" {
				continue
			}
			bus, rest, err := fixedLengthHex([]byte(name), 2)
			if err != nil || len(rest) != 0 {
				return nil, fmt.Errorf("bus %q: %w", name, ErrInvalidDevice)
			}
			f, err := b.fsys.Open(name)
			if err != nil {
				return nil, fmt.Errorf("open bus %s: %w", name, err)
			}
			dir, ok := f.(fs.ReadDirFile)
			if !ok {
				f.Close()
				return nil, fmt.Errorf("bus %q: %w", name, ErrInvalidDevice)
			}
			b.busDir, b.busName, b.busNum = dir, name, uint8(bus)
			continue
		}

		ents, err := b.busDir.ReadDir(1)
		if err == io.EOF {
			b.busDir.Close()
			b.busDir = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read bus %s: %w", b.busName, err)
		}
		name := ents[0].Name()
		addr, err := parseDevFile(name, b.busNum)
		if err != nil {
			return nil, fmt.Errorf("device %s/%s: %w", b.busName, name, ErrInvalidDevice)
		}
		prov, err := loadConfigSpace(b.fsys, path.Join(b.busName, name))
		if err != nil {
			return nil, err
		}
		return &Device{Addr: addr, prov: prov}, nil
	}
}

// Close releases the root and any bus directory still open.
func (b *ProcfsBackend) Close() error {
	if b.busDir != nil {
		b.busDir.Close()
		b.busDir = nil
	}
	return b.root.Close()
}

// parseDevFile parses a "DD.F" device file name; the domain is always 0
// under procfs.
func parseDevFile(name string, bus uint8) (Address, error) {
	src := []byte(name)
	device, src, err := fixedLengthHex(src, 2)
	if err != nil {
		return Address{}, err
	}
	src, err = expect(src, '.')
	if err != nil {
		return Address{}, err
	}
	function, src, err := fixedLengthHex(src, 1)
	if err != nil {
		return Address{}, err
	}
	if len(src) != 0 {
		return Address{}, fmt.Errorf("trailing bytes in device file name: %q", src)
	}
	return Address{Bus: bus, Device: uint8(device), Function: uint8(function)}, nil
}

// Config-space byte offsets consulted by the procfs provider. 16-bit
// fields are little-endian. Subsystem fields depend on the header type:
// type 0 (normal) and type 2 (CardBus) carry them at different offsets,
// type 1 (bridge) not at all.
const (
	cfgVendor     = 0
	cfgDevice     = 2
	cfgRevision   = 8
	cfgSubclass   = 10
	cfgClass      = 11
	cfgHeaderType = 14

	cfgType0SubsysVendor = 47
	cfgType0SubsysDevice = 49
	cfgType2SubsysDevice = 64
	cfgType2SubsysVendor = 66

	headerTypeMask = 0x7f

	// minimum config-space bytes for the unconditional fields
	cfgMinLen = 16
	// offsets past 68 are never consulted
	cfgMaxLen = 72
)

// procfsProvider holds the raw configuration-space bytes, read once at
// enumeration time and immutable afterwards.
type procfsProvider struct {
	buf *FixedBuf
}

// loadConfigSpace copies the device file into a bounded buffer and
// rejects anything shorter than the unconditional field region.
func loadConfigSpace(fsys fs.FS, devPath string) (*procfsProvider, error) {
	f, err := fsys.Open(devPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devPath, err)
	}
	defer f.Close()
	buf := NewFixedBuf(cfgMaxLen)
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("read %s: %w", devPath, err)
	}
	if buf.Len() < cfgMinLen {
		return nil, fmt.Errorf("%s: %w", devPath, ErrInvalidDevice)
	}
	return &procfsProvider{buf: buf}, nil
}

func (p *procfsProvider) headerType() uint8 {
	return p.buf.Bytes()[cfgHeaderType] & headerTypeMask
}

func (p *procfsProvider) class() ([]byte, error) {
	b := p.buf.Bytes()
	return []byte{b[cfgClass], b[cfgSubclass]}, nil
}

func (p *procfsProvider) vendor() (uint16, error) {
	return binary.LittleEndian.Uint16(p.buf.Bytes()[cfgVendor:]), nil
}

func (p *procfsProvider) device() (uint16, error) {
	return binary.LittleEndian.Uint16(p.buf.Bytes()[cfgDevice:]), nil
}

func (p *procfsProvider) revision() (uint8, error) {
	return p.buf.Bytes()[cfgRevision], nil
}

// word reads a little-endian 16-bit field, failing with ErrInvalidDevice
// when the loaded config space is too short to hold it.
func (p *procfsProvider) word(offset int) (uint16, error) {
	b := p.buf.Bytes()
	if len(b) < offset+2 {
		return 0, ErrInvalidDevice
	}
	return binary.LittleEndian.Uint16(b[offset:]), nil
}

func (p *procfsProvider) subsystemVendor() (uint16, error) {
	switch p.headerType() {
	case 0x0:
		return p.word(cfgType0SubsysVendor)
	case 0x2:
		return p.word(cfgType2SubsysVendor)
	default:
		return 0, ErrNotAvailable
	}
}

func (p *procfsProvider) subsystemDevice() (uint16, error) {
	switch p.headerType() {
	case 0x0:
		return p.word(cfgType0SubsysDevice)
	case 0x2:
		return p.word(cfgType2SubsysDevice)
	default:
		return 0, ErrNotAvailable
	}
}
