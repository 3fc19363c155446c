package pkg

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
)

// sysBusPciPath is the canonical sysfs PCI device root. Each entry is a
// directory named after the device address, holding one small text file
// per attribute.
const sysBusPciPath = "/sys/bus/pci/devices"

// SysfsBackend walks /sys/bus/pci/devices one entry per Next call.
type SysfsBackend struct {
	fsys fs.FS
	dir  fs.ReadDirFile
}

// OpenSysfs initializes the sysfs backend against the live system root.
// A missing or unreadable root is ErrNotAvailable, distinct from I/O
// errors encountered later during the walk.
func OpenSysfs() (*SysfsBackend, error) {
	return openSysfs(os.DirFS(sysBusPciPath))
}

func openSysfs(fsys fs.FS) (*SysfsBackend, error) {
	f, err := fsys.Open(".")
	if err != nil {
		return nil, fmt.Errorf("%w: sysfs: %v", ErrNotAvailable, err)
	}
	dir, ok := f.(fs.ReadDirFile)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("%w: sysfs root is not a directory", ErrNotAvailable)
	}
	return &SysfsBackend{fsys: fsys, dir: dir}, nil
}

// Next consumes directory entries until one parses as a PCI address.
// Malformed entry names are logged and skipped; the walk goes on with the
// next entry. Mid-walk I/O errors are yielded inline and do not end the
// sequence.
func (b *SysfsBackend) Next() (*Device, error) {
	for {
		ents, err := b.dir.ReadDir(1)
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("read sysfs devices: %w", err)
		}
		name := ents[0].Name()
		addr, err := ParseAddress(name)
		if err != nil {
			Warn("Failed to parse PCI device %q: %v", name, err)
			continue
		}
		return &Device{
			Addr: addr,
			prov: &sysfsProvider{fsys: b.fsys, dir: name},
		}, nil
	}
}

// Close releases the directory handle. Safe on every exit path, exhausted
// or not.
func (b *SysfsBackend) Close() error { return b.dir.Close() }

// sysfsProvider answers attribute queries by opening per-attribute files
// under the device directory on demand. Attribute files hold 0x-prefixed
// ASCII hex, newline-terminated.
type sysfsProvider struct {
	fsys fs.FS
	dir  string
}

// readAttr slurps one attribute file into a fresh bounded buffer,
// truncating oversized content rather than failing.
func (p *sysfsProvider) readAttr(attr string, capacity int) (*FixedBuf, error) {
	f, err := p.fsys.Open(path.Join(p.dir, attr))
	if err != nil {
		return nil, fmt.Errorf("open %s/%s: %w", p.dir, attr, err)
	}
	defer f.Close()
	buf := NewFixedBuf(capacity)
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", p.dir, attr, err)
	}
	return buf, nil
}

// readHexWord decodes a 16-bit attribute: hex byte pairs after the 0x
// prefix, accumulated most significant byte first.
func (p *sysfsProvider) readHexWord(attr string) (uint16, error) {
	buf, err := p.readAttr(attr, 32)
	if err != nil {
		return 0, err
	}
	b := buf.Bytes()
	if len(b) < 6 {
		return 0, fmt.Errorf("%s/%s: %w", p.dir, attr, ErrInvalidDevice)
	}
	var v uint16
	for i := 2; i+1 < 6; i += 2 {
		v = v<<8 | uint16(unhex(b[i])<<4|unhex(b[i+1]))
	}
	return v, nil
}

func (p *sysfsProvider) class() ([]byte, error) {
	buf, err := p.readAttr("class", 64)
	if err != nil {
		return nil, err
	}
	b := buf.Bytes()
	out := NewFixedBuf(32)
	// Decode whole byte pairs, skipping the pair holding the 0x prefix.
	// A trailing lone newline never forms a pair and falls off.
	for i := 2; i+1 < len(b); i += 2 {
		out.TryPush(unhex(b[i])<<4 | unhex(b[i+1]))
	}
	return out.Bytes(), nil
}

func (p *sysfsProvider) vendor() (uint16, error) { return p.readHexWord("vendor") }

func (p *sysfsProvider) device() (uint16, error) { return p.readHexWord("device") }

func (p *sysfsProvider) subsystemVendor() (uint16, error) {
	return p.readHexWord("subsystem_vendor")
}

func (p *sysfsProvider) subsystemDevice() (uint16, error) {
	return p.readHexWord("subsystem_device")
}

func (p *sysfsProvider) revision() (uint8, error) {
	buf, err := p.readAttr("revision", 32)
	if err != nil {
		return 0, err
	}
	b := buf.Bytes()
	if len(b) < 4 {
		return 0, fmt.Errorf("%s/revision: %w", p.dir, ErrInvalidDevice)
	}
	return unhex(b[2])<<4 | unhex(b[3]), nil
}
