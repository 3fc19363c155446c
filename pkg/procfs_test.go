package pkg

import (
	"encoding/binary"
	"errors"
	"testing"
	"testing/fstest"
)

// configSpace builds a 72-byte raw configuration space with known
// identification fields and the given header-type byte.
func configSpace(headerType byte) []byte {
	buf := make([]byte, 72)
	binary.LittleEndian.PutUint16(buf[cfgVendor:], 0x10de)
	binary.LittleEndian.PutUint16(buf[cfgDevice:], 0x2484)
	buf[cfgRevision] = 0xa1
	buf[cfgSubclass] = 0x00
	buf[cfgClass] = 0x03
	buf[cfgHeaderType] = headerType
	binary.LittleEndian.PutUint16(buf[cfgType0SubsysVendor:], 0x1458)
	binary.LittleEndian.PutUint16(buf[cfgType0SubsysDevice:], 0x403b)
	binary.LittleEndian.PutUint16(buf[cfgType2SubsysVendor:], 0x5678)
	binary.LittleEndian.PutUint16(buf[cfgType2SubsysDevice:], 0x1234)
	return buf
}

func TestProcfsEnumeration(t *testing.T) {
	fsys := fstest.MapFS{
		"00/1f.3": {Data: configSpace(0x0)},
		"01/00.0": {Data: configSpace(0x0)},
		// aggregate listing, not a bus
		"devices": {Data: []byte("0008\t10de2484\t0\n")},
	}
	b, err := openProcfs(fsys)
	if err != nil {
		t.Fatalf("openProcfs returned error: %v", err)
	}
	devices, err := Collect(b)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	want := Address{Domain: 0, Bus: 0, Device: 0x1f, Function: 3}
	if devices[0].Addr != want {
		t.Errorf("expected address %v, got %v", want, devices[0].Addr)
	}
	if devices[1].Addr.Bus != 0x01 {
		t.Errorf("expected bus 0x01, got %#x", devices[1].Addr.Bus)
	}
}

func TestProcfsAttributes(t *testing.T) {
	fsys := fstest.MapFS{"00/02.0": {Data: configSpace(0x0)}}
	b, err := openProcfs(fsys)
	if err != nil {
		t.Fatalf("openProcfs returned error: %v", err)
	}
	defer b.Close()
	dev, err := b.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	if vendor, err := dev.Vendor(); err != nil || vendor != 0x10de {
		t.Errorf("Vendor() = %#x, %v; want 0x10de", vendor, err)
	}
	if device, err := dev.DeviceID(); err != nil || device != 0x2484 {
		t.Errorf("DeviceID() = %#x, %v; want 0x2484", device, err)
	}
	if rev, err := dev.Revision(); err != nil || rev != 0xa1 {
		t.Errorf("Revision() = %#x, %v; want 0xa1", rev, err)
	}
	class, err := dev.Class()
	if err != nil {
		t.Fatalf("Class returned error: %v", err)
	}
	if len(class) != 2 || class[0] != 0x03 || class[1] != 0x00 {
		t.Errorf("Class() = %v, want [3 0]", class)
	}
	if gpu, err := dev.IsGPU(); err != nil || !gpu {
		t.Errorf("IsGPU() = %t, %v; want true", gpu, err)
	}
}

func TestProcfsSubsystemByHeaderType(t *testing.T) {
	testCases := []struct {
		name       string
		headerType byte
		wantVendor uint16
		wantDevice uint16
		wantErr    error
	}{
		{"type 0 normal", 0x00, 0x1458, 0x403b, nil},
		{"type 0 multifunction bit set", 0x80, 0x1458, 0x403b, nil},
		{"type 2 cardbus", 0x02, 0x5678, 0x1234, nil},
		{"type 1 bridge", 0x01, 0, 0, ErrNotAvailable},
		{"unknown type", 0x7f, 0, 0, ErrNotAvailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prov := &procfsProvider{buf: NewFixedBuf(cfgMaxLen)}
			prov.buf.Extend(configSpace(tc.headerType))

			svid, err := prov.subsystemVendor()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("subsystemVendor: expected %v, got %v", tc.wantErr, err)
				}
			} else if err != nil || svid != tc.wantVendor {
				t.Errorf("subsystemVendor = %#x, %v; want %#x", svid, err, tc.wantVendor)
			}

			sdid, err := prov.subsystemDevice()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("subsystemDevice: expected %v, got %v", tc.wantErr, err)
				}
			} else if err != nil || sdid != tc.wantDevice {
				t.Errorf("subsystemDevice = %#x, %v; want %#x", sdid, err, tc.wantDevice)
			}
		})
	}
}

func TestProcfsRejectsShortConfigSpace(t *testing.T) {
	fsys := fstest.MapFS{"00/03.0": {Data: make([]byte, 15)}}
	b, err := openProcfs(fsys)
	if err != nil {
		t.Fatalf("openProcfs returned error: %v", err)
	}
	defer b.Close()
	_, err = b.Next()
	if !errors.Is(err, ErrInvalidDevice) {
		t.Errorf("expected ErrInvalidDevice for 15-byte config space, got %v", err)
	}
}

func TestProcfsTruncatedSubsystemFields(t *testing.T) {
	// 16 bytes is enough for the unconditional fields but not for the
	// type-0 subsystem words.
	prov := &procfsProvider{buf: NewFixedBuf(cfgMaxLen)}
	prov.buf.Extend(configSpace(0x0)[:16])

	if _, err := prov.vendor(); err != nil {
		t.Errorf("vendor on 16-byte space: %v", err)
	}
	if _, err := prov.subsystemVendor(); !errors.Is(err, ErrInvalidDevice) {
		t.Errorf("expected ErrInvalidDevice for truncated subsystem field, got %v", err)
	}
}

func TestProcfsErrorsAreInline(t *testing.T) {
	// A broken entry is yielded as an error; pulling again continues the
	// walk with the remaining entries.
	fsys := fstest.MapFS{
		"00/02.0":     {Data: make([]byte, 8)},
		"00/03.0":     {Data: configSpace(0x0)},
		"00/garbage!": {Data: configSpace(0x0)},
	}
	b, err := openProcfs(fsys)
	if err != nil {
		t.Fatalf("openProcfs returned error: %v", err)
	}
	devices, err := Collect(b)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected 1 surviving device, got %d", len(devices))
	}
	if devices[0].Addr.Device != 0x03 {
		t.Errorf("expected device 0x03, got %#x", devices[0].Addr.Device)
	}
}
