package pkg

import (
	"io/fs"
	"os"
)

// Open picks the enumeration backend automatically: sysfs when its root
// is present, otherwise procfs. When both roots are missing the procfs
// initialization error is the one surfaced.
func Open() (Backend, error) {
	return openAuto(os.DirFS(sysBusPciPath), os.DirFS(procBusPciPath))
}

func openAuto(sysRoot, procRoot fs.FS) (Backend, error) {
	if b, err := openSysfs(sysRoot); err == nil {
		return b, nil
	}
	return openProcfs(procRoot)
}

// OpenBackend resolves a backend by name: "auto", "sysfs" or "procfs".
// An unknown name falls back to automatic selection.
func OpenBackend(name string) (Backend, error) {
	switch name {
	case "sysfs":
		return OpenSysfs()
	case "procfs":
		return OpenProcfs()
	case "", "auto":
		return Open()
	default:
		Warn("Unknown PCI backend %q, using automatic selection", name)
		return Open()
	}
}
