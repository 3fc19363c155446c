package ident

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// Lookup error kinds. Only ErrBufferTooSmall is retried internally; every
// other kind surfaces on first occurrence.
var (
	ErrInterrupted    = errors.New("ident: interrupted by signal")
	ErrIO             = errors.New("ident: i/o error")
	ErrFDExhausted    = errors.New("ident: file descriptor limit reached")
	ErrBufferTooSmall = errors.New("ident: buffer too small")
	ErrNotFound       = errors.New("ident: not found")
)

// Passwd is one user-database record.
type Passwd struct {
	Name    string
	Passwd  string
	UID     uint32
	GID     uint32
	Comment string
	HomeDir string
	Shell   string
}

const passwdPath = "/etc/passwd"

const (
	initialBufSize = 1024
	maxAttempts    = 5
)

// CurrentUID returns the real uid of the calling process.
func CurrentUID() uint32 {
	return uint32(unix.Getuid())
}

// LookupUID resolves a uid to its passwd record. The database is read
// through a bounded buffer that doubles on overflow; after maxAttempts
// the terminal error is ErrBufferTooSmall.
func LookupUID(uid uint32) (*Passwd, error) {
	return lookupUID(passwdPath, uid)
}

func lookupUID(path string, uid uint32) (*Passwd, error) {
	size := initialBufSize
	for attempt := 0; attempt < maxAttempts; attempt++ {
		buf := make([]byte, size)
		n, err := readAtMost(path, buf)
		if err != nil {
			return nil, err
		}
		if n == len(buf) {
			// possibly truncated record at the tail
			size *= 2
			continue
		}
		return findUID(buf[:n], uid)
	}
	return nil, fmt.Errorf("%w: %s larger than %d bytes after %d attempts",
		ErrBufferTooSmall, path, size, maxAttempts)
}

// readAtMost fills buf from the file, stopping at EOF or a full buffer.
// A full buffer is the caller's signal to grow and retry.
func readAtMost(path string, buf []byte) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return 0, classify(fmt.Errorf("open %s: %w", path, err))
	}
	defer unix.Close(fd)

	total := 0
	for total < len(buf) {
		n, err := unix.Read(fd, buf[total:])
		if err != nil {
			return 0, classify(fmt.Errorf("read %s: %w", path, err))
		}
		if n == 0 {
			break
		}
		total += n
	}
	return total, nil
}

// classify maps OS error codes onto the exported kinds.
func classify(err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.EINTR:
			return fmt.Errorf("%w: %v", ErrInterrupted, err)
		case unix.EIO:
			return fmt.Errorf("%w: %v", ErrIO, err)
		case unix.EMFILE, unix.ENFILE:
			return fmt.Errorf("%w: %v", ErrFDExhausted, err)
		case unix.ERANGE:
			return fmt.Errorf("%w: %v", ErrBufferTooSmall, err)
		case unix.ENOENT:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	return err
}

// findUID scans passwd lines ("name:passwd:uid:gid:comment:home:shell")
// for the record with the wanted uid. Malformed lines are skipped.
func findUID(data []byte, uid uint32) (*Passwd, error) {
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := bytes.Split(line, []byte{':'})
		if len(fields) != 7 {
			continue
		}
		id, err := strconv.ParseUint(string(fields[2]), 10, 32)
		if err != nil || uint32(id) != uid {
			continue
		}
		gid, err := strconv.ParseUint(string(fields[3]), 10, 32)
		if err != nil {
			continue
		}
		return &Passwd{
			Name:    string(fields[0]),
			Passwd:  string(fields[1]),
			UID:     uint32(id),
			GID:     uint32(gid),
			Comment: string(fields[4]),
			HomeDir: string(fields[5]),
			Shell:   string(fields[6]),
		}, nil
	}
	return nil, fmt.Errorf("%w: uid %d", ErrNotFound, uid)
}
