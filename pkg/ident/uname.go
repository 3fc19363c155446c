// Package ident resolves machine and user identity: the uname fields and
// passwd records for the current user.
package ident

import (
	"bytes"

	"golang.org/x/sys/unix"
)

// SystemName holds the six uname fields. When the underlying call fails
// every field is empty; a fetch never dies on a hostname.
type SystemName struct {
	uname unix.Utsname
}

// GetSystemName queries the kernel's machine identity.
func GetSystemName() SystemName {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		u = unix.Utsname{}
	}
	return SystemName{uname: u}
}

// upToNull trims a fixed-size field at its first NUL.
func upToNull(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

func (s *SystemName) System() string  { return upToNull(s.uname.Sysname[:]) }
func (s *SystemName) Node() string    { return upToNull(s.uname.Nodename[:]) }
func (s *SystemName) Release() string { return upToNull(s.uname.Release[:]) }
func (s *SystemName) Version() string { return upToNull(s.uname.Version[:]) }
func (s *SystemName) Machine() string { return upToNull(s.uname.Machine[:]) }
func (s *SystemName) Domain() string  { return upToNull(s.uname.Domainname[:]) }
