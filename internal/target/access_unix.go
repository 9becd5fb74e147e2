//go:build linux || darwin || freebsd || netbsd || openbsd

package target

import (
	"os"

	"golang.org/x/sys/unix"
)

// fileAccess reports the directions f was opened for. ok is false when the
// descriptor flags cannot be read.
func fileAccess(f *os.File) (read, write, ok bool) {
	sc, err := f.SyscallConn()
	if err != nil {
		return false, false, false
	}
	var (
		flags int
		ferr  error
	)
	if err := sc.Control(func(fd uintptr) {
		flags, ferr = unix.FcntlInt(fd, unix.F_GETFL, 0)
	}); err != nil || ferr != nil {
		return false, false, false
	}
	switch flags & unix.O_ACCMODE {
	case unix.O_RDONLY:
		return true, false, true
	case unix.O_WRONLY:
		return false, true, true
	case unix.O_RDWR:
		return true, true, true
	}
	return false, false, false
}
