//go:build unix

package mem

import (
	"golang.org/x/sys/unix"
)

const (
	allocOp   = "mmap"
	protectOp = "mprotect"
	freeOp    = "munmap"
)

func allocPages(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func protectPages(b []byte, p Prot) error {
	return unix.Mprotect(b, sysProt(p))
}

func freePages(b []byte) error {
	return unix.Munmap(b)
}

func sysProt(p Prot) int {
	switch p {
	case ReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE
	case ReadExecute:
		return unix.PROT_READ | unix.PROT_EXEC
	case ReadWriteExecute:
		return unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
	default:
		return unix.PROT_READ
	}
}
