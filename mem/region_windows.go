//go:build windows

package mem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	allocOp   = "VirtualAlloc"
	protectOp = "VirtualProtect"
	freeOp    = "VirtualFree"
)

func allocPages(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func protectPages(b []byte, p Prot) error {
	var old uint32
	return windows.VirtualProtect(uintptr(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b)), sysProt(p), &old)
}

func freePages(b []byte) error {
	return windows.VirtualFree(uintptr(unsafe.Pointer(unsafe.SliceData(b))), 0, windows.MEM_RELEASE)
}

func sysProt(p Prot) uint32 {
	switch p {
	case ReadWrite:
		return windows.PAGE_READWRITE
	case ReadExecute:
		return windows.PAGE_EXECUTE_READ
	case ReadWriteExecute:
		return windows.PAGE_EXECUTE_READWRITE
	default:
		return windows.PAGE_READONLY
	}
}
