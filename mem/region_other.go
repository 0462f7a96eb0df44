//go:build !unix && !windows

package mem

import (
	"fmt"
	"runtime"
)

const (
	allocOp   = "alloc"
	protectOp = "protect"
	freeOp    = "free"
)

var errUnsupported = fmt.Errorf("executable memory is not supported on %s", runtime.GOOS)

func allocPages(size int) ([]byte, error) { return nil, errUnsupported }

func protectPages(b []byte, p Prot) error { return errUnsupported }

func freePages(b []byte) error { return nil }
