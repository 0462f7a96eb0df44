//go:build unix

package mem

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"

	jiterrors "github.com/wdamron/jit/errors"
)

func TestNewOSFailure(t *testing.T) {
	r, err := New(1 << 40)
	if err == nil {
		r.Close()
		t.Skip("the OS granted a 2^40 page mapping")
	}
	if r != nil {
		t.Fatalf("New() returned a region along with %v", err)
	}
	if !errors.Is(err, jiterrors.ErrAllocation) {
		t.Fatalf("expected ErrAllocation, found %v", err)
	}
	var errno unix.Errno
	if !errors.As(err, &errno) {
		t.Fatalf("expected the OS error as the cause, found %v", err)
	}
}
