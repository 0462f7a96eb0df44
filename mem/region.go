package mem

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/wdamron/jit/errors"
)

// Region owns a contiguous block of OS pages used as a code buffer.
//
// A region starts out ReadWrite with the write cursor at 0. Code is appended through Write
// (or Append), the region is transitioned to an executable permission with Protect (or
// SetPermissions), and functions are derived from offsets inside it (see package jit/native).
// The pages are returned to the OS exactly once, by Close or, if Close is never called,
// after the region becomes unreachable.
//
// A Region is not safe for concurrent writers. Once the region is executable it may be
// executed from any number of goroutines.
type Region struct {
	mem      []byte
	off      int
	size     int
	pages    int
	pageSize int
	prot     Prot
	strictWX bool
	released bool
	log      *zap.Logger
	cleanup  runtime.Cleanup
}

// New allocates a region of the given number of OS pages.
//
// If the OS refuses the allocation, the returned error matches errors.ErrAllocation and wraps
// the OS error.
func New(pages int, opts ...Option) (*Region, error) {
	o := options{log: Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	pageSize := os.Getpagesize()
	if pages <= 0 || pages > math.MaxInt/pageSize {
		return nil, errors.New(errors.KindAllocation).
			Op("alloc").
			Detail("invalid page count %d", pages).
			Value(pages).
			Build()
	}

	size := pages * pageSize
	b, err := allocPages(size)
	if err != nil {
		o.log.Debug("page allocation failed", zap.Int("pages", pages), zap.Error(err))
		return nil, errors.Wrap(errors.KindAllocation, allocOp, err, fmt.Sprintf("%d pages", pages))
	}

	r := &Region{
		mem:      b,
		size:     size,
		pages:    pages,
		pageSize: pageSize,
		prot:     ReadWrite,
		strictWX: o.strictWX,
		log:      o.log,
	}
	r.cleanup = runtime.AddCleanup(r, releaseUnreachable, b)
	r.log.Debug("allocated region",
		zap.Int("pages", pages),
		zap.Int("size", size),
		zap.Uintptr("addr", uintptr(unsafe.Pointer(unsafe.SliceData(b)))))
	return r, nil
}

// NewSize allocates a region large enough to hold size bytes, rounded up to whole pages.
func NewSize(size int, opts ...Option) (*Region, error) {
	if size <= 0 {
		return New(0, opts...)
	}
	pageSize := os.Getpagesize()
	return New(alignUp(size, pageSize)/pageSize, opts...)
}

func alignUp[I constraints.Integer](n, align I) I {
	return (n + align - 1) &^ (align - 1)
}

// Runs when a region which was never closed becomes unreachable.
func releaseUnreachable(b []byte) {
	if err := freePages(b); err != nil {
		Logger().Warn("releasing unreachable region failed", zap.Error(err))
	}
}

// Get the current write offset.
func (r *Region) Offset() int { return r.off }

// Move the write offset. The offset may equal the region size (the region is then full).
func (r *Region) SetOffset(offset int) error {
	if offset < 0 || offset > len(r.mem) {
		return errors.OutOfBounds("set offset", offset, len(r.mem))
	}
	r.off = offset
	return nil
}

// Write p at the current offset and advance the offset by the number of bytes written.
//
// If p does not fit, the bytes which fit are written, the offset is left at the end of the
// region, and an error matching errors.ErrBufferExhausted is returned. Bytes written before
// the call are never modified. Writing to a region which is not writable returns an error
// matching errors.ErrProtection.
func (r *Region) Write(p []byte) (int, error) {
	if err := r.checkWritable("write"); err != nil {
		return 0, err
	}
	n := copy(r.mem[r.off:], p)
	r.off += n
	if n < len(p) {
		return n, errors.Exhausted(r.off, len(r.mem))
	}
	return n, nil
}

// Append p at the current offset. See Write.
func (r *Region) Append(p []byte) error {
	_, err := r.Write(p)
	return err
}

func (r *Region) checkWritable(op string) error {
	if r.released {
		return errors.New(errors.KindProtection).Op(op).Detail("region is released").Build()
	}
	if !r.prot.Writable() {
		return errors.New(errors.KindProtection).Op(op).Detail("region is %s", r.prot).Build()
	}
	return nil
}

// Change the permission of the whole region.
//
// If the OS refuses the change, the returned error matches errors.ErrProtection and wraps
// the OS error; the region keeps its previous permission.
func (r *Region) Protect(p Prot) error {
	if r.released {
		return errors.New(errors.KindProtection).Op(protectOp).Detail("region is released").Build()
	}
	if p > ReadWriteExecute {
		return errors.New(errors.KindProtection).Op(protectOp).Detail("unknown permission %d", p).Value(p).Build()
	}
	if r.strictWX && p == ReadWriteExecute {
		return errors.New(errors.KindProtection).Op(protectOp).Detail("writable and executable region is not allowed").Build()
	}
	if err := protectPages(r.mem, p); err != nil {
		r.log.Debug("protection change failed", zap.Stringer("from", r.prot), zap.Stringer("to", p), zap.Error(err))
		return errors.Wrap(errors.KindProtection, protectOp, err, fmt.Sprintf("%d pages to %s", r.pages, p))
	}
	r.log.Debug("changed region protection", zap.Stringer("from", r.prot), zap.Stringer("to", p))
	r.prot = p
	return nil
}

// Change the permission of the whole region: read-only, read-write, read-execute or
// read-write-execute. See Protect.
func (r *Region) SetPermissions(executable, writable bool) error {
	return r.Protect(ProtFor(executable, writable))
}

// Get the absolute address of offset. Panics if offset is outside the region.
func (r *Region) Addr(offset int) uintptr {
	if offset < 0 || offset >= len(r.mem) {
		panic(errors.OutOfBounds("addr", offset, len(r.mem)))
	}
	return uintptr(unsafe.Pointer(&r.mem[offset]))
}

// Get the byte at index i. Panics if i is outside the region.
func (r *Region) At(i int) byte {
	if i < 0 || i >= len(r.mem) {
		panic(errors.OutOfBounds("at", i, len(r.mem)))
	}
	return r.mem[i]
}

// Set the byte at index i without moving the write offset. Panics if i is outside the region
// or the region is not writable.
func (r *Region) SetAt(i int, b byte) {
	if i < 0 || i >= len(r.mem) {
		panic(errors.OutOfBounds("set at", i, len(r.mem)))
	}
	if err := r.checkWritable("set at"); err != nil {
		panic(err)
	}
	r.mem[i] = b
}

// Get the bytes written so far (up to the current offset). The slice aliases the region and
// must not be used after Close.
func (r *Region) Bytes() []byte { return r.mem[:r.off] }

// Get the number of bytes written so far (the current offset).
func (r *Region) Len() int { return r.off }

// Get the size of the region in bytes.
func (r *Region) Size() int { return r.size }

// Get the number of pages in the region.
func (r *Region) Pages() int { return r.pages }

// Get the OS page size the region was allocated with.
func (r *Region) PageSize() int { return r.pageSize }

// Get the current permission of the region.
func (r *Region) Prot() Prot { return r.prot }

// Check if the region has been released.
func (r *Region) Released() bool { return r.released }

// Return the region's pages to the OS. Close is idempotent: calls after the first return nil
// and do nothing. The region and any function derived from it must not be used afterwards.
func (r *Region) Close() error {
	if r.released {
		return nil
	}
	r.released = true
	r.cleanup.Stop()
	b := r.mem
	r.mem, r.off = nil, 0
	if err := freePages(b); err != nil {
		r.log.Warn("releasing region failed", zap.Int("pages", r.pages), zap.Error(err))
		return errors.Wrap(errors.KindAllocation, freeOp, err, fmt.Sprintf("%d pages", r.pages))
	}
	r.log.Debug("released region", zap.Int("pages", r.pages))
	return nil
}
