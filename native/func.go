package native

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/modern-go/reflect2"
	"golang.org/x/exp/constraints"

	"github.com/wdamron/jit"
	"github.com/wdamron/jit/mem"
)

// Word is an argument or result type which travels in a single integer register.
type Word interface {
	constraints.Integer
}

// funcval has the layout of a Go closure: the code pointer, followed by captured variables.
// Capturing the region keeps it (and its pages) alive for as long as the function-value is.
type funcval struct {
	fn     uintptr
	region *mem.Region
}

// Point the function-value at fnAddr to the code at offset within r.
func setCode(fnAddr unsafe.Pointer, r *mem.Region, offset int) {
	*(*unsafe.Pointer)(fnAddr) = unsafe.Pointer(&funcval{fn: r.Addr(offset), region: r})
}

// Func0 returns a function which executes the code at offset within r and returns RAX.
// This function is entirely unsafe.
//
// r must already be executable, the code at offset must be a complete instruction sequence
// ending in RET, and the code must follow the Go register ABI. None of this is checked.
func Func0(r *mem.Region, offset int) func() int64 {
	var f func() int64
	setCode(unsafe.Pointer(&f), r, offset)
	return f
}

// Func1 returns a function which executes the code at offset within r with its argument in
// RAX (see ArgReg) and returns RAX. This function is entirely unsafe.
//
// The same contract as Func0 applies.
func Func1[T, RT Word](r *mem.Region, offset int) func(T) RT {
	var f func(T) RT
	setCode(unsafe.Pointer(&f), r, offset)
	return f
}

// Set the executable code for dstAddr to the code at offset within r. This function is entirely unsafe.
//
// dstAddr must be a pointer to a function value; its signature must match the generated code.
// The same contract as Func0 applies.
func SetFunctionCode(dstAddr any, r *mem.Region, offset int) error {
	if dstAddr == nil {
		return fmt.Errorf("Destination for SetFunctionCode must be a pointer to a function-value")
	}
	typ := reflect2.TypeOf(dstAddr)
	if typ.Kind() != reflect.Ptr || typ.Type1().Elem().Kind() != reflect.Func || reflect2.IsNil(dstAddr) {
		return fmt.Errorf("Destination for SetFunctionCode must be a pointer to a function-value")
	}
	setCode(reflect2.PtrOf(dstAddr), r, offset)
	return nil
}

// Integer argument registers of the Go register ABI on amd64, in order.
var argRegs = [...]jit.Reg{jit.RAX, jit.RBX, jit.RCX, jit.RDI, jit.RSI, jit.R8, jit.R9, jit.R10, jit.R11}

// ResultReg holds the first integer result of a generated function.
const ResultReg = jit.RAX

// Get the register holding integer argument i (starting at 0) of a generated function.
// Panics if i is not one of the 9 register-passed integer arguments.
func ArgReg(i int) jit.Reg {
	if i < 0 || i >= len(argRegs) {
		panic(fmt.Sprintf("native: no register for integer argument %d", i))
	}
	return argRegs[i]
}

// Get the number of integer arguments passed in registers.
func NumArgRegs() int { return len(argRegs) }
