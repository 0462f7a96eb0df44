package disasm

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"

	"github.com/wdamron/jit/mem"
)

// Line is a single decoded instruction.
type Line struct {
	Offset int    // offset of the instruction within the region (or listing base)
	Bytes  []byte // encoded instruction
	Inst   x86asm.Inst
}

// Get the instruction in Intel syntax.
func (l Line) Text() string { return x86asm.IntelSyntax(l.Inst, 0, nil) }

func (l Line) String() string {
	return fmt.Sprintf("%04x  %-20s  %s", l.Offset, fmt.Sprintf("% x", l.Bytes), l.Text())
}

// Decode instructions from code until while returns false or code is exhausted. Offsets
// are reported relative to base.
//
// Some instructions supported by the instruction-encoder in the jit package are decoded
// differently than they are named there (see jit.BytePtrImm8).
func Code(code []byte, base int, while func(Line) bool) error {
	for n := 0; n < len(code); {
		inst, err := x86asm.Decode(code[n:], 64)
		if err != nil {
			return fmt.Errorf("decoding at %#x: %w", base+n, err)
		}
		if inst.Op == 0 {
			// prefixes without an opcode
			return fmt.Errorf("decoding at %#x: truncated instruction", base+n)
		}
		if !while(Line{Offset: base + n, Bytes: code[n : n+inst.Len], Inst: inst}) {
			return nil
		}
		n += inst.Len
	}
	return nil
}

// Decode all instructions in code. On a decoding error, the lines decoded so far are returned
// along with the error.
func Listing(code []byte, base int) ([]Line, error) {
	var lines []Line
	err := Code(code, base, func(l Line) bool {
		lines = append(lines, l)
		return true
	})
	return lines, err
}

// Decode the instructions written to r between offset from and the current write offset.
// r must be readable.
func Region(r *mem.Region, from int) ([]Line, error) {
	code := r.Bytes()
	if from < 0 || from > len(code) {
		return nil, fmt.Errorf("Offset %d is outside the written code (length %d)", from, len(code))
	}
	return Listing(code[from:], from)
}
