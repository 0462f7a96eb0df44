package jit

import (
	"encoding/binary"
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/wdamron/jit/errors"
)

// CodeWriter is the destination for assembled code. *mem.Region implements CodeWriter.
type CodeWriter interface {
	io.Writer
	// Offset returns the current write position.
	Offset() int
	// SetOffset moves the write position.
	SetOffset(offset int) error
}

// Label identifies a position in the assembled code. Labels are created with NewLabel and
// bound to the current program counter with Bind.
type Label uint16

const unbound = -1

// An assembler encodes instructions into a CodeWriter. Label references are supported, though
// Finalize must be called to patch branches to labels which were bound after the branch.
//
// When re-using an assembler after encoding a set of instructions, the Reset method must be called beforehand.
type Assembler struct {
	w      CodeWriter
	labels []int
	relocs []reloc
	err    error
	start  int

	scratch [16]byte
	_labels [32]int
	_relocs [32]reloc
}

type reloc struct {
	loc   int   // offset of the rel32 field
	end   int   // offset of the end of the branch instruction
	label Label // target label
}

// Create a new Assembler which writes encoded instructions to w, starting at w's current offset.
func NewAssembler(w CodeWriter) *Assembler {
	a := &Assembler{}
	a.Reset(w)
	return a
}

// Reset an assembler before encoding a new set of instructions. All existing labels will be cleared,
// the error will be cleared if one exists. If w is not nil it replaces the current destination.
func (a *Assembler) Reset(w CodeWriter) {
	if w != nil {
		a.w = w
	}
	a.err = nil
	a.labels = a._labels[:0]
	a.relocs = a._relocs[:0]
	if a.w != nil {
		a.start = a.w.Offset()
	}
}

// Get the first error which occured while encoding or finalizing instructions, since the assembler
// was last reset (or initialized, if the assembler has not been reset).
func (a *Assembler) Err() error { return a.err }

// Get the current program counter (i.e. the write offset of the destination).
func (a *Assembler) PC() int { return a.w.Offset() }

// Set the current program counter.
func (a *Assembler) SetPC(pc int) error {
	if a.err != nil {
		return a.err
	}
	a.err = a.w.SetOffset(pc)
	return a.err
}

// Encode op with arg to the destination and return the number of bytes written.
func (a *Assembler) Inst(op Opcode, arg Operand) (int, error) {
	if a.err != nil {
		return 0, a.err
	}
	code, err := AppendEncode(a.scratch[:0], op, arg)
	if err != nil {
		a.err = err
		return 0, err
	}
	n, err := a.w.Write(code)
	if err != nil {
		a.err = err
	}
	return n, err
}

// Encode RET.
func (a *Assembler) Ret() error {
	_, err := a.Inst(RET, None{})
	return err
}

// Encode MOV dst, imm32.
func (a *Assembler) MovImm(dst Reg, imm int32) error {
	_, err := a.Inst(MOV, RegImm32{Reg: dst, Imm: imm})
	return err
}

// Encode MOV dst, src.
func (a *Assembler) Mov(dst, src Reg) error {
	_, err := a.Inst(MOV, RegReg{Dst: dst, Src: src})
	return err
}

// Allocate a new, unbound label. At most math.MaxUint16+1 labels may be allocated between
// resets; beyond that the assembler's error is set.
func (a *Assembler) NewLabel() Label {
	if len(a.labels) > math.MaxUint16 {
		if a.err == nil {
			a.err = errors.New(errors.KindInvalidOperand).Op("label").Value(len(a.labels)).Detail("too many labels").Build()
		}
		return Label(math.MaxUint16)
	}
	a.labels = append(a.labels, unbound)
	return Label(len(a.labels) - 1)
}

// Bind l to the current program counter.
func (a *Assembler) Bind(l Label) error {
	if a.err != nil {
		return a.err
	}
	if int(l) >= len(a.labels) {
		a.err = errors.New(errors.KindInvalidOperand).Op("bind").Value(l).Detail("unknown label %d", l).Build()
		return a.err
	}
	if a.labels[l] != unbound {
		a.err = errors.New(errors.KindInvalidOperand).Op("bind").Value(l).Detail("label %d is already bound", l).Build()
		return a.err
	}
	a.labels[l] = a.PC()
	return nil
}

// Encode a conditional branch to l. Branches to bound labels use the shortest encoding;
// branches to unbound labels use a 32-bit displacement which is patched by Finalize.
func (a *Assembler) Jcc(cc Cond, l Label) error { return a.branch(JCC, cc, l) }

// Encode an unconditional branch to l.
func (a *Assembler) Jmp(l Label) error { return a.branch(JMP, 0, l) }

func (a *Assembler) branch(op Opcode, cc Cond, l Label) error {
	if a.err != nil {
		return a.err
	}
	if int(l) >= len(a.labels) {
		a.err = errors.New(errors.KindInvalidOperand).Op("branch").Value(l).Detail("%v to unknown label %d", op, l).Build()
		return a.err
	}
	pc := a.PC()
	if target := a.labels[l]; target != unbound {
		// short forms are 2 bytes for both JMP and Jcc
		if disp := target - (pc + 2); disp >= math.MinInt8 && disp <= math.MaxInt8 {
			_, err := a.Inst(op, branchArg(op, cc, disp, true))
			return err
		}
		_, err := a.Inst(op, branchArg(op, cc, target-(pc+nearBranchLen(op)), false))
		return err
	}
	n, err := a.Inst(op, branchArg(op, cc, 0, false))
	if err != nil {
		return err
	}
	a.relocs = append(a.relocs, reloc{loc: pc + n - 4, end: pc + n, label: l})
	return nil
}

func nearBranchLen(op Opcode) int {
	if op == JCC {
		return 6 // 0F 8x rel32
	}
	return 5 // E9 rel32
}

func branchArg(op Opcode, cc Cond, disp int, short bool) Operand {
	switch {
	case op == JCC && short:
		return Branch8{Cond: cc, Disp: int8(disp)}
	case op == JCC:
		return Branch32{Cond: cc, Disp: int32(disp)}
	case short:
		return Imm8(disp)
	default:
		return Imm32(disp)
	}
}

// Patch all pending branches to their labels. The program counter is left at the end of the
// assembled code. Every referenced label must be bound.
func (a *Assembler) Finalize() error {
	if a.err != nil {
		return a.err
	}
	end := a.PC()
	var rel [4]byte
	for _, r := range a.relocs {
		target := a.labels[r.label]
		if target == unbound {
			a.err = errors.New(errors.KindInvalidOperand).Op("finalize").Value(r.label).Detail("branch at %#x references unbound label %d", r.end, r.label).Build()
			return a.err
		}
		disp := target - r.end
		if disp < math.MinInt32 || disp > math.MaxInt32 {
			a.err = errors.New(errors.KindInvalidOperand).Op("finalize").Detail("branch displacement %d overflows 32 bits", disp).Build()
			return a.err
		}
		binary.LittleEndian.PutUint32(rel[:], uint32(int32(disp)))
		if a.err = a.w.SetOffset(r.loc); a.err != nil {
			return a.err
		}
		if _, a.err = a.w.Write(rel[:]); a.err != nil {
			return a.err
		}
	}
	if a.err = a.w.SetOffset(end); a.err != nil {
		return a.err
	}
	Logger().Debug("assembled code",
		zap.Int("start", a.start),
		zap.Int("size", end-a.start),
		zap.Int("labels", len(a.labels)),
		zap.Int("relocs", len(a.relocs)))
	a.relocs = a.relocs[:0]
	return nil
}
