package jit

import (
	"github.com/wdamron/jit/errors"
)

// Opcode extensions carried in ModRM.reg for group opcodes.
const (
	extInc uint8 = 0
	extDec uint8 = 1
	extCmp uint8 = 7
)

// Encode op with arg and return the instruction bytes.
//
// Encoding is pure: identical inputs always produce identical output. If no encoding exists
// for the pair, an error matching errors.ErrUnsupportedEncoding is returned; if the pair is
// known but arg cannot be encoded (RET with an operand, a register number above 15, a base
// register which requires a SIB byte), an error matching errors.ErrInvalidOperand is returned.
func Encode(op Opcode, arg Operand) ([]byte, error) {
	return AppendEncode(nil, op, arg)
}

// Encode op with arg and append the instruction bytes to dst. On failure dst is returned
// unmodified along with the error.
func AppendEncode(dst []byte, op Opcode, arg Operand) ([]byte, error) {
	if arg == nil {
		arg = None{}
	}
	b := buffer{b: dst}
	var err error
	switch op {
	case RET:
		err = b.ret(arg)
	case INC:
		err = b.incDec(op, arg, extInc)
	case DEC:
		err = b.incDec(op, arg, extDec)
	case MOV:
		err = b.mov(arg)
	case CMP:
		err = b.cmp(arg)
	case JCC:
		err = b.jcc(arg)
	case JMP:
		err = b.jmp(arg)
	default:
		err = errors.Unsupported(op, arg)
	}
	if err != nil {
		return dst, err
	}
	return b.b, nil
}

func (b *buffer) ret(arg Operand) error {
	if _, ok := arg.(None); !ok {
		return errors.InvalidOperand(RET, arg, "RET takes no operand")
	}
	b.Byte(0xc3)
	return nil
}

func (b *buffer) incDec(op Opcode, arg Operand, ext uint8) error {
	switch v := arg.(type) {
	case Reg:
		if err := sanitizeRegs(op, arg, v); err != nil {
			return err
		}
		b.rex(true, RAX, v)
		b.opModRM(0xff, modDirect, ext, v.Low())
	case BytePtr:
		if err := sanitizeBase(op, arg, v.Base); err != nil {
			return err
		}
		b.rex(false, RAX, v.Base)
		b.opModRM(0xfe, modNoDisp, ext, v.Base.Low())
	default:
		return errors.Unsupported(op, arg)
	}
	return nil
}

func (b *buffer) mov(arg Operand) error {
	switch v := arg.(type) {
	case RegImm32:
		if err := sanitizeRegs(MOV, arg, v.Reg); err != nil {
			return err
		}
		b.rex(true, RAX, v.Reg)
		b.opModRM(0xc7, modDirect, 0, v.Reg.Low())
		b.Int32(v.Imm)
	case RegReg:
		if err := sanitizeRegs(MOV, arg, v.Dst, v.Src); err != nil {
			return err
		}
		// MOV r/m64, r64: the source travels in ModRM.reg, the destination in ModRM.rm
		b.rex(true, v.Src, v.Dst)
		b.opModRM(0x89, modDirect, v.Src.Low(), v.Dst.Low())
	default:
		return errors.Unsupported(MOV, arg)
	}
	return nil
}

func (b *buffer) cmp(arg Operand) error {
	switch v := arg.(type) {
	case BytePtrImm8:
		// register-direct with a zero reg field; MemImm8 is the memory form
		if err := sanitizeRegs(CMP, arg, v.Reg); err != nil {
			return err
		}
		b.rex(false, RAX, v.Reg)
		b.opModRM(0x80, modDirect, 0, v.Reg.Low())
		b.Byte(v.Imm)
	case MemImm8:
		if err := sanitizeBase(CMP, arg, v.Base); err != nil {
			return err
		}
		b.rex(false, RAX, v.Base)
		b.opModRM(0x80, modNoDisp, extCmp, v.Base.Low())
		b.Byte(v.Imm)
	case RegImm32:
		if err := sanitizeRegs(CMP, arg, v.Reg); err != nil {
			return err
		}
		b.rex(true, RAX, v.Reg)
		b.opModRM(0x81, modDirect, extCmp, v.Reg.Low())
		b.Int32(v.Imm)
	case RegReg:
		if err := sanitizeRegs(CMP, arg, v.Dst, v.Src); err != nil {
			return err
		}
		b.rex(true, v.Src, v.Dst)
		b.opModRM(0x39, modDirect, v.Src.Low(), v.Dst.Low())
	default:
		return errors.Unsupported(CMP, arg)
	}
	return nil
}

func (b *buffer) jcc(arg Operand) error {
	switch v := arg.(type) {
	case Branch8:
		if !v.Cond.Valid() {
			return errors.InvalidOperand(JCC, arg, "condition code out of range")
		}
		b.Byte(0x70 | byte(v.Cond))
		b.Int8(v.Disp)
	case Branch32:
		if !v.Cond.Valid() {
			return errors.InvalidOperand(JCC, arg, "condition code out of range")
		}
		b.Byte2(0x0f, 0x80|byte(v.Cond))
		b.Int32(v.Disp)
	default:
		return errors.Unsupported(JCC, arg)
	}
	return nil
}

func (b *buffer) jmp(arg Operand) error {
	switch v := arg.(type) {
	case Imm8:
		b.Byte(0xeb)
		b.Int8(int8(v))
	case Imm32:
		b.Byte(0xe9)
		b.Int32(int32(v))
	default:
		return errors.Unsupported(JMP, arg)
	}
	return nil
}
