package jit

import (
	"github.com/wdamron/jit/errors"
)

// Check that every register referenced by an operand is one of the 16 general-purpose registers.
func sanitizeRegs(op Opcode, arg Operand, regs ...Reg) error {
	for _, r := range regs {
		if !r.Valid() {
			return errors.InvalidOperand(op, arg, "register number out of range")
		}
	}
	return nil
}

// Check that base can be encoded as [base] with mod=00 and no SIB byte or displacement.
//
// With mod=00, rm=100 selects a SIB byte (RSP, R12) and rm=101 selects RIP-relative addressing
// (RBP, R13). Both would change the meaning of the instruction, so they are rejected.
func sanitizeBase(op Opcode, arg Operand, base Reg) error {
	if err := sanitizeRegs(op, arg, base); err != nil {
		return err
	}
	switch base.Low() {
	case 4:
		return errors.InvalidOperand(op, arg, "base register requires a SIB byte")
	case 5:
		return errors.InvalidOperand(op, arg, "base register requires a displacement")
	}
	return nil
}
