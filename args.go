package jit

import "fmt"

// Operand represents an instruction operand. The set of operand shapes is closed; every shape
// is declared in this package.
type Operand interface {
	isOperand()
	String() string
}

// None is the empty operand, for instructions which take no arguments (RET).
//
// None implements Operand.
type None struct{}

// Imm8 is an 8-bit immediate operand. JMP interprets it as a relative displacement.
//
// Imm8 implements Operand.
type Imm8 int8

// Imm32 is a 32-bit immediate operand. JMP interprets it as a relative displacement.
//
// Imm32 implements Operand.
type Imm32 int32

// RegImm32 is a 64-bit register destination with a 32-bit immediate, sign-extended by the CPU.
//
// RegImm32 implements Operand.
type RegImm32 struct {
	Reg Reg
	Imm int32
}

// RegReg is a register destination with a register source.
//
// RegReg implements Operand.
type RegReg struct {
	Dst Reg
	Src Reg
}

// BytePtr is a byte in memory addressed through a base register, with no displacement.
//
// BytePtr implements Operand.
type BytePtr struct {
	Base Reg
}

// BytePtrImm8 pairs a register with an 8-bit immediate. Despite the name, CMP encodes this
// operand with register-direct addressing; use MemImm8 to compare a byte in memory.
//
// BytePtrImm8 implements Operand.
type BytePtrImm8 struct {
	Reg Reg
	Imm uint8
}

// MemImm8 is a byte in memory addressed through a base register, with an 8-bit immediate.
//
// MemImm8 implements Operand.
type MemImm8 struct {
	Base Reg
	Imm  uint8
}

// Branch8 is a condition with an 8-bit displacement relative to the end of the branch.
//
// Branch8 implements Operand.
type Branch8 struct {
	Cond Cond
	Disp int8
}

// Branch32 is a condition with a 32-bit displacement relative to the end of the branch.
//
// Branch32 implements Operand.
type Branch32 struct {
	Cond Cond
	Disp int32
}

func (None) isOperand()        {}
func (Imm8) isOperand()        {}
func (Imm32) isOperand()       {}
func (RegImm32) isOperand()    {}
func (RegReg) isOperand()      {}
func (BytePtr) isOperand()     {}
func (BytePtrImm8) isOperand() {}
func (MemImm8) isOperand()     {}
func (Branch8) isOperand()     {}
func (Branch32) isOperand()    {}

func (None) String() string          { return "" }
func (i Imm8) String() string        { return fmt.Sprintf("%#x", int8(i)) }
func (i Imm32) String() string       { return fmt.Sprintf("%#x", int32(i)) }
func (o RegImm32) String() string    { return fmt.Sprintf("%v, %#x", o.Reg, o.Imm) }
func (o RegReg) String() string      { return fmt.Sprintf("%v, %v", o.Dst, o.Src) }
func (o BytePtr) String() string     { return fmt.Sprintf("BYTE PTR [%v]", o.Base) }
func (o BytePtrImm8) String() string { return fmt.Sprintf("%v, %#x", o.Reg, o.Imm) }
func (o MemImm8) String() string     { return fmt.Sprintf("BYTE PTR [%v], %#x", o.Base, o.Imm) }
func (o Branch8) String() string     { return fmt.Sprintf("%v %+d", o.Cond, o.Disp) }
func (o Branch32) String() string    { return fmt.Sprintf("%v %+d", o.Cond, o.Disp) }
