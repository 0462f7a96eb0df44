package jit

// Reg is a 64-bit general-purpose register, identified by its architectural number (0-15).
//
// Reg implements Operand.
type Reg uint8

// Registers
const (
	RAX Reg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

var regNames = [...]string{
	"RAX", "RCX", "RDX", "RBX", "RSP", "RBP", "RSI", "RDI",
	"R8", "R9", "R10", "R11", "R12", "R13", "R14", "R15",
}

func (r Reg) isOperand() {}

// Get the architectural number for the register.
func (r Reg) Num() uint8 { return uint8(r) }

// Get the 3-bit field used in ModRM reg/rm for the register.
func (r Reg) Low() uint8 { return uint8(r) & 7 }

// Check if the register requires a REX extension bit (R8-R15).
func (r Reg) IsExtended() bool { return uint8(r)&8 != 0 }

// Check if the register number identifies one of the 16 general-purpose registers.
func (r Reg) Valid() bool { return r <= R15 }

func (r Reg) String() string {
	if !r.Valid() {
		return "REG?"
	}
	return regNames[r]
}
