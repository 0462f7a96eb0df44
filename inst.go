package jit

// Opcode represents an instruction-mnemonic.
//
// The zero value is not a valid mnemonic; encoding it always fails with an unsupported-encoding error.
type Opcode uint8

// Mnemonics
const (
	_ Opcode = iota
	MOV
	INC
	DEC
	CMP
	RET
	JCC // conditional branch; the condition is carried by the Branch8/Branch32 operand
	JMP
)

var opcodeNames = [...]string{"", "MOV", "INC", "DEC", "CMP", "RET", "JCC", "JMP"}

// Get the name of the instruction mnemonic.
func (op Opcode) Name() string {
	if int(op) >= len(opcodeNames) || op == 0 {
		return "OP?"
	}
	return opcodeNames[op]
}

func (op Opcode) String() string { return op.Name() }
