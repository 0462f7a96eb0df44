package jit

// Cond is an x86 condition code, as encoded in the low nibble of Jcc opcodes.
type Cond byte

const (
	CCOverflow    Cond = 0x0
	CCNoOverflow  Cond = 0x1
	CCUnsignedLT  Cond = 0x2
	CCUnsignedGTE Cond = 0x3
	CCEq          Cond = 0x4
	CCNeq         Cond = 0x5
	CCUnsignedLTE Cond = 0x6
	CCUnsignedGT  Cond = 0x7
	CCSign        Cond = 0x8
	CCNoSign      Cond = 0x9
	CCParity      Cond = 0xA
	CCNoParity    Cond = 0xB
	CCSignedLT    Cond = 0xC
	CCSignedGTE   Cond = 0xD
	CCSignedLTE   Cond = 0xE
	CCSignedGT    Cond = 0xF
)

// Mnemonic aliases
const (
	CCCarry   = CCUnsignedLT
	CCNoCarry = CCUnsignedGTE
	CCZero    = CCEq
	CCNotZero = CCNeq
	CCAbove   = CCUnsignedGT
	CCBelow   = CCUnsignedLT
	CCGreater = CCSignedGT
	CCLess    = CCSignedLT
)

var ccNames = [...]string{
	"JO", "JNO", "JB", "JNB", "JZ", "JNZ", "JBE", "JNBE",
	"JS", "JNS", "JP", "JNP", "JL", "JNL", "JLE", "JNLE",
}

// Get the inverted condition. Conditions come in pairs which differ in the lowest bit.
func (cc Cond) Inverse() Cond { return cc ^ 1 }

// Check if the condition is one of the 16 encodable condition codes.
func (cc Cond) Valid() bool { return cc <= CCSignedGT }

func (cc Cond) String() string {
	if !cc.Valid() {
		return "J?"
	}
	return ccNames[cc]
}
