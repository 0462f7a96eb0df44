package jit

const (
	modNoDisp uint8 = 0 // [base]
	modDirect uint8 = 3 // register-direct
)

const (
	rexBase = 0x40
	rexW    = 0x08
	rexR    = 0x04
	rexX    = 0x02
	rexB    = 0x01
)

// REX returns the REX prefix byte 0100WRXB.
//
// w selects a 64-bit operand size; r, x and b extend the ModRM reg field, the SIB index field,
// and the ModRM rm (or SIB base) field respectively.
func REX(w, r, x, b bool) byte {
	rex := byte(rexBase)
	if w {
		rex |= rexW
	}
	if r {
		rex |= rexR
	}
	if x {
		rex |= rexX
	}
	if b {
		rex |= rexB
	}
	return rex
}

// ModRM returns the ModRM byte for the given addressing mode, reg field and rm field.
// Only the low 2 bits of mod and the low 3 bits of reg and rm are used.
func ModRM(mod, reg, rm uint8) byte {
	return (mod&3)<<6 | (reg&7)<<3 | (rm & 7)
}

// DecodeModRM splits a ModRM byte into its mod, reg and rm fields.
func DecodeModRM(modrm byte) (mod, reg, rm uint8) {
	return modrm >> 6, (modrm >> 3) & 7, modrm & 7
}

// Emit a REX prefix if any of its flags are set. reg extends ModRM.reg, rm extends ModRM.rm.
func (b *buffer) rex(w bool, reg, rm Reg) {
	if !w && !reg.IsExtended() && !rm.IsExtended() {
		return
	}
	b.Byte(REX(w, reg.IsExtended(), false, rm.IsExtended()))
}

// Emit opcode + ModRM.
func (b *buffer) opModRM(opcode byte, mod, reg, rm uint8) {
	b.Byte2(opcode, ModRM(mod, reg, rm))
}
