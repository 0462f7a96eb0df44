package jit

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"golang.org/x/arch/x86/x86asm"

	jiterrors "github.com/wdamron/jit/errors"
)

// Hard-coded instruction sequences are manually verified through the following tools:
//   * ODA: https://onlinedisassembler.com/odaweb/
//   * Shell-Storm: http://shell-storm.org/online/Online-Assembler-and-Disassembler/

func TestEncodeVectors(t *testing.T) {
	for _, tc := range []struct {
		op     Opcode
		arg    Operand
		expect []byte
	}{
		{RET, None{}, []byte{0xc3}},
		{RET, nil, []byte{0xc3}},
		{MOV, RegImm32{Reg: RAX, Imm: 3}, []byte{0x48, 0xc7, 0xc0, 0x03, 0x00, 0x00, 0x00}},
		{MOV, RegImm32{Reg: R9, Imm: 0x12345678}, []byte{0x49, 0xc7, 0xc1, 0x78, 0x56, 0x34, 0x12}},
		{MOV, RegReg{Dst: RAX, Src: RCX}, []byte{0x48, 0x89, 0xc8}},
		{MOV, RegReg{Dst: R8, Src: RAX}, []byte{0x49, 0x89, 0xc0}},
		{MOV, RegReg{Dst: RAX, Src: R8}, []byte{0x4c, 0x89, 0xc0}},
		{MOV, RegReg{Dst: R15, Src: R14}, []byte{0x4d, 0x89, 0xf7}},
		{INC, RAX, []byte{0x48, 0xff, 0xc0}},
		{INC, R8, []byte{0x49, 0xff, 0xc0}},
		{DEC, RCX, []byte{0x48, 0xff, 0xc9}},
		{DEC, R15, []byte{0x49, 0xff, 0xcf}},
		{INC, BytePtr{Base: RAX}, []byte{0xfe, 0x00}},
		{DEC, BytePtr{Base: RBX}, []byte{0xfe, 0x0b}},
		{INC, BytePtr{Base: R9}, []byte{0x41, 0xfe, 0x01}},
		{CMP, BytePtrImm8{Reg: RAX, Imm: 5}, []byte{0x80, 0xc0, 0x05}},
		{CMP, BytePtrImm8{Reg: R10, Imm: 0xff}, []byte{0x41, 0x80, 0xc2, 0xff}},
		{CMP, MemImm8{Base: RSI, Imm: 0x2b}, []byte{0x80, 0x3e, 0x2b}},
		{CMP, MemImm8{Base: R8, Imm: 1}, []byte{0x41, 0x80, 0x38, 0x01}},
		{CMP, RegImm32{Reg: RAX, Imm: 16}, []byte{0x48, 0x81, 0xf8, 0x10, 0x00, 0x00, 0x00}},
		{CMP, RegReg{Dst: RAX, Src: RCX}, []byte{0x48, 0x39, 0xc8}},
		{JCC, Branch8{Cond: CCEq, Disp: 4}, []byte{0x74, 0x04}},
		{JCC, Branch8{Cond: CCNeq, Disp: -2}, []byte{0x75, 0xfe}},
		{JCC, Branch32{Cond: CCSignedLT, Disp: 0x100}, []byte{0x0f, 0x8c, 0x00, 0x01, 0x00, 0x00}},
		{JMP, Imm8(-2), []byte{0xeb, 0xfe}},
		{JMP, Imm32(0x10), []byte{0xe9, 0x10, 0x00, 0x00, 0x00}},
	} {
		t.Run(fmt.Sprintf("%v %v", tc.op, tc.arg), func(t *testing.T) {
			code, err := Encode(tc.op, tc.arg)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(code, tc.expect) {
				t.Fatalf("encoded inst = %#x != %#x", code, tc.expect)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	check := func(expect string, op Opcode, arg Operand) {
		t.Helper()
		code, err := Encode(op, arg)
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := x86asm.Decode(code, 64)
		if err != nil {
			t.Fatalf("%#x: %v", code, err)
		}
		if decoded.Len != len(code) {
			t.Fatalf("decoded length %d != encoded length %d (%#x)", decoded.Len, len(code), code)
		}
		intel := x86asm.IntelSyntax(decoded, 0, nil)
		if intel != expect {
			t.Logf("encoded inst = %#x\n", code)
			t.Fatalf("decoded inst = %s != %s", intel, expect)
		}
	}

	names := [...]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi", "r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}
	for r := RAX; r <= R15; r++ {
		name := names[r]
		check("inc "+name, INC, r)
		check("dec "+name, DEC, r)
		check("mov "+name+", 0x7f", MOV, RegImm32{Reg: r, Imm: 0x7f})
		check("cmp "+name+", 0x7f", CMP, RegImm32{Reg: r, Imm: 0x7f})
		for s := RAX; s <= R15; s++ {
			check("mov "+name+", "+names[s], MOV, RegReg{Dst: r, Src: s})
			check("cmp "+name+", "+names[s], CMP, RegReg{Dst: r, Src: s})
		}
		if r.Low() == 4 || r.Low() == 5 {
			continue
		}
		check("inc byte ptr ["+name+"]", INC, BytePtr{Base: r})
		check("dec byte ptr ["+name+"]", DEC, BytePtr{Base: r})
		check("cmp byte ptr ["+name+"], 0x2b", CMP, MemImm8{Base: r, Imm: 0x2b})
	}

	// the register-direct byte form carries a zero reg field
	check("add al, 0x5", CMP, BytePtrImm8{Reg: RAX, Imm: 5})
	check("add r8b, 0x5", CMP, BytePtrImm8{Reg: R8, Imm: 5})

	check("ret", RET, None{})
	check("jz .+0x4", JCC, Branch8{Cond: CCEq, Disp: 4})
	check("jnz .-0x4", JCC, Branch8{Cond: CCNeq, Disp: -4})
	check("jz .+0x8000", JCC, Branch32{Cond: CCEq, Disp: 32768})
	check("jz .-0x8000", JCC, Branch32{Cond: CCEq, Disp: -32768})
	check("jmp .+0x4", JMP, Imm8(4))
	check("jmp .-0x8000", JMP, Imm32(-32768))
}

func TestEncodeDeterministic(t *testing.T) {
	args := []Operand{None{}, RAX, R12, Imm8(1), Imm32(-1), RegImm32{R11, -5}, RegReg{R10, RBX}, BytePtr{RDI}, BytePtrImm8{R9, 7}, MemImm8{R14, 9}, Branch8{CCSign, 3}, Branch32{CCParity, 1 << 20}}
	for op := Opcode(0); op <= JMP+1; op++ {
		for _, arg := range args {
			first, err1 := Encode(op, arg)
			second, err2 := Encode(op, arg)
			if !bytes.Equal(first, second) || fmt.Sprint(err1) != fmt.Sprint(err2) {
				t.Fatalf("%v %v: %#x (%v) != %#x (%v)", op, arg, first, err1, second, err2)
			}
		}
	}
}

func TestEncodeUnsupported(t *testing.T) {
	for _, tc := range []struct {
		op  Opcode
		arg Operand
	}{
		{MOV, None{}},
		{MOV, RAX},
		{MOV, Imm32(1)},
		{MOV, BytePtr{Base: RAX}},
		{INC, None{}},
		{INC, Imm8(1)},
		{DEC, RegReg{Dst: RAX, Src: RCX}},
		{CMP, RAX},
		{CMP, BytePtr{Base: RAX}},
		{JCC, Imm8(1)},
		{JMP, RAX},
		{JMP, Branch8{Cond: CCEq}},
		{Opcode(0), None{}},
		{Opcode(200), RAX},
	} {
		code, err := Encode(tc.op, tc.arg)
		if !errors.Is(err, jiterrors.ErrUnsupportedEncoding) {
			t.Fatalf("%v %v: expected ErrUnsupportedEncoding, found %#x, %v", tc.op, tc.arg, code, err)
		}
		if len(code) != 0 {
			t.Fatalf("%v %v: encoded %#x on failure", tc.op, tc.arg, code)
		}
	}
}

func TestEncodeInvalidOperand(t *testing.T) {
	for _, tc := range []struct {
		op  Opcode
		arg Operand
	}{
		{RET, RAX},
		{RET, Imm8(0)},
		{RET, RegImm32{Reg: RAX}},
		{INC, Reg(16)},
		{MOV, RegReg{Dst: RAX, Src: Reg(99)}},
		{MOV, RegImm32{Reg: Reg(16)}},
		{INC, BytePtr{Base: RSP}},
		{DEC, BytePtr{Base: RBP}},
		{INC, BytePtr{Base: R12}},
		{CMP, MemImm8{Base: R13}},
		{JCC, Branch8{Cond: Cond(16)}},
		{JCC, Branch32{Cond: Cond(0xff)}},
	} {
		_, err := Encode(tc.op, tc.arg)
		if !errors.Is(err, jiterrors.ErrInvalidOperand) {
			t.Fatalf("%v %v: expected ErrInvalidOperand, found %v", tc.op, tc.arg, err)
		}
	}
}

func TestAppendEncode(t *testing.T) {
	dst := []byte{0x90}
	dst, err := AppendEncode(dst, INC, RAX)
	if err != nil {
		t.Fatal(err)
	}
	dst, err = AppendEncode(dst, RET, None{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dst, []byte{0x90, 0x48, 0xff, 0xc0, 0xc3}) {
		t.Fatalf("AppendEncode = %#x", dst)
	}
	out, err := AppendEncode(dst, RET, RAX)
	if err == nil || !bytes.Equal(out, dst) {
		t.Fatalf("failed AppendEncode = %#x, %v", out, err)
	}
}

func TestModRMRoundTrip(t *testing.T) {
	for mod := uint8(0); mod < 4; mod++ {
		for reg := uint8(0); reg < 8; reg++ {
			for rm := uint8(0); rm < 8; rm++ {
				m, r, x := DecodeModRM(ModRM(mod, reg, rm))
				if m != mod || r != reg || x != rm {
					t.Fatalf("ModRM(%d, %d, %d) decoded as (%d, %d, %d)", mod, reg, rm, m, r, x)
				}
			}
		}
	}
	if ModRM(0b11, 0b1001, 0b1000) != 0xc8 {
		t.Fatalf("ModRM should only use the low bits of reg and rm")
	}
}

func TestREX(t *testing.T) {
	for _, tc := range []struct {
		w, r, x, b bool
		expect     byte
	}{
		{false, false, false, false, 0x40},
		{true, false, false, false, 0x48},
		{true, false, false, true, 0x49},
		{true, true, false, false, 0x4c},
		{false, false, true, false, 0x42},
		{true, true, true, true, 0x4f},
	} {
		if rex := REX(tc.w, tc.r, tc.x, tc.b); rex != tc.expect {
			t.Fatalf("REX(%v, %v, %v, %v) = %#x", tc.w, tc.r, tc.x, tc.b, rex)
		}
	}
}

func TestNames(t *testing.T) {
	if MOV.Name() != "MOV" || JCC.String() != "JCC" || Opcode(0).Name() != "OP?" {
		t.Fatal("unexpected opcode names")
	}
	if R13.String() != "R13" || Reg(16).String() != "REG?" {
		t.Fatal("unexpected register names")
	}
	if CCEq.String() != "JZ" || CCEq.Inverse() != CCNeq || CCSignedGT.Inverse() != CCSignedLTE {
		t.Fatal("unexpected condition codes")
	}
}
