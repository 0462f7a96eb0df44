//go:build unix || windows

package disasm

import (
	"testing"

	"github.com/wdamron/jit"
	"github.com/wdamron/jit/mem"
)

func TestRegion(t *testing.T) {
	r, err := mem.New(1)
	if err != nil {
		t.Fatalf("mem.New failed: %v", err)
	}
	defer r.Close()

	asm := jit.NewAssembler(r)
	asm.Inst(jit.INC, jit.R8)
	second := asm.PC()
	asm.MovImm(jit.RAX, 3)
	asm.Mov(jit.RAX, jit.RCX)
	asm.Inst(jit.CMP, jit.MemImm8{Base: jit.RDI, Imm: 0x2b})
	asm.Ret()
	if err := asm.Finalize(); err != nil {
		t.Fatal(err)
	}

	lines, err := Region(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 5 {
		t.Fatalf("expected %v instructions, found %v", 5, len(lines))
	}
	check := func(expect string, line Line) {
		if line.Text() != expect {
			t.Fatalf("Expected instruction: %s --- found %s", expect, line.Text())
		}
	}
	check("inc r8", lines[0])
	check("mov rax, 0x3", lines[1])
	check("mov rax, rcx", lines[2])
	check("cmp byte ptr [rdi], 0x2b", lines[3])
	check("ret", lines[4])

	if lines[1].Offset != second || len(lines[1].Bytes) != 7 {
		t.Fatalf("line = %+v", lines[1])
	}
	if s := lines[4].String(); s != "0010  c3                    ret" {
		t.Fatalf("String() = %q", s)
	}

	tail, err := Region(r, second)
	if err != nil || len(tail) != 4 || tail[0].Offset != second {
		t.Fatalf("Region(r, %d) = %v, %v", second, tail, err)
	}
	if _, err := Region(r, r.Len()+1); err == nil {
		t.Fatal("Region past the written code should fail")
	}
}

func TestCodeStops(t *testing.T) {
	code := []byte{0x48, 0xff, 0xc0, 0xc3, 0x48, 0xff, 0xc8}
	n := 0
	err := Code(code, 0, func(l Line) bool {
		n++
		return l.Text() != "ret"
	})
	if err != nil || n != 2 {
		t.Fatalf("Code() decoded %d instructions, %v", n, err)
	}
}

func TestListingError(t *testing.T) {
	// a lone 0x0f is truncated
	lines, err := Listing([]byte{0xc3, 0x0f}, 0x10)
	if err == nil {
		t.Fatal("expected a decoding error")
	}
	if len(lines) != 1 || lines[0].Offset != 0x10 {
		t.Fatalf("lines = %v", lines)
	}
}

func TestListingPrefixOnly(t *testing.T) {
	for _, code := range [][]byte{{0x0f}, {0x48}, {0x66, 0x48}} {
		lines, err := Listing(code, 0)
		if err == nil || len(lines) != 0 {
			t.Fatalf("Listing(%#x) = %v, %v", code, lines, err)
		}
	}
}
