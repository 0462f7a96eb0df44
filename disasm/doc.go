// package disasm provides disassembly of generated code, for inspecting what was emitted into a region.
//
// example usage:
//
// 	package example
//
// 	import (
// 		"fmt"
//
// 		"github.com/wdamron/jit"
// 		"github.com/wdamron/jit/disasm"
// 		"github.com/wdamron/jit/mem"
// 	)
//
// 	func Dump() error {
// 		region, err := mem.New(1)
// 		if err != nil {
// 			return err
// 		}
// 		defer region.Close()
//
// 		asm := jit.NewAssembler(region)
// 		asm.MovImm(jit.RAX, 3)
// 		asm.Ret()
// 		if err := asm.Finalize(); err != nil {
// 			return err
// 		}
//
// 		lines, err := disasm.Region(region, 0)
// 		for _, line := range lines {
// 			fmt.Println(line)
// 		}
// 		// Output:
// 		// 0000  48 c7 c0 03 00 00 00  mov rax, 0x3
// 		// 0007  c3                    ret
// 		return err
// 	}
package disasm
