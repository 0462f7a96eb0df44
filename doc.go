// package jit provides a small x86-64 instruction encoder for generating code at runtime
//
// Encode maps an (Opcode, Operand) pair to the instruction bytes. The Assembler streams
// encoded instructions into a code region (see package jit/mem) and resolves branches to labels.
// Package jit/native turns an offset inside an executable region into a callable Go function-value.
//
// usage example:
//
// 	package example
//
// 	import (
// 		"github.com/wdamron/jit"
// 		"github.com/wdamron/jit/mem"
// 		"github.com/wdamron/jit/native"
// 	)
//
// 	func CompileThree() (func() int64, *mem.Region, error) {
// 		region, err := mem.New(1)
// 		if err != nil {
// 			return nil, nil, err
// 		}
//
// 		entry := region.Offset()
// 		asm := jit.NewAssembler(region)
// 		asm.MovImm(jit.RAX, 3) // RAX := 3
// 		asm.Ret()              // return RAX
// 		if err := asm.Finalize(); err != nil {
// 			region.Close()
// 			return nil, nil, err
// 		}
//
// 		if err := region.SetPermissions(true, false); err != nil {
// 			region.Close()
// 			return nil, nil, err
// 		}
//
// 		return native.Func0(region, entry), region, nil
// 	}
//
// Generated functions are called with the Go register ABI: integer arguments arrive in
// RAX, RBX, RCX, RDI, RSI, R8, R9, R10, R11 (see native.ArgReg) and the result is returned
// in RAX. Generated code must preserve RSP, RBP, R14 (the current goroutine) and X15.
package jit
