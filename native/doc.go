// package native turns code inside an executable region into callable Go function-values
//
// This is the only place in the module where raw code addresses become functions. Nothing here
// verifies that the region is executable, that the code is complete, or that the declared
// signature matches the code; violating any of these is undefined behavior.
//
// Generated code is entered through a regular Go closure call on amd64. Integer arguments
// arrive in the registers returned by ArgReg and the result is returned in ResultReg (RAX).
// The code runs on the calling goroutine's stack and must leave RSP, RBP, R14 (the current goroutine) and X15 intact.
package native
