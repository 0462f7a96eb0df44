// Command jitsmoke assembles a few fixed instruction sequences into an executable
// region, prints their encodings and disassembly, and calls them.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wdamron/jit"
	"github.com/wdamron/jit/disasm"
	"github.com/wdamron/jit/mem"
	"github.com/wdamron/jit/native"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// program is a fixed sequence assembled at entry and called with each of args.
type program struct {
	name  string
	args  []int64
	build func(asm *jit.Assembler)
	entry int
	end   int
}

func programs() []*program {
	return []*program{
		{
			name:  "ret",
			build: func(asm *jit.Assembler) { asm.Ret() },
		},
		{
			name: "three",
			build: func(asm *jit.Assembler) {
				asm.MovImm(native.ResultReg, 3)
				asm.Ret()
			},
		},
		{
			name: "inc",
			args: []int64{-1, 0, 41},
			build: func(asm *jit.Assembler) {
				asm.Inst(jit.INC, native.ArgReg(0))
				asm.Mov(native.ResultReg, native.ArgReg(0))
				asm.Ret()
			},
		},
		{
			name: "double",
			args: []int64{1, 5, 1000},
			build: func(asm *jit.Assembler) {
				loop := asm.NewLabel()
				asm.Mov(jit.RCX, native.ArgReg(0))
				asm.MovImm(native.ResultReg, 0)
				asm.Bind(loop)
				asm.Inst(jit.INC, native.ResultReg)
				asm.Inst(jit.INC, native.ResultReg)
				asm.Inst(jit.DEC, jit.RCX)
				asm.Jcc(jit.CCNeq, loop)
				asm.Ret()
			},
		},
	}
}

func main() {
	cfg := defaultConfig()
	var (
		configFile = flag.String("config", "", "Path to a TOML config file (optional)")
		pages      = flag.Int("pages", 0, "Pages to allocate for code (overrides config)")
		strictWX   = flag.Bool("strict-wx", false, "Refuse writable+executable regions")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		noDisasm   = flag.Bool("no-disasm", false, "Print encoded bytes without disassembly")
	)
	flag.Parse()

	if err := loadConfig(*configFile, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
	if *pages > 0 {
		cfg.Pages = *pages
	}
	if *strictWX {
		cfg.StrictWX = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *noDisasm {
		cfg.Disasm = false
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run(cfg config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	jit.SetLogger(logger.Named("jit"))
	mem.SetLogger(logger.Named("mem"))

	var opts []mem.Option
	if cfg.StrictWX {
		opts = append(opts, mem.WithStrictWX())
	}
	r, err := mem.New(cfg.Pages, opts...)
	if err != nil {
		return fmt.Errorf("allocate: %w", err)
	}
	defer r.Close()

	progs := programs()
	asm := jit.NewAssembler(r)
	for _, p := range progs {
		p.entry = asm.PC()
		p.build(asm)
		p.end = asm.PC()
	}
	if err := asm.Finalize(); err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	logger.Info("assembled",
		zap.Int("programs", len(progs)),
		zap.Int("bytes", r.Len()),
		zap.Int("capacity", r.Size()))

	for _, p := range progs {
		if err := printProgram(r, p, cfg.Disasm); err != nil {
			return err
		}
	}

	if runtime.GOARCH != "amd64" {
		fmt.Println(helpStyle.Render("skipping calls on " + runtime.GOARCH))
		return nil
	}
	if err := r.SetPermissions(true, !cfg.StrictWX); err != nil {
		return fmt.Errorf("make executable: %w", err)
	}
	logger.Debug("region executable", zap.Stringer("prot", r.Prot()))

	fmt.Println()
	fmt.Println(titleStyle.Render("calls"))
	for _, p := range progs {
		call(r, p)
	}
	return nil
}

func printProgram(r *mem.Region, p *program, withDisasm bool) error {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s @ %#04x", p.name, p.entry)))
	code := r.Bytes()[p.entry:p.end]
	if !withDisasm {
		fmt.Println(codeStyle.Render(fmt.Sprintf("% x", code)))
		return nil
	}
	lines, err := disasm.Listing(code, p.entry)
	for _, l := range lines {
		fmt.Println(codeStyle.Render(l.String()))
	}
	if err != nil {
		return fmt.Errorf("disassemble %s: %w", p.name, err)
	}
	return nil
}

func call(r *mem.Region, p *program) {
	if len(p.args) == 0 {
		f := native.Func0(r, p.entry)
		v := f()
		if p.name == "ret" {
			// RAX is whatever the caller left there
			fmt.Println(resultStyle.Render(p.name + "() returned"))
			return
		}
		fmt.Println(resultStyle.Render(fmt.Sprintf("%s() = %d", p.name, v)))
		return
	}
	f := native.Func1[int64, int64](r, p.entry)
	results := make([]string, 0, len(p.args))
	for _, a := range p.args {
		results = append(results, fmt.Sprintf("%s(%d) = %d", p.name, a, f(a)))
	}
	fmt.Println(resultStyle.Render(strings.Join(results, "  ")))
}
