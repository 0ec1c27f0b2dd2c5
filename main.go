//go:build !js

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/asm"
	"gochip8/pkg/chip8"
)

func main() {
	inPath := flag.String("in", "", "input assembly file path")
	outPath := flag.String("out", "", "output ROM file path (default: input with .ch8 extension)")
	disasmPath := flag.String("disasm", "", "print the disassembly of a ROM file")
	runProgram := flag.Bool("run", false, "run the assembled ROM headless")
	runROMPath := flag.String("run-rom", "", "run an existing ROM file headless")
	clockHz := flag.Int("clock", chip8.DefaultClockHz, "CPU clock speed in Hz (1-500)")
	cycles := flag.Int("cycles", 0, "stop after this many cycles (0: run until interrupted)")
	trace := flag.Bool("trace", false, "log every executed instruction")
	flag.Parse()

	logger := createLogger(*trace)

	if *runProgram && *runROMPath != "" {
		fmt.Fprintln(os.Stderr, "use either -run or -run-rom, not both")
		os.Exit(2)
	}

	if *disasmPath != "" {
		if err := disassembleFile(*disasmPath); err != nil {
			logger.Fatal("disassembly failed", log.Err(err))
		}
		return
	}

	assembledOutput := ""
	if *inPath != "" {
		source, err := os.ReadFile(*inPath)
		if err != nil {
			logger.Fatal("failed to read input file", log.String("path", *inPath), log.Err(err))
		}

		rom, err := asm.Assemble(string(source))
		if err != nil {
			logger.Fatal("assembly failed", log.Err(err))
		}

		output := *outPath
		if output == "" {
			output = defaultOutputPath(*inPath)
		}
		if err := os.WriteFile(output, rom, 0o644); err != nil {
			logger.Fatal("failed to write ROM file", log.String("path", output), log.Err(err))
		}

		fmt.Printf("assembled %d bytes -> %s\n", len(rom), output)
		assembledOutput = output
	}

	runTarget := ""
	switch {
	case *runROMPath != "":
		runTarget = *runROMPath
	case *runProgram:
		if assembledOutput == "" {
			fmt.Fprintln(os.Stderr, "-run requires -in, or use -run-rom <file>")
			os.Exit(2)
		}
		runTarget = assembledOutput
	default:
		if *inPath == "" {
			fmt.Fprintln(os.Stderr, "nothing to do: provide -in to assemble, -disasm to disassemble, or -run-rom <file> to run")
			flag.Usage()
			os.Exit(2)
		}
		return
	}

	if err := runROM(app.Context(), logger, runTarget, *clockHz, *cycles, *trace); err != nil {
		logger.Fatal("run failed", log.String("path", runTarget), log.Err(err))
	}
}

func createLogger(trace bool) *log.Logger {
	cfg := log.DefaultConfig()
	if trace {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".ch8"
	}
	return strings.TrimSuffix(inPath, ext) + ".ch8"
}

func disassembleFile(path string) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for offset := 0; offset < len(rom); offset += 2 {
		word := uint16(rom[offset]) << 8
		if offset+1 < len(rom) {
			word |= uint16(rom[offset+1])
		}
		fmt.Printf("%03X  %04X  %s\n", chip8.ProgramStart+offset, word, chip8.Disassemble(word))
	}
	return nil
}

// runROM drives the machine from a monotonic-clock loop: Step at the
// configured CPU rate, timer ticks with the measured elapsed time between
// iterations. Stops on ctx cancellation, on the cycle budget, or on a stack
// fault from the program.
func runROM(ctx context.Context, logger *log.Logger, path string, clockHz, cycles int, trace bool) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg := chip8.Config{ClockHz: clockHz}
	if trace {
		cfg.Tracer = func(t chip8.Trace) {
			logger.Debug("exec",
				log.String("pc", fmt.Sprintf("%03X", t.PC)),
				log.String("opcode", fmt.Sprintf("%04X", t.Word)),
				log.String("mnemonic", t.Mnemonic))
		}
	}

	vm, err := chip8.New(cfg)
	if err != nil {
		return err
	}
	if err := vm.LoadROM(rom); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(vm.ClockHz()))
	defer ticker.Stop()

	executed := 0
	last := time.Now()
	for cycles == 0 || executed < cycles {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", log.Int("cycles", executed))
			return nil
		case now := <-ticker.C:
			vm.Tick(now.Sub(last))
			last = now
			if err := vm.Step(); err != nil {
				if errors.Is(err, chip8.ErrStackOverflow) || errors.Is(err, chip8.ErrStackUnderflow) {
					return fmt.Errorf("program fault: %w", err)
				}
				return err
			}
			executed++
		}
	}

	fmt.Printf(
		"run complete (%s): %d cycles, PC=0x%03X I=0x%03X SP=%d DT=%d ST=%d\n",
		path, executed, vm.Regs.PC, vm.Regs.I, vm.Regs.SP, vm.Timers.Delay, vm.Timers.Sound,
	)
	return nil
}
