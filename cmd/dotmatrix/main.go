// Package main provides the dotmatrix CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dotmatrix-emu/dotmatrix/internal/cartridge"
	"github.com/dotmatrix-emu/dotmatrix/internal/emulator"
	"github.com/dotmatrix-emu/dotmatrix/internal/testrom"
)

var (
	// ErrTestFailed indicates a test ROM did not report a pass.
	ErrTestFailed = errors.New("test failed")

	// ErrInvalidScale indicates the scale factor is out of range.
	ErrInvalidScale = errors.New("scale must be between 1 and 10")
)

// CLI is the command-line surface.
type CLI struct {
	Info InfoCmd `cmd:"" help:"Display cartridge information."`
	Run  RunCmd  `cmd:"" help:"Run a Game Boy ROM with a live VRAM viewer."`
	Test TestCmd `cmd:"" help:"Run a test ROM and report its verdict."`
}

// InfoCmd prints the cartridge header.
type InfoCmd struct {
	ROM string `arg:"" type:"existingfile" help:"Path to ROM file."`
}

// Run executes the info command.
func (c *InfoCmd) Run() error {
	rom, err := os.ReadFile(c.ROM)
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}

	cart, err := cartridge.New(rom)
	if err != nil {
		return fmt.Errorf("failed to load cartridge: %w", err)
	}

	header := cart.Header()
	fmt.Printf("ROM Information:\n")
	fmt.Printf("  Title:          %s\n", header.Title)
	fmt.Printf("  Cartridge Type: %s (0x%02X)\n", header.Type, byte(header.Type))
	fmt.Printf("  ROM Size:       %d KiB (%d banks)\n", header.ROMBytes()/1024, header.ROMBanks())
	fmt.Printf("  RAM Size:       %d KiB (%d banks)\n", header.RAMBytes()/1024, header.RAMBanks())
	fmt.Printf("  Has Battery:    %v\n", cart.HasBattery())
	fmt.Printf("  CGB Flag:       0x%02X\n", header.CGBFlag)
	fmt.Printf("  SGB Flag:       0x%02X\n", header.SGBFlag)

	return nil
}

// RunCmd runs a ROM in a window. Rendering proper is out of this core's
// scope, so the window shows the VRAM tile set decoded live while the CPU,
// bus and timer run.
type RunCmd struct {
	ROM   string `arg:"" type:"existingfile" help:"Path to ROM file."`
	Scale int    `help:"Display scale factor (1-10)." default:"3"`
}

// Run executes the run command.
func (c *RunCmd) Run() error {
	if c.Scale < 1 || c.Scale > 10 {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, c.Scale)
	}

	rom, err := os.ReadFile(c.ROM)
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}

	emu, err := emulator.New(rom)
	if err != nil {
		return fmt.Errorf("failed to create emulator: %w", err)
	}

	savePath := c.ROM + ".sav"
	loadBatteryRAM(emu, savePath)

	display := NewDisplay(emu)

	ebiten.SetWindowTitle("dotmatrix - " + emu.Cartridge().Header().Title)
	ebiten.SetWindowSize(tilesPerRow*8*c.Scale, tileRows*8*c.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	runErr := ebiten.RunGame(display)

	saveBatteryRAM(emu, savePath)

	if runErr != nil {
		return fmt.Errorf("emulator error: %w", runErr)
	}
	return nil
}

// loadBatteryRAM restores cartridge RAM from a .sav file, when present.
func loadBatteryRAM(emu *emulator.Emulator, path string) {
	cart := emu.Cartridge()
	if !cart.HasBattery() {
		return
	}
	data, err := os.ReadFile(path) // #nosec G304 - derived from the user's ROM path
	if err != nil {
		return
	}
	cart.LoadRAM(data)
}

// saveBatteryRAM persists cartridge RAM next to the ROM.
func saveBatteryRAM(emu *emulator.Emulator, path string) {
	cart := emu.Cartridge()
	if !cart.HasBattery() {
		return
	}
	ram := cart.RAM()
	if ram == nil {
		return
	}
	if err := os.WriteFile(path, ram, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write save file: %v\n", err)
	}
}

// TestCmd runs a test ROM and reports its result.
type TestCmd struct {
	ROM     string `arg:"" type:"existingfile" help:"Path to test ROM file."`
	Timeout int    `default:"30" help:"Timeout in seconds."`
	Verbose bool   `short:"v" help:"Show the ROM's full output."`
}

// Run executes the test command.
func (c *TestCmd) Run() error {
	fmt.Printf("Running test ROM: %s\n", c.ROM)

	result := testrom.Run(c.ROM, time.Duration(c.Timeout)*time.Second)
	fmt.Printf("Result: %s\n", result.String())

	if c.Verbose || !result.Success() {
		fmt.Printf("\nOutput:\n%s\n", result.Output)
	}

	if !result.Success() {
		return ErrTestFailed
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("dotmatrix"),
		kong.Description("A Game Boy (DMG) CPU/MMU/timer core written in Go."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
