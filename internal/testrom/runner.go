// Package testrom runs CPU conformance test ROMs (Blargg's suites) and
// interprets their serial-port output.
package testrom

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dotmatrix-emu/dotmatrix/internal/emulator"
)

// Result is the outcome of one test ROM run.
type Result struct {
	Output  string
	Passed  bool
	Failed  bool
	Timeout bool
	Err     error
}

// Run loads and executes a test ROM, waiting up to timeout for a verdict.
func Run(romPath string, timeout time.Duration) *Result {
	result := &Result{}

	// #nosec G304 - romPath comes from the user's CLI argument
	rom, err := os.ReadFile(romPath)
	if err != nil {
		result.Err = fmt.Errorf("failed to read ROM: %w", err)
		return result
	}

	emu, err := emulator.New(rom)
	if err != nil {
		result.Err = fmt.Errorf("failed to create emulator: %w", err)
		return result
	}

	output, err := emu.RunUntilOutput(timeout)
	result.Output = output

	if err != nil {
		result.Timeout = errors.Is(err, emulator.ErrTimeout)
		result.Err = err
		return result
	}

	// "Failed" wins if a ROM somehow prints both.
	result.Failed = strings.Contains(output, "Failed")
	result.Passed = strings.Contains(output, "Passed") && !result.Failed

	return result
}

// Success reports whether the ROM reported a clean pass.
func (r *Result) Success() bool {
	return r.Passed && !r.Failed && r.Err == nil
}

// String returns a one-word summary of the result.
func (r *Result) String() string {
	switch {
	case r.Err != nil && !r.Timeout:
		return fmt.Sprintf("ERROR: %v", r.Err)
	case r.Timeout:
		return "TIMEOUT"
	case r.Passed:
		return "PASSED"
	case r.Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
