//go:build mage

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

// goTool runs the go command. Output is shown for streamed commands and
// whenever mage runs with -v.
func goTool(stream bool, args ...string) error {
	fmt.Printf("Executing: go %s\n", strings.Join(args, " "))
	run := sh.Run
	if stream {
		run = sh.RunV
	}
	if err := run(mg.GoCmd(), args...); err != nil {
		return fmt.Errorf("go %s: %w", args[0], err)
	}
	return nil
}

// buildCmd compiles ./cmd/<name> into bin/<name>.
func buildCmd(name string) error {
	return goTool(true, "build", "-o", filepath.Join(binDir, name), "./cmd/"+name)
}

// runTool runs wyrmtool from source with args.
func runTool(args ...string) error {
	return goTool(true, append([]string{"run", "./cmd/wyrmtool"}, args...)...)
}
