//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace

// Builds the wyrm viewer into bin/.
func (Build) Wyrm() error {
	return buildCmd("wyrm")
}

// Builds the headless wyrmtool into bin/.
func (Build) Tool() error {
	return buildCmd("wyrmtool")
}

// Builds both binaries.
func (Build) All() {
	mg.Deps(Build.Wyrm, Build.Tool)
}

// Runs go vet and the test suite.
func Test() error {
	if err := goTool(true, "vet", "./..."); err != nil {
		return err
	}
	return goTool(true, "test", "./...")
}

// Tidies go.mod and go.sum.
func Tidy() error {
	return goTool(false, "mod", "tidy")
}

// Removes built binaries.
func Clean() error {
	return sh.Rm(binDir)
}
