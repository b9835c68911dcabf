//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the viewer with the default config.
func (Run) Viewer() error {
	fmt.Println("Run viewer...")
	return goTool(true, "run", "./cmd/wyrm")
}

// Streams poses on :8080 until interrupted.
func (Run) Serve() error {
	fmt.Println("Serving poses on :8080...")
	return runTool("serve", "-listen", ":8080", "-runtime", "3600")
}

// Writes the pose at t=2.5s to out/pose.glb.
func (Run) Export() error {
	return runTool("export", "-at", "2.5", "out/pose.glb")
}
