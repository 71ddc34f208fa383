//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every test of the module with the race detector.
func (Test) All() error {
	fmt.Println("Run all tests...")
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the validator and compactor tests only.
func (Test) Core() error {
	if _, err := executeCmd("go", withArgs("test", "-count=1", "./engine/renderer/renderpass/..."), withStream()); err != nil {
		return err
	}
	return nil
}

type Run mg.Namespace

// Builds the CLI and validates the bundled descriptions.
func (Run) Validate() error {
	mg.Deps(Build.CLI)
	if _, err := executeCmd("bin/renderpass", withArgs("assets/renderpasses"), withStream()); err != nil {
		return err
	}
	return nil
}
