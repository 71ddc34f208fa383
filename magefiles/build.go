//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module and builds the renderpass CLI into bin/.
func (Build) CLI() error {
	mg.Deps(Build.Tidy)
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/renderpass", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and go vet.
func (Build) Tidy() error {
	return goTidy()
}
