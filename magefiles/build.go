//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace

// Binary Build the rpqplan binary
func (Build) Binary() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "0"},
		"go", "build", "-o", "dist/rpqplan", "./cmd/rpqplan")
}

// Man Build the man page
func (b Build) Man() error {
	mg.Deps(b.Binary)
	out, err := sh.Output("dist/rpqplan", "man")
	if err != nil {
		return err
	}
	return os.WriteFile("dist/rpqplan.1", []byte(out+"\n"), 0o644)
}
