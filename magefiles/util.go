//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// goTest runs go test on the packages under path, preferring richgo when it
// is installed.
func goTest(path string, args ...string) error {
	gocmd := "go"
	if _, err := exec.LookPath("richgo"); err == nil {
		gocmd = "richgo"
	}
	testArgs := append([]string{"test", "-failfast", "-count=1"}, args...)
	return sh.RunV(gocmd, append(testArgs, path)...)
}

// goRun runs `go run` from dir, which selects the go.mod whose tool
// directives resolve the command.
func goRun(dir string, args ...string) error {
	c := exec.Command("go", append([]string{"run"}, args...)...)
	c.Dir = dir
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if mg.Verbose() {
		fmt.Println("exec: go run", strings.Join(args, " "))
	}

	err := c.Run()
	if err != nil && sh.CmdRan(err) {
		return mg.Fatalf(sh.ExitStatus(err), "go run %s failed: %v", args[0], err)
	}
	return err
}
