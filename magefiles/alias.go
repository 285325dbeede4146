//go:build mage

package main

// Aliases are the short target names accepted by `mage`.
var Aliases = map[string]any{
	"build":    Build.Binary,
	"man":      Build.Man,
	"test":     Test.Unit,
	"race":     Test.Race,
	"generate": Gen.All,
	"lint":     Lint.All,
}
