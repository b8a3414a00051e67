//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Smoke builds the CLI and previews one live query against the public API.
func Smoke() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	return sh.RunV(bin, "search", "--agencies", "NCI", "--years", "2024", "--activity-codes", "R01")
}

// Serve builds the CLI and runs the HTTP tool server.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}
