//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"codeberg.org/snonux/babelbox/internal"
)

const (
	binaryName = "babelbox"
	mainPath   = "./cmd/babelbox"
)

var Default = Build

const ldflags = "-s -w"

// Build builds the babelbox binary for the host
func Build() error {
	fmt.Println("Building", binaryName, "version", internal.Version)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binaryName, mainPath)
}

// BuildPi cross-compiles for a 64-bit Raspberry Pi. cgo is required for
// PortAudio and SQLite, so a cross C compiler must be installed.
func BuildPi() error {
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "aarch64-linux-gnu-gcc"
	}
	env := map[string]string{
		"GOOS":        "linux",
		"GOARCH":      "arm64",
		"CGO_ENABLED": "1",
		"CC":          cc,
	}
	fmt.Println("Building", binaryName, "for linux/arm64 with", cc)
	return sh.RunWithV(env, "go", "build", "-ldflags", ldflags, "-o", binaryName+"-linux-arm64", mainPath)
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs the binary to ~/go/bin
func Install() error {
	mg.Deps(Vet, Test)

	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	fmt.Println("Installing to", filepath.Join(gopath, "bin", binaryName))
	return sh.RunV("go", "install", "-ldflags", ldflags, mainPath)
}

// Clean removes build artifacts
func Clean() error {
	for _, f := range []string{binaryName, binaryName + "-linux-arm64"} {
		if err := sh.Rm(f); err != nil {
			return err
		}
	}
	return nil
}
