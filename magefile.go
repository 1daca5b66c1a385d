//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	binDir  = "bin"
	appName = "ecommerce-api"
)

var Default = Dev

// Dev runs the API with hot reload when air is installed, plain go run
// otherwise.
func Dev() error {
	mg.Deps(Tidy)

	if _, err := exec.LookPath("air"); err == nil {
		fmt.Println("Starting hot-reload with air ...")
		return sh.RunV("air")
	}

	fmt.Println("air not found. Falling back to `go run ./cmd/api`.")
	return Run()
}

func Run() error {
	fmt.Println("Running (go run) ...")
	return sh.RunV("go", "run", "./cmd/api")
}

func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(binDir, appName)
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	fmt.Printf("Building %s ...\n", out)
	return sh.RunV("go", "build", "-o", out, "./cmd/api")
}

func Test() error {
	return sh.RunV("go", "test", "./...")
}

func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

// Migrate applies the schema and optionally seeds an admin from
// ADMIN_EMAIL / ADMIN_PASSWORD.
func Migrate() error {
	return sh.RunV("go", "run", "./cmd/tools/migrate")
}

// MockGateway starts the local payment gateway stand-in on :8090.
func MockGateway() error {
	return sh.RunV("go", "run", "./cmd/tools/mockgateway")
}

func Clean() error {
	return os.RemoveAll(binDir)
}
