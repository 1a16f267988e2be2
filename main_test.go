// file: main_test.go
// version: 1.0.0
// guid: 1e3f5a7b-9c0d-4e5f-6a8b-0c2d4e6f8a9b

package main

import (
	"os"
	"testing"
)

func TestMainHelp(t *testing.T) {
	tempDir := t.TempDir()

	origArgs := os.Args
	defer func() {
		os.Args = origArgs
	}()

	os.Args = []string{
		"notekeeper",
		"--data",
		tempDir,
		"--help",
	}

	main()
}
