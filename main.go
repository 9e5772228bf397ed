/*
vmctool - inspect, list, and extract saves from Sony PS2 Virtual Memory Card images.

Copyright © 2025 Hans Bonini
*/
package main

import (
	"fmt"
	"os"

	"github.com/hansbonini/vmctool/cmd"
)

// Version information (injected at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Check for version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("vmctool %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	cmd.Execute()
}
