// main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cosan-storage/vsdscsm-inspect/cmd"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/inspect"
)

func main() {
	startTime := time.Now()

	if len(os.Args) < 2 || os.Args[1] != "version" {
		printBanner()
	}

	// Execute the root command
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, inspect.ErrInspectionFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	elapsedTime := time.Since(startTime)
	fmt.Printf("\nTotal execution time: %s\n", elapsedTime)
}

func printBanner() {
	banner := `
  ____      ____    _    _   _   ___                           _
 / ___|___ / ___|  / \  | \ | | |_ _|_ __  ___ _ __   ___  ___| |_
| |   / _ \\___ \ / _ \ |  \| |  | || '_ \/ __| '_ \ / _ \/ __| __|
| |__| (_) |___) / ___ \| |\  |  | || | | \__ \ |_) |  __/ (__| |_
 \____\___/|____/_/   \_\_| \_| |___|_| |_|___/ .__/ \___|\___|\__|
                                              |_|
 Version: ` + cmd.Version + `
 Started at: %s
`
	fmt.Printf(banner, time.Now().Format("2006-01-02 15:04:05"))
}
