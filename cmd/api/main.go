package main

import (
	"fmt"
	"os"

	"github.com/ayo6706/terminal-country-switch/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "country-switch: %v\n", err)
		os.Exit(1)
	}
}
