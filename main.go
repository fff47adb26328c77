package main

import (
	"github.com/lumenplan/dayplanner/cmd"
)

// main is the entry point for the dayplanner CLI.
func main() {
	cmd.Execute()
}
