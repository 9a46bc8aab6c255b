// Package main реализует консольный клиент Doomscrollr.
package main

import (
	"os"

	"doomscrollr/internal/client/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
