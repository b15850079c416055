package main

import (
	"fmt"
	"os"

	"github.com/syssam/clientgen/cmd/clientgen/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
