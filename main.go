package main

import (
	"os"

	"github.com/rfpqueen/grant-scout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
