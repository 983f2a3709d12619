package main

import (
	"os"

	"github.com/bytehatacademy/academy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
