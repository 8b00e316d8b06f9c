package main

import (
	"os"

	"github.com/Mithurn/JOB-EZ/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
