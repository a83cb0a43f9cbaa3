package main

import (
	"os"

	emilycmder "github.com/flowwed/emily/cmd/emily"
)

func main() {
	cmd := emilycmder.NewEmilyCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
