package main

import (
	"os"

	"github.com/AnyUserName/dctstream/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
