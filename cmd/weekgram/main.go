package main

import (
	"fmt"
	"os"

	"github.com/Lina3386/weekgram/internal/closer"
)

var Version = "dev"

func main() {
	err := newRootCmd().Execute()
	if cerr := closer.CloseAll(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
