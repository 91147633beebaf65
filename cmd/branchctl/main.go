package main

import (
	"os"

	"github.com/sbitxtools/branchctl/pkg/branchctl"
)

func main() {
	os.Exit(branchctl.Execute())
}
