package main

import (
	"github.com/openingtools/pgnc/cmd"
)

func main() {
	cmd.Execute()
}
