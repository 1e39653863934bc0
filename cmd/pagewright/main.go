package main

import (
	"os"

	"github.com/pagewright/pagewright/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
