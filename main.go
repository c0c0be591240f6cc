package main

import (
	"os"

	"debate_arena/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
