package main

import (
	"lmp-shapers/internal/cli"
)

func main() {
	cli.Execute()
}
