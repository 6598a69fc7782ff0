package main

import "github.com/melih/slipway/internal/cli"

func main() {
	cli.Execute()
}
