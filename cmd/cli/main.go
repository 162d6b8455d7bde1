package main

import "github.com/dmitrijs2005/fileboard/internal/cli"

func main() {
	cli.Execute()
}
