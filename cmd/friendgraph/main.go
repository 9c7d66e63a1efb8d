package main

import "friendgraph/internal/cli"

func main() {
	cli.Execute()
}
