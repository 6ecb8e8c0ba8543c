package main

import "github.com/agentic-research/loom/cmd"

func main() {
	cmd.Execute()
}
