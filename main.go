// Package main serves as the entry point for the commentgraft application.
// It parses TypeScript and JavaScript sources, interleaves comment lists
// among the members of container nodes, and reports the augmented structure.
package main

import "commentgraft/cmd"

func main() {
	cmd.Execute()
}
