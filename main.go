package main

import "github.com/notargets/tetlattice/cmd"

func main() {
	cmd.Execute()
}
