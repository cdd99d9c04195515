package main

import "github.com/notargets/cpgrid/cmd"

func main() {
	cmd.Execute()
}
