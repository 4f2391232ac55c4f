package main

import "github.com/notargets/gosagd/cmd"

func main() {
	cmd.Execute()
}
