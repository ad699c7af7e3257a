package main

import "github.com/rpgo/household-forecast/cmd"

func main() {
	cmd.Execute()
}
