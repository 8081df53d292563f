package main

import "github.com/qobs-build/nmakegen/cmd"

func main() {
	cmd.Execute()
}
