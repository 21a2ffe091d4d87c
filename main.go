package main

import "github.com/aschey/stopwatch/cmd"

func main() {
	cmd.Execute()
}
