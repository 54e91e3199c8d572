package main

import "github.com/streamdown/streamdown/cmd"

func main() {
	cmd.Execute()
}
