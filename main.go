package main

import "github.com/focusradar/focusradar/cmd"

func main() {
	cmd.Execute()
}
