package main

import "github.com/ridloal/mini-store/cmd/ministorectl/commands"

func main() {
	commands.Execute()
}
