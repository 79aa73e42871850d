package main

import "keeper-client/cmd/keeper-cli/cmd"

func main() {
	cmd.Execute()
}
